package reconciler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-ehon-kit/pkg/domain"

	"github.com/gosimple/slug"
)

// Store は調停に必要なバックエンド操作の部分集合です。
type Store interface {
	// UploadImage は画像バイナリをアセットストアに保存し、永続 id 付きのレコードを返す。
	UploadImage(ctx context.Context, data []byte, filename, responseID string) (domain.Image, error)
	// UpdateBook は id の絵本を丸ごと更新する。
	UpdateBook(ctx context.Context, book domain.Book, id string) (domain.Book, error)
}

// Reconciler は生成直後の挿絵をアップロードし、対象ページにだけ取り付けて
// 絵本全体を永続化します。index 以外のページには一切触れません。
//
// 永続化は本1冊単位の PUT なので、同じ本に対する並行調停は
// last-writer-wins になります。バックエンドの契約にバージョントークンが
// 無いため、この競合はクライアント側では閉じられません。
type Reconciler struct {
	store Store
}

// New は新しい Reconciler を生成します。
func New(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// Reconcile は pageIndex のページに generated の挿絵を取り付けた絵本を
// 永続化し、表示可能な（live な Image が付いた）マージ結果を返します。
func (r *Reconciler) Reconcile(ctx context.Context, book domain.Book, pageIndex int, generated domain.GeneratedImage) (domain.Book, error) {
	if book.ID == "" {
		return book, fmt.Errorf("絵本がまだ保存されていません: %w", domain.ErrPrecondition)
	}

	page, ok := book.PageAt(pageIndex)
	if !ok {
		return book, fmt.Errorf("ページ %d が存在しません: %w", pageIndex, domain.ErrPrecondition)
	}

	if generated.URL == "" {
		return book, fmt.Errorf("挿絵のペイロードが空です: %w", domain.ErrEmptyResult)
	}

	data, _, err := domain.DecodeDataURL(generated.URL)
	if err != nil {
		return book, fmt.Errorf("挿絵ペイロードのデコードに失敗しました: %w", err)
	}

	filename := Filename(book.Title, pageIndex)
	uploaded, err := r.store.UploadImage(ctx, data, filename, generated.ResponseID)
	if err != nil {
		return book, err
	}

	// 対象ページだけ image_id を付け替える。本文・シノプシスはそのまま。
	page.ImageID = uploaded.ID
	page.Image = nil
	toPersist := book.ReplacePage(pageIndex, page)

	persisted, err := r.store.UpdateBook(ctx, toPersist, book.ID)
	if err != nil {
		return book, err
	}

	slog.Info("挿絵を取り付けました",
		"book_id", book.ID,
		"page_index", pageIndex,
		"image_id", uploaded.ID)

	// 表示用には保存済みレコードをそのまま取り付けた live なビューを返す。
	page.Image = &uploaded
	merged := book.ReplacePage(pageIndex, page)
	merged.ID = persisted.ID
	merged.ResponseID = persisted.ResponseID

	return merged, nil
}

// Filename は絵本のタイトルとページ番号から決定論的なファイル名を導出します。
func Filename(title string, pageIndex int) string {
	base := slug.Make(title)
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%s-%d.png", base, pageIndex)
}
