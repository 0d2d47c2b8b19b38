package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/events"
	"github.com/shouni/go-ehon-kit/pkg/prompts"
)

// DefaultRateInterval は連続生成時のリクエスト間隔のデフォルト値です。
const DefaultRateInterval = 15 * time.Second

// IllustrationRunner はページ単位の挿絵生成を管理するのだ。
// 同じページへの生成は同時に1つしか走らせない。挿絵済みのページへの依頼は
// 何もしない（再実行しても安全）。失敗してもフラグは必ず解除されるので、
// 同じページをもう一度依頼できる。
type IllustrationRunner struct {
	ai       ImageService
	attacher ImageAttacher
	builder  *prompts.IllustrationPromptBuilder
	bus      *events.Bus
	limiter  *rate.Limiter

	mu       sync.Mutex
	inFlight map[int]bool
}

// NewIllustrationRunner は生成サービス、調停役、プロンプトビルダーを注入して
// 初期化します。interval が 0 以下ならデフォルトの間隔を使います。
func NewIllustrationRunner(ai ImageService, attacher ImageAttacher, builder *prompts.IllustrationPromptBuilder, bus *events.Bus, interval time.Duration) *IllustrationRunner {
	if interval <= 0 {
		interval = DefaultRateInterval
	}
	return &IllustrationRunner{
		ai:       ai,
		attacher: attacher,
		builder:  builder,
		bus:      bus,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		inFlight: make(map[int]bool),
	}
}

// IsGenerating は pageIndex の挿絵生成が進行中かどうかを返します。
func (r *IllustrationRunner) IsGenerating(pageIndex int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight[pageIndex]
}

// Run は pageIndex のページに挿絵を生成して取り付け、更新後の絵本を返します。
//
// 次の場合は何もせず受け取った絵本をそのまま返します（エラーにしない）:
//   - ページが存在しない
//   - ページに既に挿絵がある
//   - 同じページの生成が既に進行中
//   - AIの結果が空だった（ログに残して終わり）
//
// artStyle が空ならビルダーのデフォルト画風が使われます。
func (r *IllustrationRunner) Run(ctx context.Context, book domain.Book, pageIndex int, artStyle string) (domain.Book, error) {
	page, ok := book.PageAt(pageIndex)
	if !ok {
		slog.Warn("存在しないページへの挿絵依頼を無視します", "page_index", pageIndex)
		return book, nil
	}
	if page.HasImage() {
		slog.Info("挿絵済みのページなので何もしません", "page_index", pageIndex)
		return book, nil
	}

	if !r.begin(pageIndex) {
		slog.Info("同じページの生成が進行中のため依頼を無視します", "page_index", pageIndex)
		return book, nil
	}
	defer r.end(pageIndex)

	req := r.builder.Build(page.Synopsis, book.PreviousResponseID(pageIndex), artStyle)
	// 継続トークンを持たない生成経路向けに、直前ページの挿絵も添える
	req.ReferenceURL = book.PreviousImageURL(pageIndex)

	slog.Info("挿絵を生成します",
		"book_id", book.ID,
		"page_index", pageIndex,
		"previous_response_id", req.PreviousResponseID)

	generated, err := r.ai.GenerateImage(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyResult) {
			slog.Warn("挿絵の生成結果が空でした。状態は変更しません",
				"book_id", book.ID, "page_index", pageIndex)
			return book, nil
		}
		return book, fmt.Errorf("ページ %d の挿絵生成に失敗しました: %w", pageIndex, err)
	}

	merged, err := r.attacher.Reconcile(ctx, book, pageIndex, generated)
	if err != nil {
		return book, fmt.Errorf("ページ %d の挿絵の取り付けに失敗しました: %w", pageIndex, err)
	}

	if r.bus != nil {
		if attached, ok := merged.PageAt(pageIndex); ok && attached.Image != nil {
			r.bus.PublishImageAttached(events.ImageAttached{
				BookID:    merged.ID,
				PageIndex: pageIndex,
				Image:     *attached.Image,
			})
		}
	}

	return merged, nil
}

// RunAll は絵本の全ページに順番に挿絵を生成します。
// 前のページの結果が次のページの継続トークンになるため、並列化はせず、
// レートリミットを挟みながら先頭から順に処理するのだ。
// 挿絵済みのページは飛ばします。
func (r *IllustrationRunner) RunAll(ctx context.Context, book domain.Book, artStyle string) (domain.Book, error) {
	current := book
	for i := 0; i < current.PageCount(); i++ {
		page, _ := current.PageAt(i)
		if page.HasImage() {
			continue
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return current, fmt.Errorf("リミッター待機中にエラーが発生しました: %w", err)
		}

		next, err := r.Run(ctx, current, i, artStyle)
		if err != nil {
			return current, err
		}
		current = next
	}

	slog.Info("全ページの挿絵生成が完了しました", "book_id", current.ID, "pages", current.PageCount())
	return current, nil
}

// begin は pageIndex の進行中フラグを立てます。既に立っていれば false を返します。
func (r *IllustrationRunner) begin(pageIndex int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFlight[pageIndex] {
		return false
	}
	r.inFlight[pageIndex] = true
	return true
}

func (r *IllustrationRunner) end(pageIndex int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, pageIndex)
}
