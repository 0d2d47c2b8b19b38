package reconciler

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// fakeStore は呼び出しを記録するテスト用の Store 実装です。
type fakeStore struct {
	uploadCalls int
	updateCalls int

	uploadedData       []byte
	uploadedFilename   string
	uploadedResponseID string
	updatedBook        domain.Book
	updatedID          string

	uploadResult domain.Image
	uploadErr    error
	updateErr    error
}

func (f *fakeStore) UploadImage(ctx context.Context, data []byte, filename, responseID string) (domain.Image, error) {
	f.uploadCalls++
	f.uploadedData = data
	f.uploadedFilename = filename
	f.uploadedResponseID = responseID
	if f.uploadErr != nil {
		return domain.Image{}, f.uploadErr
	}
	return f.uploadResult, nil
}

func (f *fakeStore) UpdateBook(ctx context.Context, book domain.Book, id string) (domain.Book, error) {
	f.updateCalls++
	f.updatedBook = book
	f.updatedID = id
	if f.updateErr != nil {
		return domain.Book{}, f.updateErr
	}
	return book, nil
}

func threePageBook() domain.Book {
	return domain.Book{
		ID:         "42",
		Title:      "Test",
		ResponseID: "resp-book",
		Pages: []domain.Page{
			{Content: "one", Synopsis: "s1"},
			{Content: "two", Synopsis: "s2"},
			{Content: "three", Synopsis: "s3"},
		},
	}
}

func TestReconciler_Reconcile(t *testing.T) {
	t.Run("アップロードと全体 PUT が行われ、対象ページだけが更新されること", func(t *testing.T) {
		store := &fakeStore{
			uploadResult: domain.Image{ID: "img1", URL: "https://cdn/x.png", Filename: "test-0.png", ResponseID: "r1"},
		}
		rec := New(store)
		book := threePageBook()

		generated := domain.GeneratedImage{URL: domain.EncodeDataURL([]byte("png"), "image/png"), ResponseID: "r1"}
		merged, err := rec.Reconcile(context.Background(), book, 0, generated)
		if err != nil {
			t.Fatalf("調停に失敗しました: %v", err)
		}

		if store.uploadedFilename != "test-0.png" {
			t.Errorf("期待値 'test-0.png', 実際の値 '%s'", store.uploadedFilename)
		}
		if store.uploadedResponseID != "r1" {
			t.Errorf("期待値 'r1', 実際の値 '%s'", store.uploadedResponseID)
		}
		if string(store.uploadedData) != "png" {
			t.Error("アップロードされたバイナリが元ペイロードと一致しません")
		}

		if store.updatedID != "42" {
			t.Errorf("PUT 先の id が不正です: %s", store.updatedID)
		}
		if store.updatedBook.Pages[0].ImageID != "img1" {
			t.Error("PUT された絵本に image_id が反映されていません")
		}

		// マージ結果には live な Image が付くこと
		if merged.Pages[0].Image == nil || merged.Pages[0].Image.ID != "img1" {
			t.Error("マージ結果に保存済みの Image が取り付けられていません")
		}

		// 他のページは値ごと不変であること
		if !reflect.DeepEqual(merged.Pages[1], book.Pages[1]) || !reflect.DeepEqual(merged.Pages[2], book.Pages[2]) {
			t.Error("無関係なページが変更されました")
		}
	})

	t.Run("他ページの Image ポインタの同一性が保たれること", func(t *testing.T) {
		store := &fakeStore{uploadResult: domain.Image{ID: "img2", URL: "https://cdn/y.png"}}
		rec := New(store)

		book := threePageBook()
		existing := &domain.Image{ID: "img0", URL: "https://cdn/0.png", ResponseID: "r0"}
		book.Pages[0].ImageID = "img0"
		book.Pages[0].Image = existing

		merged, err := rec.Reconcile(context.Background(), book, 1, domain.GeneratedImage{URL: domain.EncodeDataURL([]byte("x"), "")})
		if err != nil {
			t.Fatalf("調停に失敗しました: %v", err)
		}
		if merged.Pages[0].Image != existing {
			t.Error("ページ0の Image ポインタの同一性が失われました")
		}
	})

	t.Run("未保存の絵本は前提条件エラーになること", func(t *testing.T) {
		store := &fakeStore{}
		rec := New(store)
		book := threePageBook()
		book.ID = ""

		_, err := rec.Reconcile(context.Background(), book, 0, domain.GeneratedImage{URL: "data:image/png;base64,AQID"})
		if !errors.Is(err, domain.ErrPrecondition) {
			t.Errorf("ErrPrecondition が返りませんでした: %v", err)
		}
		if store.uploadCalls != 0 || store.updateCalls != 0 {
			t.Error("前提条件エラーでもバックエンドが呼ばれています")
		}
	})

	t.Run("空のペイロードではアップロードも PUT も行われないこと", func(t *testing.T) {
		store := &fakeStore{}
		rec := New(store)

		returned, err := rec.Reconcile(context.Background(), threePageBook(), 0, domain.GeneratedImage{})
		if !errors.Is(err, domain.ErrEmptyResult) {
			t.Errorf("ErrEmptyResult が返りませんでした: %v", err)
		}
		if store.uploadCalls != 0 || store.updateCalls != 0 {
			t.Error("空ペイロードでもバックエンドが呼ばれています")
		}
		if !reflect.DeepEqual(returned, threePageBook()) {
			t.Error("失敗時に絵本が変更されています")
		}
	})

	t.Run("存在しないページは前提条件エラーになること", func(t *testing.T) {
		store := &fakeStore{}
		rec := New(store)

		_, err := rec.Reconcile(context.Background(), threePageBook(), 99, domain.GeneratedImage{URL: "data:image/png;base64,AQID"})
		if !errors.Is(err, domain.ErrPrecondition) {
			t.Errorf("ErrPrecondition が返りませんでした: %v", err)
		}
		if store.uploadCalls != 0 {
			t.Error("範囲外ページでもアップロードが呼ばれています")
		}
	})
}

func TestFilename(t *testing.T) {
	cases := []struct {
		title string
		index int
		want  string
	}{
		{"Test", 0, "test-0.png"},
		{"Lily & Popcorn Go Dancing!", 2, "lily-popcorn-go-dancing-2.png"},
		{"", 1, "image-1.png"},
	}

	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			if got := Filename(tc.title, tc.index); got != tc.want {
				t.Errorf("期待値 '%s', 実際の値 '%s'", tc.want, got)
			}
		})
	}
}
