package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func testBook() Book {
	return Book{
		ID:         "42",
		Title:      "Test",
		RandomFact: "Schnauzers were bred in Germany.",
		ResponseID: "resp-book",
		Pages: []Page{
			{Content: "page one", Synopsis: "scene one"},
			{Content: "page two", Synopsis: "scene two"},
			{Content: "page three", Synopsis: "scene three"},
		},
	}
}

func TestBook_ReplacePage(t *testing.T) {
	t.Run("対象ページだけが差し替わること", func(t *testing.T) {
		book := testBook()
		img := &Image{ID: "img1", URL: "https://cdn/x.png", ResponseID: "r1"}
		book.Pages[1].Image = img

		page := book.Pages[0]
		page.ImageID = "img1"
		updated := book.ReplacePage(0, page)

		if updated.Pages[0].ImageID != "img1" {
			t.Errorf("差し替え対象の ImageID が反映されていません: %+v", updated.Pages[0])
		}
		if updated.Pages[0].Content != "page one" || updated.Pages[0].Synopsis != "scene one" {
			t.Error("差し替え時に本文・シノプシスが変わってしまいました")
		}

		// 他ページは値もポインタ同一性も保たれること
		if !reflect.DeepEqual(updated.Pages[1], book.Pages[1]) || !reflect.DeepEqual(updated.Pages[2], book.Pages[2]) {
			t.Error("無関係なページが変更されました")
		}
		if updated.Pages[1].Image != img {
			t.Error("無関係なページの Image ポインタの同一性が失われました")
		}
	})

	t.Run("元の Book が変更されないこと", func(t *testing.T) {
		book := testBook()
		page := book.Pages[0]
		page.ImageID = "img1"
		_ = book.ReplacePage(0, page)

		if book.Pages[0].ImageID != "" {
			t.Error("ReplacePage が元の Book を書き換えています")
		}
	})

	t.Run("範囲外の index では元の Book をそのまま返すこと", func(t *testing.T) {
		book := testBook()
		updated := book.ReplacePage(99, Page{Content: "x"})
		if !reflect.DeepEqual(updated, book) {
			t.Error("範囲外の差し替えで Book が変化しました")
		}
	})
}

func TestBook_PreviousResponseID(t *testing.T) {
	book := testBook()
	book.Pages[0].Image = &Image{ID: "img0", URL: "https://cdn/0.png", ResponseID: "r0"}

	t.Run("直前ページの挿絵の ResponseID を優先すること", func(t *testing.T) {
		if got := book.PreviousResponseID(1); got != "r0" {
			t.Errorf("期待値 'r0', 実際の値 '%s'", got)
		}
	})

	t.Run("直前ページに挿絵が無ければ本の ResponseID に落ちること", func(t *testing.T) {
		if got := book.PreviousResponseID(2); got != "resp-book" {
			t.Errorf("期待値 'resp-book', 実際の値 '%s'", got)
		}
	})

	t.Run("先頭ページは常に本の ResponseID を使うこと", func(t *testing.T) {
		if got := book.PreviousResponseID(0); got != "resp-book" {
			t.Errorf("期待値 'resp-book', 実際の値 '%s'", got)
		}
	})
}

func TestPage_HasImage(t *testing.T) {
	cases := []struct {
		name string
		page Page
		want bool
	}{
		{"挿絵なし", Page{Content: "x"}, false},
		{"ImageID のみ", Page{ImageID: "img1"}, true},
		{"populate 済み", Page{Image: &Image{URL: "https://cdn/x.png"}}, true},
		{"URL が空の Image は参照扱いしない", Page{Image: &Image{}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.page.HasImage(); got != tc.want {
				t.Errorf("期待値 %v, 実際の値 %v", tc.want, got)
			}
		})
	}
}

func TestBook_JSON(t *testing.T) {
	t.Run("バックエンドのレスポンス形式をパースできること", func(t *testing.T) {
		inputJSON := `{
			"id": "42",
			"title": "Lily and Popcorn",
			"random_fact": "Dogs dream like humans do.",
			"response_id": "resp-1",
			"pages": [
				{"content": "Once upon a time...", "synopsis": "A girl and her puppy", "image_id": "img1",
				 "image": {"id": "img1", "url": "https://cdn/1.png", "filename": "lily-0.png", "response_id": "r1"}}
			]
		}`

		var book Book
		if err := json.Unmarshal([]byte(inputJSON), &book); err != nil {
			t.Fatalf("パースに失敗しました: %v", err)
		}

		if book.Title != "Lily and Popcorn" || book.ResponseID != "resp-1" {
			t.Errorf("Book のフィールドが正しくパースされていません: %+v", book)
		}
		if len(book.Pages) != 1 || book.Pages[0].Image == nil || book.Pages[0].Image.URL != "https://cdn/1.png" {
			t.Error("ページ内容が正しくパースされていません")
		}
	})
}
