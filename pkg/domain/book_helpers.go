package domain

// HasImage は、このページにすでに挿絵が付いているかを返します。
// 通常フローでは挿絵は1ページにつき一度しか付かないのだ。
func (p Page) HasImage() bool {
	if p.Image != nil && p.Image.URL != "" {
		return true
	}
	return p.ImageID != ""
}

// PageCount はページ数を返します。
func (b Book) PageCount() int {
	return len(b.Pages)
}

// PageAt は境界チェック付きでページを取得します。
func (b Book) PageAt(index int) (Page, bool) {
	if index < 0 || index >= len(b.Pages) {
		return Page{}, false
	}
	return b.Pages[index], true
}

// ReplacePage は index のページだけを差し替えた新しい Book を返します。
// Pages スライスは新規に割り当てるけれど、index 以外の Page 値は
// そのままコピーするので、他ページの Image ポインタ等の同一性は保たれるのだ。
func (b Book) ReplacePage(index int, page Page) Book {
	if index < 0 || index >= len(b.Pages) {
		return b
	}

	pages := make([]Page, len(b.Pages))
	copy(pages, b.Pages)
	pages[index] = page

	updated := b
	updated.Pages = pages
	return updated
}

// PreviousResponseID は index ページの挿絵生成に使う継続トークンを返します。
// 直前ページの挿絵の ResponseID を優先し、なければ本の ResponseID に
// フォールバックします。どちらも無ければ空文字です。
func (b Book) PreviousResponseID(index int) string {
	if index > 0 && index-1 < len(b.Pages) {
		if img := b.Pages[index-1].Image; img != nil && img.ResponseID != "" {
			return img.ResponseID
		}
	}
	return b.ResponseID
}

// PreviousImageURL は index の直前ページに保存済みの挿絵 URL を返します。
// 直結生成パスが参照画像として利用します。無ければ空文字です。
func (b Book) PreviousImageURL(index int) string {
	if index > 0 && index-1 < len(b.Pages) {
		if img := b.Pages[index-1].Image; img != nil {
			return img.URL
		}
	}
	return ""
}
