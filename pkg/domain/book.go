package domain

// Book は絵本1冊分の集約ルートです。
// ResponseID は AI バックエンドが発行する継続トークンで、
// 後続の挿絵生成を本文生成の文脈に紐づけるために使います。
type Book struct {
	ID         string `json:"id,omitempty"`
	Title      string `json:"title"`
	RandomFact string `json:"random_fact"`
	ResponseID string `json:"response_id"`
	Pages      []Page `json:"pages"`
}

// Page は絵本の1ページ分の本文と挿絵への参照を保持します。
// ImageID が正であり、Image は populate されたビューに過ぎません。
type Page struct {
	Content  string `json:"content"`
	Synopsis string `json:"synopsis"`
	ImageID  string `json:"image_id,omitempty"`
	Image    *Image `json:"image,omitempty"`
}

// Image はバックエンドのアセットストアに保存された挿絵レコードです。
type Image struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Filename   string `json:"filename"`
	ResponseID string `json:"response_id"`
}

// GeneratedImage は AI が返した直後の、まだ保存されていない画像ペイロードです。
// URL は通常 data: URI で、ResponseID は継続トークンです。
type GeneratedImage struct {
	URL        string `json:"url"`
	ResponseID string `json:"response_id"`
}

// GenerateRequest は AI 生成エンドポイントへのリクエストです。
// AsImage が true の場合は挿絵生成、false の場合は本文生成を要求します。
// ReferenceURL はワイヤには乗らず、直結生成パスが視覚的連続性の
// 参照画像として利用します。
type GenerateRequest struct {
	Input              string `json:"input"`
	PreviousResponseID string `json:"previous_response_id,omitempty"`
	Instructions       string `json:"instructions,omitempty"`
	ArtStyle           string `json:"art_style,omitempty"`
	AsImage            bool   `json:"as_image,omitempty"`

	ReferenceURL string `json:"-"`
}
