package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// populateQuery は Book の取得時に挿絵レコードを同時に展開させるクエリです。
const populateQuery = "populate=images"

// Client はコンテンツストア（books / images / ai）の REST API クライアントです。
// すべての呼び出しは context を受け取り、キャンセルとタイムアウトに従います。
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New は指定されたベース URL とタイムアウトでクライアントを生成します。
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListBooks は保存済みの絵本を挿絵付きで一覧取得します。
func (c *Client) ListBooks(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.doJSON(ctx, http.MethodGet, "/api/books?"+populateQuery, nil, &books); err != nil {
		return nil, fmt.Errorf("絵本一覧の取得に失敗しました: %w", err)
	}
	return books, nil
}

// GetBook は id の絵本を挿絵付きで取得します。
func (c *Client) GetBook(ctx context.Context, id string) (domain.Book, error) {
	var book domain.Book
	path := fmt.Sprintf("/api/books/%s?%s", url.PathEscape(id), populateQuery)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &book); err != nil {
		return domain.Book{}, fmt.Errorf("絵本 %s の取得に失敗しました: %w", id, err)
	}
	if book.Title == "" {
		return domain.Book{}, fmt.Errorf("絵本 %s が見つかりません: %w", id, domain.ErrEmptyResult)
	}
	return book, nil
}

// CreateBook は新しい絵本を保存し、id が割り当てられたレコードを返します。
func (c *Client) CreateBook(ctx context.Context, book domain.Book) (domain.Book, error) {
	var created domain.Book
	if err := c.doJSON(ctx, http.MethodPost, "/api/books", book, &created); err != nil {
		return domain.Book{}, fmt.Errorf("絵本の保存に失敗しました: %w", err)
	}
	if created.ID == "" {
		return domain.Book{}, fmt.Errorf("保存された絵本に id がありません: %w", domain.ErrEmptyResult)
	}
	return created, nil
}

// UpdateBook は id の絵本を丸ごと更新します。
// バックエンドにバージョントークンは無いため、書き込みは本1冊単位の
// last-writer-wins になります。
func (c *Client) UpdateBook(ctx context.Context, book domain.Book, id string) (domain.Book, error) {
	var updated domain.Book
	path := "/api/books/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodPut, path, book, &updated); err != nil {
		return domain.Book{}, fmt.Errorf("絵本 %s の更新に失敗しました: %w", id, err)
	}
	if updated.Title == "" {
		return domain.Book{}, fmt.Errorf("絵本 %s の更新結果が空です: %w", id, domain.ErrEmptyResult)
	}
	return updated, nil
}

// DeleteResult は削除 API のレスポンスです。
type DeleteResult struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DeleteBook は id の絵本を削除します。
func (c *Client) DeleteBook(ctx context.Context, id string) (DeleteResult, error) {
	var result DeleteResult
	path := "/api/books/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return DeleteResult{}, fmt.Errorf("絵本 %s の削除に失敗しました: %w", id, err)
	}
	return result, nil
}

// GetImage は id の挿絵レコードを取得します。
func (c *Client) GetImage(ctx context.Context, id string) (domain.Image, error) {
	var img domain.Image
	path := "/api/images/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &img); err != nil {
		return domain.Image{}, fmt.Errorf("挿絵 %s の取得に失敗しました: %w", id, err)
	}
	if img.URL == "" {
		return domain.Image{}, fmt.Errorf("挿絵 %s が見つかりません: %w", id, domain.ErrEmptyResult)
	}
	return img, nil
}

// UploadImage は画像バイナリを multipart でアセットストアに保存し、
// 永続 id の付いた挿絵レコードを返します。
func (c *Client) UploadImage(ctx context.Context, data []byte, filename, responseID string) (domain.Image, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return domain.Image{}, fmt.Errorf("multipartの構築に失敗しました: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return domain.Image{}, fmt.Errorf("multipartへの書き込みに失敗しました: %w", err)
	}
	if err := writer.WriteField("response_id", responseID); err != nil {
		return domain.Image{}, fmt.Errorf("multipartへの書き込みに失敗しました: %w", err)
	}
	if err := writer.Close(); err != nil {
		return domain.Image{}, fmt.Errorf("multipartの終了に失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/images", body)
	if err != nil {
		return domain.Image{}, fmt.Errorf("リクエストの構築に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var img domain.Image
	if err := c.send(req, &img); err != nil {
		return domain.Image{}, fmt.Errorf("挿絵のアップロードに失敗しました: %w", err)
	}
	if img.URL == "" {
		return domain.Image{}, fmt.Errorf("アップロード結果に url がありません: %w", domain.ErrEmptyResult)
	}
	return img, nil
}

// FetchRaw は任意の URL から画像バイナリを取得します。
// data: URI はネットワークを介さずローカルでデコードするのだ。
func (c *Client) FetchRaw(ctx context.Context, rawURL string) ([]byte, string, error) {
	if strings.HasPrefix(rawURL, "data:") {
		return domain.DecodeDataURL(rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("リクエストの構築に失敗しました: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("画像の取得に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("画像の取得に失敗しました: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("画像の読み込みに失敗しました: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// doJSON は JSON リクエストを送り、2xx であればレスポンスを out にデコードします。
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("リクエストのエンコードに失敗しました: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("リクエストの構築に失敗しました: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("レスポンスの読み込みに失敗しました: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &errResp)
		if errResp.Error != "" {
			return fmt.Errorf("バックエンドがエラーを返しました (status %d): %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("バックエンドがエラーを返しました: status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("レスポンスの解析に失敗しました: %w", err)
	}
	return nil
}
