package backend

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shouni/go-ehon-kit/pkg/domain"
)

const aiPath = "/api/ai"

// GenerateBook は AI エンドポイントに本文生成を依頼します。
// レスポンスは Book 本体（response_id 付き）です。
func (c *Client) GenerateBook(ctx context.Context, req domain.GenerateRequest) (domain.Book, error) {
	req.AsImage = false

	slog.Info("本文生成をリクエストします", "input_len", len(req.Input))

	var book domain.Book
	if err := c.doJSON(ctx, http.MethodPost, aiPath, req, &book); err != nil {
		return domain.Book{}, fmt.Errorf("本文生成に失敗しました: %w", err)
	}
	if book.Title == "" || len(book.Pages) == 0 {
		return domain.Book{}, fmt.Errorf("生成された絵本が空です: %w", domain.ErrEmptyResult)
	}
	return book, nil
}

// GenerateImage は AI エンドポイントに挿絵生成を依頼します。
// レスポンスは { url, response_id } で、url が data: URI になります。
func (c *Client) GenerateImage(ctx context.Context, req domain.GenerateRequest) (domain.GeneratedImage, error) {
	req.AsImage = true

	slog.Info("挿絵生成をリクエストします",
		"input_len", len(req.Input),
		"previous_response_id", req.PreviousResponseID,
		"art_style", req.ArtStyle)

	var img domain.GeneratedImage
	if err := c.doJSON(ctx, http.MethodPost, aiPath, req, &img); err != nil {
		return domain.GeneratedImage{}, fmt.Errorf("挿絵生成に失敗しました: %w", err)
	}
	if img.URL == "" {
		return domain.GeneratedImage{}, fmt.Errorf("挿絵生成の結果が空です: %w", domain.ErrEmptyResult)
	}
	return img, nil
}
