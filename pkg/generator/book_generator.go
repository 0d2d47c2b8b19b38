package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/shouni/go-ehon-kit/pkg/domain"

	"github.com/shouni/go-gemini-client/pkg/gemini"
)

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")

// BookGenerator は Gemini に直接問い合わせて絵本の本文を生成します。
// バックエンドの AI エンドポイントを介さない直結パスです。
type BookGenerator struct {
	aiClient gemini.GenerativeModel
	model    string
}

// NewBookGenerator は依存関係を注入して初期化します。
func NewBookGenerator(ai gemini.GenerativeModel, model string) *BookGenerator {
	return &BookGenerator{
		aiClient: ai,
		model:    model,
	}
}

// GenerateBook は指示文と要約から絵本1冊分の構造化データを生成します。
// 直結パスには継続トークンが無いため、ResponseID は空のままです。
func (bg *BookGenerator) GenerateBook(ctx context.Context, req domain.GenerateRequest) (domain.Book, error) {
	prompt := req.Instructions + "\n\n" + req.Input

	slog.Info("BookGenerator: Calling Gemini API", "model", bg.model)
	resp, err := bg.aiClient.GenerateContent(ctx, prompt, bg.model)
	if err != nil {
		return domain.Book{}, fmt.Errorf("本文の生成に失敗しました: %w", err)
	}

	book, err := ParseBookResponse(resp.Text)
	if err != nil {
		return domain.Book{}, err
	}

	return book, nil
}

// ParseBookResponse は AI 応答のテキストから JSON 部分を抽出し、Book に変換します。
// コードフェンス、最外の中括弧、応答全体の順でフォールバックします。
func ParseBookResponse(raw string) (domain.Book, error) {
	raw = strings.TrimSpace(raw)
	var rawJSON string

	matches := jsonBlockRegex.FindStringSubmatch(raw)
	if len(matches) > 1 {
		rawJSON = matches[1]
	} else {
		firstBracket := strings.Index(raw, "{")
		lastBracket := strings.LastIndex(raw, "}")
		if firstBracket != -1 && lastBracket != -1 && lastBracket > firstBracket {
			rawJSON = raw[firstBracket : lastBracket+1]
		} else {
			rawJSON = raw
		}
	}

	var book domain.Book
	if err := json.Unmarshal([]byte(rawJSON), &book); err != nil {
		return domain.Book{}, fmt.Errorf("AIからの応答に含まれるJSONの解析に失敗しました (応答抜粋: %q): %w", truncateString(raw, 200), err)
	}

	if book.Title == "" || len(book.Pages) == 0 {
		return domain.Book{}, fmt.Errorf("生成された絵本が空です (応答抜粋: %q): %w", truncateString(raw, 200), domain.ErrEmptyResult)
	}

	return book, nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
