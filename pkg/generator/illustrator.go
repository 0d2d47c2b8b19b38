package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-ehon-kit/pkg/domain"

	imageKit "github.com/shouni/gemini-image-kit/pkg/adapters"
	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
)

// IllustrationAspectRatio は絵本の判型（820/1030）に最も近い対応アスペクト比です。
const IllustrationAspectRatio = "4:5"

// Illustrator は Gemini に直接問い合わせて挿絵を1枚生成します。
// 直結パスには継続トークンが無いので、視覚的な連続性は直前ページの
// 挿絵を参照画像として渡すことで保ちます。
type Illustrator struct {
	imageAdapter imageKit.ImageAdapter
}

// NewIllustrator は依存関係を注入して初期化します。
func NewIllustrator(adapter imageKit.ImageAdapter) *Illustrator {
	return &Illustrator{imageAdapter: adapter}
}

// GenerateImage はシノプシスから挿絵を生成し、data: URI で返します。
// 継続トークンは発行できないため ResponseID は空になり、
// 後続ページのアンカーは本の ResponseID にフォールバックします。
func (il *Illustrator) GenerateImage(ctx context.Context, req domain.GenerateRequest) (domain.GeneratedImage, error) {
	slog.Info("Illustrator: 挿絵を生成します",
		"input_len", len(req.Input),
		"reference_url", req.ReferenceURL != "")

	resp, err := il.imageAdapter.GenerateMangaPanel(ctx, imagedom.ImageGenerationRequest{
		Prompt:       req.Input,
		SystemPrompt: req.Instructions,
		AspectRatio:  IllustrationAspectRatio,
		ReferenceURL: req.ReferenceURL,
	})
	if err != nil {
		return domain.GeneratedImage{}, fmt.Errorf("挿絵の生成に失敗しました: %w", err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return domain.GeneratedImage{}, fmt.Errorf("挿絵の生成結果が空です: %w", domain.ErrEmptyResult)
	}

	return domain.GeneratedImage{
		URL: domain.EncodeDataURL(resp.Data, resp.MimeType),
	}, nil
}
