package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/generator"
	"github.com/shouni/go-ehon-kit/pkg/prompts"
	"github.com/shouni/go-ehon-kit/pkg/publisher"
	"github.com/shouni/go-ehon-kit/pkg/reconciler"
	"github.com/shouni/go-ehon-kit/pkg/runner"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-text-format/pkg/builder"
)

// BuildBookRunner は本文生成を担当する Runner を構築します。
func BuildBookRunner(ctx context.Context, appCtx *AppContext) (*runner.BookRunner, error) {
	chars, err := loadCharacters(appCtx)
	if err != nil {
		return nil, err
	}

	ai, err := selectBookService(ctx, appCtx)
	if err != nil {
		return nil, err
	}

	bookBuilder := prompts.NewBookPromptBuilder(chars, appCtx.Options.PageCount)
	return runner.NewBookRunner(ai, appCtx.Backend, bookBuilder, appCtx.Bus, appCtx.Session), nil
}

// BuildIllustrationRunner は挿絵生成を担当する Runner を構築します。
func BuildIllustrationRunner(ctx context.Context, appCtx *AppContext) (*runner.IllustrationRunner, error) {
	chars, err := loadCharacters(appCtx)
	if err != nil {
		return nil, err
	}

	ai, err := selectImageService(ctx, appCtx)
	if err != nil {
		return nil, err
	}

	illBuilder := prompts.NewIllustrationPromptBuilder(chars, appCtx.Options.ArtStyle)
	rec := reconciler.New(appCtx.Backend)

	return runner.NewIllustrationRunner(ai, rec, illBuilder, appCtx.Bus, appCtx.Options.RateInterval), nil
}

// BuildPublishRunner は絵本の書き出しを担当する Runner を構築します。
// 出力先がローカルでも gs:// でも同じ書き込み経路を使うのだ。
func BuildPublishRunner(ctx context.Context, appCtx *AppContext) (runner.PublishRunner, error) {
	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("GCSクライアントファクトリの初期化に失敗しました: %w", err)
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, fmt.Errorf("OutputWriterの取得に失敗しました: %w", err)
	}

	htmlCfg := builder.BuilderConfig{
		EnableHardWraps: true,
		Mode:            "webtoon",
	}
	md2htmlBuilder, err := builder.NewBuilder(htmlCfg)
	if err != nil {
		return nil, fmt.Errorf("md2htmlBuilderの初期化に失敗しました: %w", err)
	}
	md2htmlRunner, err := md2htmlBuilder.BuildRunner()
	if err != nil {
		return nil, fmt.Errorf("md2htmlrunnerの初期化に失敗しました: %w", err)
	}

	pub := publisher.NewBookPublisher(writer, appCtx.Backend, md2htmlRunner)
	return runner.NewDefaultPublishRunner(appCtx.Options.OutputDir, pub), nil
}

// selectBookService は本文生成に使うサービスを決めます。
// 通常はバックエンドの AI エンドポイント、--direct 指定時は Gemini を直接呼びます。
func selectBookService(ctx context.Context, appCtx *AppContext) (runner.BookService, error) {
	if !appCtx.Options.Direct {
		return appCtx.Backend, nil
	}

	aiClient, err := generator.InitializeAIClient(ctx, appCtx.Config.GeminiAPIKey)
	if err != nil {
		return nil, err
	}
	return generator.NewBookGenerator(aiClient, appCtx.Config.GeminiModel), nil
}

// selectImageService は挿絵生成に使うサービスを決めます。
func selectImageService(ctx context.Context, appCtx *AppContext) (runner.ImageService, error) {
	if !appCtx.Options.Direct {
		return appCtx.Backend, nil
	}

	aiClient, err := generator.InitializeAIClient(ctx, appCtx.Config.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	httpClient := httpkit.New(appCtx.Options.HTTPTimeout)
	core := generator.InitializeImageCore(httpClient)
	adapter, err := generator.InitializeImageAdapter(
		core,
		aiClient,
		appCtx.Config.GeminiImageModel,
		appCtx.Config.ImagePromptSuffix,
	)
	if err != nil {
		return nil, err
	}
	return generator.NewIllustrator(adapter), nil
}

func loadCharacters(appCtx *AppContext) (domain.CharactersMap, error) {
	chars, err := domain.LoadCharacters(appCtx.Options.CharacterConfig)
	if err != nil {
		return nil, fmt.Errorf("キャラクター情報の取得に失敗しました: %w", err)
	}
	return chars, nil
}
