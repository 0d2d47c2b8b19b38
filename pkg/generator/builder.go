package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	imageKit "github.com/shouni/gemini-image-kit/pkg/adapters"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"google.golang.org/genai"
)

const (
	defaultGeminiTemperature = float32(0.2)
	defaultCacheExpiration   = 30 * time.Minute
	cacheCleanupInterval     = 1 * time.Hour
)

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// InitializeImageCore は挿絵生成アダプターで共有する画像処理コアを生成します。
// 参照画像のダウンロード結果は go-cache に保持されます。
func InitializeImageCore(clientInterface httpkit.ClientInterface) imageKit.ImageGeneratorCore {
	imgCache := cache.New(defaultCacheExpiration, cacheCleanupInterval)

	return imageKit.NewGeminiImageCore(
		clientInterface,
		imgCache,
		cacheCleanupInterval,
	)
}

// InitializeImageAdapter は挿絵1枚単位の生成アダプターを初期化します。
func InitializeImageAdapter(core imageKit.ImageGeneratorCore, aiClient gemini.GenerativeModel, imageModel, promptSuffix string) (imageKit.ImageAdapter, error) {
	imageAdapter, err := imageKit.NewGeminiImageAdapter(
		core,
		aiClient,
		imageModel,
		promptSuffix,
	)
	if err != nil {
		return nil, fmt.Errorf("画像アダプターの初期化に失敗しました: %w", err)
	}

	return imageAdapter, nil
}
