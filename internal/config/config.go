package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultAPIBaseURL     = "http://localhost:3000"
	DefaultModel          = "gemini-3-flash-preview"
	DefaultImageModel     = "gemini-3-pro-image-preview"
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultRateInterval   = 15 * time.Second
	DefaultCharactersFile = "examples/characters.json" // キャラクターの視覚情報（DNA）を定義したJSONパス
	DefaultOutputDir      = "output/book"              // export コマンドのデフォルト保存先なのだ

	// 挿絵の直接生成経路で全ページ共通に適用する画風の指示
	DefaultImagePromptSuffix = "children's picture book illustration, soft watercolor texture, warm gentle lighting, storybook composition, consistent character design, high resolution"
)

// Config はアプリケーション全体の環境設定（APIキーや接続先）を保持する構造体なのだ。
type Config struct {
	APIBaseURL        string
	GeminiAPIKey      string
	GeminiModel       string
	GeminiImageModel  string
	ImagePromptSuffix string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		APIBaseURL:        envutil.GetEnv("EHON_API", DefaultAPIBaseURL),
		GeminiAPIKey:      envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:       envutil.GetEnv("GEMINI_MODEL", DefaultModel),
		GeminiImageModel:  envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		ImagePromptSuffix: envutil.GetEnv("IMAGE_PROMPT_SUFFIX", DefaultImagePromptSuffix),
	}
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 生成入力関連
	Input           string // --input: 絵本のあらすじ
	InputFile       string // --input-file
	ArtStyle        string // --art-style
	PageCount       int    // --pages
	CharacterConfig string // --char-config

	// 挿絵生成関連
	BookID    string // --book: 対象の絵本のid（省略時はセッションから復元）
	PageIndex int    // --page: 挿絵を生成するページ番号（0始まり）
	AllPages  bool   // --all: 全ページの挿絵を生成する
	Direct    bool   // --direct: バックエンドを介さず Gemini を直接呼ぶ

	// 出力設定
	OutputDir string // --output-dir（ローカル or gs://...）

	// AIモデル・挙動設定
	AIModel      string        // --model: テキスト生成用のGeminiモデル
	ImageModel   string        // --image-model: 挿絵生成用のGeminiモデル
	HTTPTimeout  time.Duration // --http-timeout
	RateInterval time.Duration // --rate-interval: 連続生成時のリクエスト間隔
}
