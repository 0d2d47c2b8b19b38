package cmd

import (
	"fmt"
	"os"

	"github.com/shouni/go-ehon-kit/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は各サブコマンドで共有される実行時パラメータなのだ。
var opts config.GenerateOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- 生成入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.Input, "input", "i", "", "絵本のあらすじなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.InputFile, "input-file", "f", "", "あらすじを書いたファイルのパス（'-'で標準入力なのだ）。")
	rootCmd.PersistentFlags().StringVarP(&opts.ArtStyle, "art-style", "s", "", "挿絵の画風なのだ。省略時はデフォルトの画風を使うのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.PageCount, "pages", 0, "生成するページ数なのだ。0ならデフォルトのページ数なのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.CharacterConfig, "char-config", "c", config.DefaultCharactersFile, "キャラクターの視覚情報（DNA）を定義したJSONパスなのだ。")

	// --- 操作対象・挿絵生成関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.BookID, "book", "b", "", "対象の絵本のidなのだ。省略時はセッションから復元するのだ。")
	rootCmd.PersistentFlags().IntVarP(&opts.PageIndex, "page", "p", 0, "挿絵を生成するページ番号（0始まり）なのだ。")
	rootCmd.PersistentFlags().BoolVarP(&opts.AllPages, "all", "a", false, "全ページの挿絵を生成するのだ。")
	rootCmd.PersistentFlags().BoolVar(&opts.Direct, "direct", false, "バックエンドを介さず Gemini を直接呼ぶのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "書き出し先のディレクトリ（ローカル or gs://...）なのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.AIModel, "model", config.DefaultModel, "本文生成に使う Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", config.DefaultImageModel, "挿絵生成に使う Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.RateInterval, "rate-interval", config.DefaultRateInterval, "連続生成時のリクエスト間隔なのだ。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// --direct 時は Gemini API を直接叩くため、APIキーの存在チェックは欠かせないのだ！
	if opts.Direct && os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。--direct の利用には必須なのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"ap-ehon-go",
		addAppFlags,
		preRunAppE,
		generateCmd,
		illustrateCmd,
		booksCmd,
		readCmd,
		exportCmd,
	)
}
