package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shouni/go-ehon-kit/internal/config"
	"github.com/shouni/go-ehon-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、AIによる絵本の本文生成を実行するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "AIにあらすじから絵本を1冊書かせますなのだ。",
	Long: `あらすじを基に、タイトル・ページ本文・挿絵用シノプシス・豆知識を持つ
絵本を生成して保存するのだ。--all を付ければ続けて全ページの挿絵も生成するのだよ。`,
	RunE: generateCommand,
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// ここで input が空でも、前回セッションのあらすじで補完されるのだ
	input, err := resolveInput()
	if err != nil {
		return err
	}

	// 環境変数から基本設定をロードし、コマンドライン引数の値を反映するのだ
	cfg := config.LoadConfig()
	cfg.GeminiModel = opts.AIModel
	cfg.GeminiImageModel = opts.ImageModel
	cfg.Options = opts

	slog.Info("絵本生成パイプラインを起動するのだ！",
		"text_model", cfg.GeminiModel,
		"image_model", cfg.GeminiImageModel,
		"all_pages", opts.AllPages)

	book, err := pipeline.ExecuteGenerate(ctx, cfg, input)
	if err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	fmt.Printf("絵本ができたのだ！ id=%s title=%q pages=%d\n", book.ID, book.Title, book.PageCount())
	return nil
}

// resolveInput はあらすじを --input、--input-file、標準入力の順で解決するのだ。
func resolveInput() (string, error) {
	if opts.Input != "" {
		return strings.TrimSpace(opts.Input), nil
	}

	if opts.InputFile == "-" || (opts.InputFile == "" && isStdin()) {
		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, os.Stdin); err != nil {
			return "", fmt.Errorf("標準入力の読み込みに失敗したのだ: %w", err)
		}
		return strings.TrimSpace(buf.String()), nil
	}

	if opts.InputFile != "" {
		data, err := os.ReadFile(opts.InputFile)
		if err != nil {
			return "", fmt.Errorf("入力ファイル '%s' の読み込みに失敗したのだ: %w", opts.InputFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	return "", nil
}

func isStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
