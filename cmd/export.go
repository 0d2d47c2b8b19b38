package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-ehon-kit/internal/config"
	"github.com/shouni/go-ehon-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// exportCmd は、保存済みの絵本を Markdown・HTML・画像として書き出すのだ。
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "絵本を Markdown と HTML に書き出しますなのだ。",
	Long: `絵本の本文と挿絵をまとめてファイルに書き出すのだ。
--output-dir に gs:// を指定すればそのままクラウドにも置けるのだよ。`,
	RunE: exportCommand,
}

func exportCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("書き出しモードを起動するのだ！",
		"book_id", opts.BookID,
		"output_dir", opts.OutputDir)

	result, err := pipeline.ExecuteExport(ctx, cfg)
	if err != nil {
		return fmt.Errorf("書き出し中にエラーが発生したのだ: %w", err)
	}

	fmt.Printf("書き出しが終わったのだ！ markdown=%s html=%s 挿絵=%d枚\n",
		result.MarkdownPath, result.HTMLPath, len(result.ImagePaths))
	return nil
}
