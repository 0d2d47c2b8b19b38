package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-ehon-kit/internal/config"
	"github.com/shouni/go-ehon-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// illustrateCmd は、保存済みの絵本に挿絵を生成して取り付けるのだ。
var illustrateCmd = &cobra.Command{
	Use:   "illustrate",
	Short: "保存済みの絵本のページに挿絵を生成しますなのだ。",
	Long: `--page で1ページだけ、--all で全ページの挿絵を生成するのだ。
前のページの挿絵の継続トークンを引き継ぐので、見た目の一貫性が保たれるのだよ。
挿絵済みのページは飛ばされるのだ。`,
	RunE: illustrateCommand,
}

func illustrateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := config.LoadConfig()
	cfg.GeminiImageModel = opts.ImageModel
	cfg.Options = opts

	slog.Info("挿絵生成モードを起動するのだ！",
		"book_id", opts.BookID,
		"page_index", opts.PageIndex,
		"all_pages", opts.AllPages,
		"image_model", cfg.GeminiImageModel)

	book, err := pipeline.ExecuteIllustrate(ctx, cfg)
	if err != nil {
		return fmt.Errorf("挿絵生成中にエラーが発生したのだ: %w", err)
	}

	illustrated := 0
	for _, page := range book.Pages {
		if page.HasImage() {
			illustrated++
		}
	}
	fmt.Printf("挿絵の生成が終わったのだ！ id=%s 挿絵 %d/%d ページ\n", book.ID, illustrated, book.PageCount())
	return nil
}
