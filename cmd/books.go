package cmd

import (
	"fmt"

	"github.com/shouni/go-ehon-kit/internal/config"
	"github.com/shouni/go-ehon-kit/pkg/backend"

	"github.com/spf13/cobra"
)

// booksCmd は、保存済みの絵本の一覧・詳細・削除をまとめるのだ。
var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "保存済みの絵本を管理しますなのだ。",
}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "絵本の一覧を表示するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newBackendClient()

		books, err := client.ListBooks(cmd.Context())
		if err != nil {
			return err
		}

		if len(books) == 0 {
			fmt.Println("まだ絵本が無いのだ。generate で作ってほしいのだ。")
			return nil
		}
		for _, book := range books {
			illustrated := 0
			for _, page := range book.Pages {
				if page.HasImage() {
					illustrated++
				}
			}
			fmt.Printf("%s\t%q\t挿絵 %d/%d\n", book.ID, book.Title, illustrated, book.PageCount())
		}
		return nil
	},
}

var booksShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "絵本の中身を表示するのだ。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newBackendClient()

		book, err := client.GetBook(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("# %s (id=%s)\n\n", book.Title, book.ID)
		for i, page := range book.Pages {
			marker := " "
			if page.HasImage() {
				marker = "*"
			}
			fmt.Printf("[%d]%s %s\n", i, marker, page.Content)
		}
		if book.RandomFact != "" {
			fmt.Printf("\n豆知識: %s\n", book.RandomFact)
		}
		return nil
	},
}

var booksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "絵本を削除するのだ。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newBackendClient()

		result, err := client.DeleteBook(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if result.Error != "" {
			return fmt.Errorf("削除に失敗したのだ: %s", result.Error)
		}

		fmt.Printf("絵本 %s を削除したのだ。\n", args[0])
		return nil
	},
}

func init() {
	booksCmd.AddCommand(booksListCmd, booksShowCmd, booksDeleteCmd)
}

// newBackendClient は環境変数の接続先でバックエンドクライアントを生成するのだ。
func newBackendClient() *backend.Client {
	cfg := config.LoadConfig()
	return backend.New(cfg.APIBaseURL, opts.HTTPTimeout)
}
