package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shouni/go-ehon-kit/internal/config"
	"github.com/shouni/go-ehon-kit/pkg/backend"
	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/events"
	"github.com/shouni/go-ehon-kit/pkg/navigation"
	"github.com/shouni/go-ehon-kit/pkg/session"

	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"
)

// readCmd は、端末上で絵本をページ送りしながら読むのだ。
var readCmd = &cobra.Command{
	Use:   "read",
	Short: "端末で絵本をページ送りしながら読みますなのだ。",
	Long: `n で次のページ、p で前のページ、数字でそのページへ移動、q で終了なのだ。
挿絵のレコードは表示のたびに取りに行くのではなく、一度取得したらしばらく
手元に覚えておくのだよ。`,
	RunE: readCommand,
}

func readCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := config.LoadConfig()
	cfg.Options = opts
	client := backend.New(cfg.APIBaseURL, opts.HTTPTimeout)

	book, err := resolveReadBook(cmd, client)
	if err != nil {
		return err
	}
	if book.PageCount() == 0 {
		return fmt.Errorf("この絵本にはページが無いのだ")
	}

	bus := events.NewBus()
	tracker := navigation.NewTracker(book.PageCount(), bus)
	imgCache := cache.New(10*time.Minute, 30*time.Minute)

	render := func(index int) {
		page, ok := book.PageAt(index)
		if !ok {
			return
		}

		fmt.Printf("\n--- %s [%d/%d] (%.0f%%) ---\n",
			book.Title, index+1, book.PageCount(), tracker.Progress()*100)
		fmt.Println(page.Content)

		if img, ok := resolveImage(cmd, client, imgCache, page); ok {
			fmt.Printf("挿絵: %s\n", img.URL)
		}
	}

	unsubscribe := bus.SubscribePageChanged(func(ev events.PageChanged) { render(ev.Index) })
	defer unsubscribe()

	render(tracker.PageIndex())
	fmt.Println("\nn: 次へ / p: 前へ / 数字: ページ指定 / q: 終了")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		switch line := strings.TrimSpace(scanner.Text()); line {
		case "q":
			return nil
		case "p":
			tracker.Prev()
		case "n", "":
			tracker.Next()
		default:
			index, err := strconv.Atoi(line)
			if err != nil {
				fmt.Println("n / p / 数字 / q のどれかを入れてほしいのだ")
				continue
			}
			// 1始まりの入力を0始まりのページ番号に直すのだ
			tracker.ObserveVisibility(index-1, 1.0)
		}
	}
	return scanner.Err()
}

// resolveReadBook は読む絵本を --book かセッションから決めるのだ。
func resolveReadBook(cmd *cobra.Command, client *backend.Client) (domain.Book, error) {
	if opts.BookID != "" {
		return client.GetBook(cmd.Context(), opts.BookID)
	}

	store := session.NewDefaultStore()
	book, ok := store.Restore(cmd.Context(), client)
	if !ok {
		return domain.Book{}, fmt.Errorf("読みかけの絵本が無いのだ。--book で id を指定してほしいのだ: %w", domain.ErrPrecondition)
	}
	return book, nil
}

// resolveImage はページの挿絵レコードを返すのだ。
// 本体に埋め込まれていなければ image_id で取得し、結果はキャッシュするのだ。
func resolveImage(cmd *cobra.Command, client *backend.Client, imgCache *cache.Cache, page domain.Page) (domain.Image, bool) {
	if page.Image != nil && page.Image.URL != "" {
		return *page.Image, true
	}
	if page.ImageID == "" {
		return domain.Image{}, false
	}

	if cached, found := imgCache.Get(page.ImageID); found {
		return cached.(domain.Image), true
	}

	img, err := client.GetImage(cmd.Context(), page.ImageID)
	if err != nil {
		slog.Warn("挿絵の取得に失敗しました", "image_id", page.ImageID, "error", err)
		return domain.Image{}, false
	}

	imgCache.Set(page.ImageID, img, cache.DefaultExpiration)
	return img, true
}
