package session

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// restoreConcurrency は復元時の同時取得数の上限です。
const restoreConcurrency = 4

// BookFetcher はリモートから絵本を1冊取得する関数群の部分集合です。
type BookFetcher interface {
	GetBook(ctx context.Context, id string) (domain.Book, error)
}

// Restore はセッションに記録された id 群から読みかけの絵本を復元します。
// 各 id を並行に取得し、id の記録順で最初に取得できたものを返します。
// 取得の失敗はログに残すだけで「復元対象なし」として扱います。
// 読み取り専用の操作で、セッション自体は書き換えないのだ。
func (s *Store) Restore(ctx context.Context, fetcher BookFetcher) (domain.Book, bool) {
	state := s.Load()
	if len(state.BookIDs) == 0 {
		return domain.Book{}, false
	}

	results := make([]*domain.Book, len(state.BookIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(restoreConcurrency)
	for i, id := range state.BookIDs {
		g.Go(func() error {
			book, err := fetcher.GetBook(ctx, id)
			if err != nil {
				// 取得できない id は飛ばすだけ。エラーは伝播させない。
				slog.Warn("絵本の復元に失敗しました", "book_id", id, "error", err)
				return nil
			}
			results[i] = &book
			return nil
		})
	}
	_ = g.Wait()

	for _, book := range results {
		if book != nil && book.Title != "" {
			slog.Info("読みかけの絵本を復元しました", "book_id", book.ID, "title", book.Title)
			return *book, true
		}
	}
	return domain.Book{}, false
}
