package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/events"
	"github.com/shouni/go-ehon-kit/pkg/prompts"
	"github.com/shouni/go-ehon-kit/pkg/session"
)

// BookRunner はあらすじの入力から絵本1冊を生成・保存するまでを管理するのだ。
type BookRunner struct {
	ai      BookService
	store   BookStore
	builder *prompts.BookPromptBuilder
	bus     *events.Bus
	session *session.Store
}

// NewBookRunner は生成サービス、保存先、プロンプトビルダーを注入して初期化します。
// bus と session は nil でも構いません（通知・記録をしないだけです）。
func NewBookRunner(ai BookService, store BookStore, builder *prompts.BookPromptBuilder, bus *events.Bus, sess *session.Store) *BookRunner {
	return &BookRunner{
		ai:      ai,
		store:   store,
		builder: builder,
		bus:     bus,
		session: sess,
	}
}

// Run はあらすじから絵本を生成して保存し、id の割り当てられた絵本を返します。
// 生成か保存のどちらかが失敗した場合、中途半端な状態は残しません。
func (r *BookRunner) Run(ctx context.Context, input string) (domain.Book, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return domain.Book{}, fmt.Errorf("あらすじが空です: %w", domain.ErrPrecondition)
	}

	slog.Info("絵本の生成を開始します", "input_len", len(input))

	req := r.builder.Build(input)
	generated, err := r.ai.GenerateBook(ctx, req)
	if err != nil {
		return domain.Book{}, fmt.Errorf("絵本の生成に失敗しました: %w", err)
	}

	created, err := r.store.CreateBook(ctx, generated)
	if err != nil {
		return domain.Book{}, fmt.Errorf("生成した絵本の保存に失敗しました: %w", err)
	}

	slog.Info("絵本を保存しました",
		"book_id", created.ID,
		"title", created.Title,
		"pages", created.PageCount())

	if r.bus != nil {
		r.bus.PublishBookCreated(events.BookCreated{Book: created})
	}

	if r.session != nil {
		if err := r.session.RememberBook(created.ID); err != nil {
			// セッションへの記録失敗で生成自体を失敗扱いにはしない
			slog.Warn("セッションへの記録に失敗しました", "book_id", created.ID, "error", err)
		}
	}

	return created, nil
}
