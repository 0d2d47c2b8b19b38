package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-ehon-kit/internal/builder"
	"github.com/shouni/go-ehon-kit/internal/config"
	"github.com/shouni/go-ehon-kit/pkg/backend"
	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/publisher"
	"github.com/shouni/go-ehon-kit/pkg/session"
)

// ExecuteGenerate は、あらすじから絵本1冊を生成・保存するのだ。
// input が空なら前回セッションのあらすじを再利用するのだ。
// --all が指定されていれば、続けて全ページの挿絵も生成するのだよ。
func ExecuteGenerate(ctx context.Context, cfg *config.Config, input string) (domain.Book, error) {
	appCtx := setupAppContext(cfg)

	if input == "" {
		input = appCtx.Session.Load().Settings.Prompt
		if input != "" {
			slog.Info("前回のあらすじを再利用するのだ", "input_len", len(input))
		}
	}
	if input == "" {
		return domain.Book{}, fmt.Errorf("あらすじがありません。--input か --input-file で指定してほしいのだ: %w", domain.ErrPrecondition)
	}

	bookRunner, err := builder.BuildBookRunner(ctx, appCtx)
	if err != nil {
		return domain.Book{}, fmt.Errorf("BookRunnerの構築に失敗したのだ: %w", err)
	}

	book, err := bookRunner.Run(ctx, input)
	if err != nil {
		return domain.Book{}, err
	}

	rememberSettings(appCtx, input)

	if cfg.Options.AllPages {
		book, err = illustrate(ctx, cfg, appCtx, book)
		if err != nil {
			return book, err
		}
	}

	return book, nil
}

// ExecuteIllustrate は、保存済みの絵本に挿絵を生成して取り付けるのだ。
// --book が無ければ、セッションに記録された読みかけの絵本を対象にするのだ。
func ExecuteIllustrate(ctx context.Context, cfg *config.Config) (domain.Book, error) {
	appCtx := setupAppContext(cfg)

	book, err := resolveBook(ctx, cfg, appCtx)
	if err != nil {
		return domain.Book{}, err
	}

	return illustrate(ctx, cfg, appCtx, book)
}

// ExecuteExport は、保存済みの絵本を Markdown・HTML・画像として書き出すのだ。
func ExecuteExport(ctx context.Context, cfg *config.Config) (publisher.PublishResult, error) {
	appCtx := setupAppContext(cfg)

	book, err := resolveBook(ctx, cfg, appCtx)
	if err != nil {
		return publisher.PublishResult{}, err
	}

	publishRunner, err := builder.BuildPublishRunner(ctx, appCtx)
	if err != nil {
		return publisher.PublishResult{}, fmt.Errorf("PublishRunnerの構築に失敗したのだ: %w", err)
	}

	return publishRunner.Run(ctx, book)
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、
// アプリケーションコンテキストを初期化して返すのだ。
// フラグで指定されなかった項目は、前回セッションの設定で補完するのだ。
func setupAppContext(cfg *config.Config) *builder.AppContext {
	sess := session.NewDefaultStore()
	restoreSettings(cfg, sess)

	client := backend.New(cfg.APIBaseURL, cfg.Options.HTTPTimeout)
	appCtx := builder.NewAppContext(cfg, client, sess)
	return &appCtx
}

// restoreSettings は前回保存した設定を未指定の項目に反映するのだ。
// フラグや環境変数で明示された値が常に優先なのだ。
func restoreSettings(cfg *config.Config, sess *session.Store) {
	saved := sess.Load().Settings

	if cfg.Options.ArtStyle == "" && saved.ArtStyle != "" {
		cfg.Options.ArtStyle = saved.ArtStyle
		slog.Info("前回の画風を再利用するのだ", "art_style", saved.ArtStyle)
	}
	if cfg.GeminiAPIKey == "" && saved.APIKey != "" {
		cfg.GeminiAPIKey = saved.APIKey
	}
}

// illustrate は挿絵生成ステップを実行するのだ。
func illustrate(ctx context.Context, cfg *config.Config, appCtx *builder.AppContext, book domain.Book) (domain.Book, error) {
	illRunner, err := builder.BuildIllustrationRunner(ctx, appCtx)
	if err != nil {
		return book, fmt.Errorf("IllustrationRunnerの構築に失敗したのだ: %w", err)
	}

	if cfg.Options.AllPages {
		slog.Info("全ページの挿絵生成を開始するのだ", "book_id", book.ID, "pages", book.PageCount())
		return illRunner.RunAll(ctx, book, cfg.Options.ArtStyle)
	}

	slog.Info("挿絵生成を開始するのだ", "book_id", book.ID, "page_index", cfg.Options.PageIndex)
	return illRunner.Run(ctx, book, cfg.Options.PageIndex, cfg.Options.ArtStyle)
}

// resolveBook は操作対象の絵本を決めるのだ。
// --book 指定があればそれを取得、無ければセッションからの復元を試みるのだ。
func resolveBook(ctx context.Context, cfg *config.Config, appCtx *builder.AppContext) (domain.Book, error) {
	if id := cfg.Options.BookID; id != "" {
		return appCtx.Backend.GetBook(ctx, id)
	}

	book, ok := appCtx.Session.Restore(ctx, appCtx.Backend)
	if !ok {
		return domain.Book{}, fmt.Errorf("対象の絵本がありません。--book で id を指定してほしいのだ: %w", domain.ErrPrecondition)
	}
	return book, nil
}

// rememberSettings は直近の入力内容をセッションに覚えさせるのだ。
// 次回、フラグ未指定のときの初期値として使われるのだ。
func rememberSettings(appCtx *builder.AppContext, input string) {
	state := appCtx.Session.Load()
	state.Settings.Prompt = input
	state.Settings.ArtStyle = appCtx.Options.ArtStyle
	state.Settings.APIKey = appCtx.Config.GeminiAPIKey
	if err := appCtx.Session.Save(state); err != nil {
		slog.Warn("セッションの保存に失敗しました", "error", err)
	}
}
