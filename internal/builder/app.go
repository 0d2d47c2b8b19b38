package builder

import (
	"github.com/shouni/go-ehon-kit/internal/config"
	"github.com/shouni/go-ehon-kit/pkg/backend"
	"github.com/shouni/go-ehon-kit/pkg/events"
	"github.com/shouni/go-ehon-kit/pkg/session"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する。
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  *config.Config          // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、接続先など）。
	Options config.GenerateOptions  // Optionsは、コマンドラインから渡された実行時の設定です。
	Backend *backend.Client         // Backendは、絵本・挿絵の保存先となるコンテンツストアのクライアントです。
	Bus     *events.Bus             // Busは、生成・取り付け・ページ移動の通知に使うイベントバスです。
	Session *session.Store          // Sessionは、直近の入力と生成した絵本のidを覚えるローカルストアです。
}

// NewAppContext は AppContext の新しいインスタンスを生成する。
func NewAppContext(cfg *config.Config, client *backend.Client, sess *session.Store) AppContext {
	return AppContext{
		Config:  cfg,
		Options: cfg.Options,
		Backend: client,
		Bus:     events.NewBus(),
		Session: sess,
	}
}
