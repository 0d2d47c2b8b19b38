package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/go-utils/envutil"
)

// SchemaVersion はセッションファイルのスキーマ版数です。
// 版数の合わない（または壊れた）ペイロードは「無いもの」として扱い、
// 決して致命的エラーにはしないのだ。
const SchemaVersion = 1

const (
	envSessionFile  = "EHON_SESSION_FILE"
	defaultFileName = "session.json"
	configDirName   = "ehon"
)

// Settings は最後に使われた入力内容です。フォームの復元に使います。
type Settings struct {
	Prompt   string `json:"prompt"`
	ArtStyle string `json:"art_style"`
	APIKey   string `json:"api_key"`
}

// State はローカルに永続化されるセッション全体です。
type State struct {
	Version  int      `json:"version"`
	Settings Settings `json:"settings"`
	BookIDs  []string `json:"book_ids"`
}

// Store はセッション状態のファイルベースの読み書きを担います。
type Store struct {
	path string
}

// NewStore は指定されたパスのストアを生成します。
func NewStore(path string) *Store {
	return &Store{path: path}
}

// NewDefaultStore は環境変数 EHON_SESSION_FILE、なければユーザーの
// 設定ディレクトリ配下のデフォルトパスでストアを生成します。
func NewDefaultStore() *Store {
	if path := envutil.GetEnv(envSessionFile, ""); path != "" {
		return NewStore(path)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		// 設定ディレクトリが引けない環境ではカレント配下に置くのだ
		return NewStore(defaultFileName)
	}
	return NewStore(filepath.Join(configDir, configDirName, defaultFileName))
}

// Load はセッション状態を読み込みます。ファイルが無い、壊れている、
// スキーマ版数が合わない場合は空の State を返します（エラーにしない）。
func (s *Store) Load() State {
	empty := State{Version: SchemaVersion}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("セッションファイルの読み込みに失敗しました", "path", s.path, "error", err)
		}
		return empty
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		slog.Warn("セッションファイルが壊れています。無視します", "path", s.path, "error", err)
		return empty
	}

	if state.Version != SchemaVersion {
		slog.Warn("セッションファイルのスキーマ版数が一致しません。無視します",
			"path", s.path, "version", state.Version, "expected", SchemaVersion)
		return empty
	}

	return state
}

// Save はセッション状態を書き出します。版数は常に現行に揃えます。
func (s *Store) Save(state State) error {
	state.Version = SchemaVersion

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("セッションのエンコードに失敗しました: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("セッションディレクトリの作成に失敗しました: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("セッションの書き込みに失敗しました: %w", err)
	}
	return nil
}

// RememberBook は絵本の id をセッションに追記します。重複は無視します。
func (s *Store) RememberBook(id string) error {
	if id == "" {
		return nil
	}

	state := s.Load()
	for _, existing := range state.BookIDs {
		if existing == id {
			return nil
		}
	}
	state.BookIDs = append(state.BookIDs, id)
	return s.Save(state)
}

// ForgetBook は絵本の id をセッションから取り除きます。
func (s *Store) ForgetBook(id string) error {
	state := s.Load()
	kept := state.BookIDs[:0]
	for _, existing := range state.BookIDs {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	state.BookIDs = kept
	return s.Save(state)
}
