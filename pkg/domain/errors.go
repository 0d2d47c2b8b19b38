package domain

import "errors"

// 失敗の分類なのだ。どれもプロセスを落とすものではなく、
// 「何も起きなかった、もう一度試して」へ縮退するソフトな失敗です。
var (
	// ErrEmptyResult は AI バックエンドが空の URL や本文を返したことを表します。
	ErrEmptyResult = errors.New("AIの応答が空でした")

	// ErrPrecondition は存在しないページや未保存の本への操作など、
	// 前提条件が満たされていないことを表します。
	ErrPrecondition = errors.New("前提条件が満たされていません")
)
