package navigation

import (
	"sync"

	"github.com/shouni/go-ehon-kit/pkg/events"
)

// VisibilityThreshold は、ページが「表示中」と見なされるために
// ビューポート内に入っていなければならない面積の割合です。
const VisibilityThreshold = 0.5

// Tracker は横スクロールする読書ビューの現在ページを追跡します。
// 可視性イベントは最後に閾値を超えたものが勝ちます。スクロールコンテナが
// 実運用上は単一ページずつしか可視にしないため、明示的なタイブレークは
// 持ちません。
type Tracker struct {
	mu        sync.Mutex
	pageCount int
	pageIndex int
	bus       *events.Bus
}

// NewTracker は pageCount ページ分のトラッカーを生成します。
// bus が nil でなければ、ページ切り替えのたびに PageChanged を発行します。
func NewTracker(pageCount int, bus *events.Bus) *Tracker {
	return &Tracker{
		pageCount: pageCount,
		bus:       bus,
	}
}

// ObserveVisibility は (ページ番号, 可視割合) の可視性イベントを処理します。
// 割合が閾値以上であればそのページを現在ページにします。
func (t *Tracker) ObserveVisibility(index int, ratio float64) {
	if ratio < VisibilityThreshold {
		return
	}
	if index < 0 || index >= t.pageCount {
		return
	}
	t.setIndex(index)
}

// Prev は1ページ戻り、移動後のページ番号を返します。先頭で止まります。
func (t *Tracker) Prev() int {
	return t.step(-1)
}

// Next は1ページ進み、移動後のページ番号を返します。末尾で止まります。
func (t *Tracker) Next() int {
	return t.step(1)
}

// step は現在ページからの相対移動を1つのクリティカルセクションで行います。
func (t *Tracker) step(delta int) int {
	t.mu.Lock()
	target := t.pageIndex + delta
	if target > t.pageCount-1 {
		target = t.pageCount - 1
	}
	if target < 0 {
		target = 0
	}
	changed := target != t.pageIndex
	t.pageIndex = target
	t.mu.Unlock()

	if changed && t.bus != nil {
		t.bus.PublishPageChanged(events.PageChanged{Index: target})
	}
	return target
}

// PageIndex は現在のページ番号を返します。0 始まりです。
func (t *Tracker) PageIndex() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pageIndex
}

// PageCount はページ数を返します。
func (t *Tracker) PageCount() int {
	return t.pageCount
}

// Progress は読書の進捗 pageIndex / (pageCount - 1) を返します。
// 1ページ以下の本では NaN を避けて常に 0 を返すのだ。
func (t *Tracker) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pageCount <= 1 {
		return 0
	}
	return float64(t.pageIndex) / float64(t.pageCount-1)
}

// setIndex は現在ページを更新し、変化があったときだけ通知します。
func (t *Tracker) setIndex(index int) {
	t.mu.Lock()
	changed := index != t.pageIndex
	t.pageIndex = index
	t.mu.Unlock()

	if changed && t.bus != nil {
		t.bus.PublishPageChanged(events.PageChanged{Index: index})
	}
}
