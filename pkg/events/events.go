package events

import (
	"sync"

	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// PageChanged は表示中のページが切り替わったことを知らせるイベントです。
type PageChanged struct {
	Index int
}

// BookCreated は新しい絵本が生成・保存されたことを知らせるイベントです。
type BookCreated struct {
	Book domain.Book
}

// ImageAttached はページに挿絵が取り付けられたことを知らせるイベントです。
type ImageAttached struct {
	BookID    string
	PageIndex int
	Image     domain.Image
}

// Bus は型付きのイベントバスです。グローバルなシングルトンではなく、
// 利用側が明示的に生成して受け渡します。Subscribe は購読解除関数を返すので、
// 使い終わったら必ず呼んでリークを防ぐのだ。
type Bus struct {
	pageChanged   registry[PageChanged]
	bookCreated   registry[BookCreated]
	imageAttached registry[ImageAttached]
}

// NewBus は新しいイベントバスを生成します。
func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) SubscribePageChanged(fn func(PageChanged)) func() {
	return b.pageChanged.subscribe(fn)
}

func (b *Bus) PublishPageChanged(ev PageChanged) {
	b.pageChanged.publish(ev)
}

func (b *Bus) SubscribeBookCreated(fn func(BookCreated)) func() {
	return b.bookCreated.subscribe(fn)
}

func (b *Bus) PublishBookCreated(ev BookCreated) {
	b.bookCreated.publish(ev)
}

func (b *Bus) SubscribeImageAttached(fn func(ImageAttached)) func() {
	return b.imageAttached.subscribe(fn)
}

func (b *Bus) PublishImageAttached(ev ImageAttached) {
	b.imageAttached.publish(ev)
}

// registry は1イベント型分の購読者を登録順に保持します。
type registry[T any] struct {
	mu      sync.Mutex
	nextID  int
	entries []entry[T]
}

type entry[T any] struct {
	id int
	fn func(T)
}

func (r *registry[T]) subscribe(fn func(T)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.entries = append(r.entries, entry[T]{id: id, fn: fn})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, e := range r.entries {
			if e.id == id {
				r.entries = append(r.entries[:i], r.entries[i+1:]...)
				return
			}
		}
	}
}

func (r *registry[T]) publish(v T) {
	// ハンドラ実行中の購読解除を許すため、ロック外で呼び出すのだ
	r.mu.Lock()
	snapshot := make([]entry[T], len(r.entries))
	copy(snapshot, r.entries)
	r.mu.Unlock()

	for _, e := range snapshot {
		e.fn(v)
	}
}
