package navigation

import (
	"sync"
	"testing"

	"github.com/shouni/go-ehon-kit/pkg/events"
)

func TestTracker_ObserveVisibility(t *testing.T) {
	t.Run("閾値以上の可視割合で現在ページが切り替わること", func(t *testing.T) {
		tracker := NewTracker(3, nil)

		tracker.ObserveVisibility(1, 0.75)
		if got := tracker.PageIndex(); got != 1 {
			t.Errorf("期待値 1, 実際の値 %d", got)
		}
	})

	t.Run("閾値未満では切り替わらないこと", func(t *testing.T) {
		tracker := NewTracker(3, nil)

		tracker.ObserveVisibility(1, 0.49)
		if got := tracker.PageIndex(); got != 0 {
			t.Errorf("期待値 0, 実際の値 %d", got)
		}
	})

	t.Run("同一フレームで複数ページが閾値を超えたら最後のイベントが勝つこと", func(t *testing.T) {
		tracker := NewTracker(3, nil)

		tracker.ObserveVisibility(1, 0.5)
		tracker.ObserveVisibility(2, 0.5)
		if got := tracker.PageIndex(); got != 2 {
			t.Errorf("期待値 2, 実際の値 %d", got)
		}
	})

	t.Run("範囲外のページ番号は無視されること", func(t *testing.T) {
		tracker := NewTracker(3, nil)

		tracker.ObserveVisibility(9, 1.0)
		if got := tracker.PageIndex(); got != 0 {
			t.Errorf("期待値 0, 実際の値 %d", got)
		}
	})

	t.Run("ページが変わったときだけ PageChanged が発行されること", func(t *testing.T) {
		bus := events.NewBus()
		var notified []int
		bus.SubscribePageChanged(func(ev events.PageChanged) { notified = append(notified, ev.Index) })

		tracker := NewTracker(3, bus)
		tracker.ObserveVisibility(1, 1.0)
		tracker.ObserveVisibility(1, 1.0) // 変化なし
		tracker.ObserveVisibility(2, 1.0)

		if len(notified) != 2 || notified[0] != 1 || notified[1] != 2 {
			t.Errorf("通知の内容が不正です: %v", notified)
		}
	})
}

func TestTracker_PrevNext(t *testing.T) {
	t.Run("先頭で prev しても 0 のままであること", func(t *testing.T) {
		tracker := NewTracker(3, nil)
		if got := tracker.Prev(); got != 0 {
			t.Errorf("期待値 0, 実際の値 %d", got)
		}
	})

	t.Run("末尾で next しても末尾のままであること", func(t *testing.T) {
		tracker := NewTracker(3, nil)
		tracker.ObserveVisibility(2, 1.0)
		if got := tracker.Next(); got != 2 {
			t.Errorf("期待値 2, 実際の値 %d", got)
		}
	})

	t.Run("並行に移動しても範囲内に収まること", func(t *testing.T) {
		tracker := NewTracker(5, nil)

		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if i%2 == 0 {
					tracker.Next()
				} else {
					tracker.Prev()
				}
			}(i)
		}
		wg.Wait()

		if got := tracker.PageIndex(); got < 0 || got > 4 {
			t.Errorf("範囲外のページ番号になりました: %d", got)
		}
	})

	t.Run("next と prev で前後に移動できること", func(t *testing.T) {
		tracker := NewTracker(3, nil)
		if got := tracker.Next(); got != 1 {
			t.Errorf("期待値 1, 実際の値 %d", got)
		}
		if got := tracker.Next(); got != 2 {
			t.Errorf("期待値 2, 実際の値 %d", got)
		}
		if got := tracker.Prev(); got != 1 {
			t.Errorf("期待値 1, 実際の値 %d", got)
		}
	})
}

func TestTracker_Progress(t *testing.T) {
	t.Run("先頭で 0、末尾で 1 になること", func(t *testing.T) {
		tracker := NewTracker(4, nil)
		if got := tracker.Progress(); got != 0 {
			t.Errorf("期待値 0, 実際の値 %f", got)
		}

		tracker.ObserveVisibility(3, 1.0)
		if got := tracker.Progress(); got != 1 {
			t.Errorf("期待値 1, 実際の値 %f", got)
		}
	})

	t.Run("中間ページでは比例した値になること", func(t *testing.T) {
		tracker := NewTracker(3, nil)
		tracker.ObserveVisibility(1, 1.0)
		if got := tracker.Progress(); got != 0.5 {
			t.Errorf("期待値 0.5, 実際の値 %f", got)
		}
	})

	t.Run("1ページ以下の本では 0 を返すこと", func(t *testing.T) {
		if got := NewTracker(1, nil).Progress(); got != 0 {
			t.Errorf("期待値 0, 実際の値 %f", got)
		}
		if got := NewTracker(0, nil).Progress(); got != 0 {
			t.Errorf("期待値 0, 実際の値 %f", got)
		}
	})
}
