package pomodoro

import (
	"sync"
	"time"
)

// Ticker is a recurring tick source. Start registers fn to be invoked once
// per interval until Stop; a stopped ticker never fires again. Implementations
// must tolerate repeated Start and Stop calls.
type Ticker interface {
	Start(fn func())
	Stop()
}

// WallTicker drives ticks from the wall clock on its own goroutine.
type WallTicker struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewWallTicker returns a ticker firing every interval (1s if non-positive).
func NewWallTicker(interval time.Duration) *WallTicker {
	if interval <= 0 {
		interval = time.Second
	}
	return &WallTicker{interval: interval}
}

func (w *WallTicker) Start(fn func()) {
	w.mu.Lock()
	if w.stop != nil {
		w.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	w.stop = stop
	w.mu.Unlock()

	go func() {
		t := time.NewTicker(w.interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}()
}

func (w *WallTicker) Stop() {
	w.mu.Lock()
	if w.stop != nil {
		close(w.stop)
		w.stop = nil
	}
	w.mu.Unlock()
}
