package usecase

import (
	"sync"
	"sync/atomic"
)

// Guard admits at most one pipeline run at a time.
type Guard struct {
	running atomic.Bool
}

// TryAcquire marks a run as started. The returned release may be called
// more than once.
func (g *Guard) TryAcquire() (release func(), ok bool) {
	if !g.running.CompareAndSwap(false, true) {
		return func() {}, false
	}
	var once sync.Once
	return func() {
		once.Do(func() { g.running.Store(false) })
	}, true
}

// IsRunning reports whether a run currently holds the guard.
func (g *Guard) IsRunning() bool {
	return g.running.Load()
}
