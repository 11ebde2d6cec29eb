// Package semaphore provides the post-once wakeup primitive used to put a
// blocked Request to sleep and wake it again.
//
// Intended use is to provide a sleep and wakeup primitive that can be used
// in the contended case of another synchronization primitive, the same goal
// the Go runtime's own semaphore implementation (runtime/sema.go) states for
// semacquire/semrelease: "don't think of these as semaphores, think of them
// as a way to implement sleep and wakeup such that every sleep is paired
// with a single wakeup, even if, due to races, the wakeup happens before the
// sleep" (Mullender and Cox, "Semaphores in Plan 9").
//
// Unlike runtime/sema.go this is not a weighted, tree-indexed semaphore --
// a Request has exactly one owner waiting on exactly one post, so a closed-
// once channel is sufficient and avoids reimplementing futex-style parking
// on top of exported primitives. golang.org/x/sync/semaphore.Weighted was
// considered and rejected for this role: it is context-cancellation-first
// and supports acquiring more than one unit at a time, neither of which
// this module needs, and pulling it in only to call Acquire(ctx, 1) would
// add an uncancellable context.Background() at every call site for no
// benefit over this.
package semaphore

import "sync"

// Sema is posted exactly once and may be waited on by exactly one goroutine.
// The zero value is ready to use.
type Sema struct {
	once sync.Once
	done chan struct{}
	init sync.Once
}

func (s *Sema) lazyInit() {
	s.init.Do(func() {
		s.done = make(chan struct{})
	})
}

// Post wakes the waiter. Calling Post more than once is a no-op after the
// first call, matching the spec's "posted exactly once" invariant even if
// an agent were to call it twice by mistake.
func (s *Sema) Post() {
	s.lazyInit()
	s.once.Do(func() {
		close(s.done)
	})
}

// Wait blocks until Post is called. If Post has already been called, Wait
// returns immediately -- the wakeup-before-sleep race the package doc
// describes.
func (s *Sema) Wait() {
	s.lazyInit()
	<-s.done
}
