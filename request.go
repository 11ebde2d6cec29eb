package gochan

import (
	"sync"

	"github.com/kevink2022/gochan/internal/semaphore"
)

// Kind identifies what a Request is waiting to do. It plays the role the
// Go runtime's sudog plays implicitly through which queue (sendq/recvq) it
// sits in, made explicit here since a Request can sit in several queues at
// once (the select case).
type Kind int

const (
	BlockingSend Kind = iota
	BlockingRecv
	SelectKind
)

// request is the shared coordination record backing one blocking caller,
// modeled on sudog (runtime/runtime2.go) and the hselect/scase pair
// (runtime/select.go). Exactly one owning goroutine allocates it; it is
// additionally referenced by one waitlist.Entry per channel it has been
// registered against.
type request struct {
	kind Kind
	sem  semaphore.Sema

	mu            sync.Mutex
	references    int
	valid         bool
	status        Status
	selectedIndex int

	// sendValue holds the payload for a BlockingSend request.
	sendValue interface{}
	// recvValue is written by whichever agent serves a BlockingRecv or a
	// SelectKind request whose winning case is a receive.
	recvValue interface{}

	// cases is only populated for SelectKind requests; it is the operation
	// list the select coordinator walks, mirroring the dual meaning of
	// hselect's scase array as both registration list and, via kind/elem,
	// the instructions for whichever case fires.
	cases []SelectCase
}

func newRequest(kind Kind) *request {
	return &request{
		kind:       kind,
		references: 1,
		valid:      true,
	}
}

// tryAddRef increments the reference count for a new queue entry about to
// be created, but only if the request is still eligible -- an enqueue
// attempt against an invalid request is a documented no-op of the
// reference-count protocol.
func (r *request) tryAddRef() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.valid {
		return false
	}
	r.references++
	return true
}

// release drops one reference, as every waitlist pop and the owner's own
// post-wait cleanup must do. If this is the last queue-entry reference and
// the request is still unserved, every channel this request was registered
// against gave up on it without service (most commonly because all of them
// closed), so the releasing agent completes it here with ClosedError rather
// than leaving the owner parked forever.
func (r *request) release() {
	r.mu.Lock()
	r.references--
	if r.references == 1 && r.valid {
		r.valid = false
		r.status = ClosedError
		r.selectedIndex = 0
		r.mu.Unlock()
		r.sem.Post()
		return
	}
	r.mu.Unlock()
}

// serve is called by the channel (or close) that is actually able to
// satisfy this request. It is the single serialization point of the whole
// system: it observes valid under the lock and, if still valid, commits
// the outcome and wakes the owner. It reports whether it won the race to
// serve the request -- callers that lose (valid already false) must not
// touch the buffer or report success.
func (r *request) serve(status Status, selectedIndex int, recvValue interface{}) bool {
	r.mu.Lock()
	if !r.valid {
		r.mu.Unlock()
		return false
	}
	r.valid = false
	r.status = status
	r.selectedIndex = selectedIndex
	r.recvValue = recvValue
	r.mu.Unlock()
	r.sem.Post()
	return true
}

// isValid reports whether the request is still eligible for service,
// taking the lock the way every other field access must.
func (r *request) isValid() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.valid
}

// outcome reads the terminal status/index pair under the lock, for use
// once the owner has woken from sem.Wait.
func (r *request) outcome() (Status, int, interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status, r.selectedIndex, r.recvValue
}
