// Package gochan is a user-space reimplementation of the buffered-channel
// and select primitives the Go runtime provides natively for `chan`,
// built entirely on exported concurrency primitives. It exists as a
// teaching/demonstration artifact: the state machine Go's compiler and
// runtime hide behind `ch <- v`, `<-ch`, `close(ch)` and `select` is made
// explicit here as an ordinary, importable package.
//
// The design is modeled directly on the Go runtime's own implementation
// (runtime/chan.go, runtime/select.go, runtime/sema.go, runtime/
// runtime2.go's sudog): a Channel bundles a bounded circular buffer with a
// mutex and two FIFO waiter queues, exactly as hchan bundles buf/sendx/
// recvx/qcount with sendq/recvq and a lock. Every exported operation here
// corresponds to one of chansend/chanrecv/closechan/selectgo.
package gochan

import (
	"fmt"
	"sync"

	"github.com/kevink2022/gochan/internal/ringbuf"
	"github.com/kevink2022/gochan/internal/waitlist"
	"github.com/kevink2022/gochan/internal/xlog"
)

// Channel is a fixed-capacity, thread-safe FIFO with blocking and
// non-blocking send/receive, explicit close, and participation in Select.
// It mirrors hchan's fields one for one: buf+sendx+recvx+qcount become a
// ringbuf.Buffer, lock is a sync.Mutex, sendq/recvq become waitlist.Lists.
type Channel struct {
	mu sync.Mutex

	buf         *ringbuf.Buffer
	sendWaiters waitlist.List
	recvWaiters waitlist.List
	closed      bool
	destroyed   bool
}

// Create allocates a channel with a buffer of exactly size slots. size must
// be positive: zero-capacity (unbuffered, rendezvous) channels are out of
// scope, and this implementation rejects rather than silently
// reinterpreting them.
func Create(size int) (*Channel, error) {
	if size <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Channel{buf: ringbuf.New(size)}, nil
}

// Cap returns the channel's fixed buffer capacity.
func (c *Channel) Cap() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Cap()
}

// Len returns the number of items currently queued in the buffer.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Len()
}

// NonBlockingSend attempts to deposit data without blocking. It returns
// ClosedError, ChannelFull, or Success (GenError on a destroyed channel) --
// never anything that would require the caller to wait.
func NonBlockingSend(ch *Channel, data interface{}) Status {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.destroyed {
		xlog.Warn("op on destroyed channel", "err", errDestroyedf("NonBlockingSend"))
		return GenError
	}
	status, _ := ch.trySendLocked(data)
	return status
}

// NonBlockingReceive attempts to retrieve a value without blocking.
func NonBlockingReceive(ch *Channel) (interface{}, Status) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.destroyed {
		xlog.Warn("op on destroyed channel", "err", errDestroyedf("NonBlockingReceive"))
		return nil, GenError
	}
	return ch.tryRecvLocked()
}

// trySendLocked is the unsafe, lock-already-held core both NonBlockingSend
// and the blocking Send/Select paths funnel through, mirroring chansend's
// non-blocking fast path in runtime/chan.go.
func (c *Channel) trySendLocked(data interface{}) (Status, bool) {
	if c.closed {
		return ClosedError, false
	}
	if c.buf.Full() {
		return ChannelFull, false
	}
	c.buf.Add(data)
	c.wakeOneLocked(&c.recvWaiters, true)
	return Success, true
}

// tryRecvLocked is the unsafe, lock-already-held core for receive.
func (c *Channel) tryRecvLocked() (interface{}, Status) {
	if c.closed {
		return nil, ClosedError
	}
	if c.buf.Empty() {
		return nil, ChannelEmpty
	}
	v := c.buf.Remove()
	c.wakeOneLocked(&c.sendWaiters, false)
	return v, Success
}

// wakeOneLocked is the wakeup pump: it drains the given waiter queue until
// it finds one still-valid request to serve, or the queue runs dry.
// isRecvQueue tells it which side of the buffer the woken
// request should touch: after a successful send we wake one *receiver*
// (isRecvQueue=true) and hand it the value at the front of the buffer;
// after a successful receive we wake one *sender* (isRecvQueue=false) and
// let it deposit into the slot that just freed up.
func (c *Channel) wakeOneLocked(q *waitlist.List, isRecvQueue bool) {
	for {
		entry := q.PopFront()
		if entry == nil {
			return
		}
		req := entry.Request.(*request)
		if !req.isValid() {
			req.release()
			continue
		}
		if isRecvQueue {
			// A receiver was waiting; the buffer has at least one item
			// now (the send that triggered this pump just added it).
			// Peek before consuming so a lost race to serve this request
			// (e.g. a select on another channel claiming it first) never
			// requires undoing a buffer mutation.
			if c.buf.Empty() {
				req.release()
				return
			}
			v := c.buf.Front()
			if req.serve(Success, entry.Index, v) {
				c.buf.Remove()
				req.release()
				return
			}
			req.release()
			continue
		}
		// A sender was waiting; a slot just opened in the buffer.
		if c.buf.Full() {
			req.release()
			return
		}
		v := req.sendValue
		if req.kind == SelectKind {
			v = req.cases[entry.Index].Data
		}
		if req.serve(Success, entry.Index, nil) {
			c.buf.Add(v)
			req.release()
			return
		}
		req.release()
		continue
	}
}

// Send blocks until data is deposited, the channel closes, or an
// unrecoverable error occurs.
func Send(ch *Channel, data interface{}) Status {
	ch.mu.Lock()
	if ch.destroyed {
		ch.mu.Unlock()
		xlog.Warn("op on destroyed channel", "err", errDestroyedf("Send"))
		return GenError
	}
	if status, ok := ch.trySendLocked(data); ok || status == ClosedError {
		ch.mu.Unlock()
		return status
	}

	req := newRequest(BlockingSend)
	req.sendValue = data
	req.references++ // the queue entry's reference
	ch.sendWaiters.PushBack(&waitlist.Entry{Index: 0, Request: req})
	ch.mu.Unlock()

	req.sem.Wait()
	status, _, _ := req.outcome()
	req.release()
	return status
}

// Receive blocks until a value is available, the channel closes, or an
// unrecoverable error occurs.
func Receive(ch *Channel) (interface{}, Status) {
	ch.mu.Lock()
	if ch.destroyed {
		ch.mu.Unlock()
		xlog.Warn("op on destroyed channel", "err", errDestroyedf("Receive"))
		return nil, GenError
	}
	if v, status := ch.tryRecvLocked(); status == Success || status == ClosedError {
		ch.mu.Unlock()
		return v, status
	}

	req := newRequest(BlockingRecv)
	req.references++ // the queue entry's reference
	ch.recvWaiters.PushBack(&waitlist.Entry{Index: 0, Request: req})
	ch.mu.Unlock()

	req.sem.Wait()
	status, _, v := req.outcome()
	req.release()
	return v, status
}

// Close marks the channel closed and drains both waiter queues, delivering
// ClosedError to every still-valid waiter. A second Close on an
// already-closed channel is a no-op that reports ClosedError.
func Close(ch *Channel) Status {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.destroyed {
		return GenError
	}
	if ch.closed {
		return ClosedError
	}
	ch.closed = true
	ch.drainOnCloseLocked(&ch.sendWaiters)
	ch.drainOnCloseLocked(&ch.recvWaiters)
	xlog.Debug("channel closed", "cap", ch.buf.Cap(), "len", ch.buf.Len())
	return Success
}

func (c *Channel) drainOnCloseLocked(q *waitlist.List) {
	for {
		entry := q.PopFront()
		if entry == nil {
			return
		}
		req := entry.Request.(*request)
		req.serve(ClosedError, entry.Index, nil)
		req.release()
	}
}

// Destroy releases a closed, quiescent channel. It is GenError on a nil
// channel, DestroyError if the channel is not yet closed (the caller must
// Close first), and Success otherwise. Go has no manual free; destroyed is
// a tombstone flag so every operation after a successful Destroy reports
// GenError instead of silently operating on a channel whose invariants are
// no longer being maintained by anyone.
func Destroy(ch *Channel) Status {
	if ch == nil {
		return GenError
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.destroyed {
		return GenError
	}
	if !ch.closed {
		return DestroyError
	}
	ch.destroyed = true
	return Success
}

// errDestroyedf wraps ErrDestroyed with the operation name, for the warning
// the send and receive operations log before returning GenError.
func errDestroyedf(op string) error {
	return fmt.Errorf("gochan: %s: %w", op, ErrDestroyed)
}
