package gochan

import (
	"github.com/kevink2022/gochan/internal/waitlist"
	"github.com/kevink2022/gochan/internal/xlog"
)

// Direction says whether a SelectCase proposes to send or receive.
type Direction int

const (
	SelectSend Direction = iota
	SelectRecv
)

// SelectCase is one proposed operation in a Select call: a channel, the
// direction to operate on it, and (for a send) the value to transmit. On
// SelectSend, Data is the value to transmit; on SelectRecv, Data is ignored.
type SelectCase struct {
	Channel   *Channel
	Direction Direction
	Data      interface{}
}

// Select is the multi-way rendezvous operation, modeled on the Go
// runtime's selectgo (runtime/select.go). It registers a single
// Request against every case's channel, attempting each non-blockingly in
// order; the first case able to fire wins. If none can fire immediately,
// it suspends until whichever channel serves it first wakes it, exactly
// as runtime/chan.go's wakeup pump serves a queued sudog. It returns the
// winning case's index and the operation's status.
//
// A ClosedError from any case, during the initial scan or after
// suspending, is terminal for the whole call and is reported with that
// case's index -- select does not keep trying other cases once one has
// reported closure.
func Select(cases []SelectCase) (selectedIndex int, status Status) {
	idx, status, _ := selectValues(cases)
	return idx, status
}

// SelectValues behaves like Select but additionally returns the value
// delivered by whichever case fired a receive (the Go-idiomatic stand-in
// for the spec's write-through &data out-parameter on a RECV case).
func SelectValues(cases []SelectCase) (selectedIndex int, status Status, value interface{}) {
	return selectValues(cases)
}

func selectValues(cases []SelectCase) (int, Status, interface{}) {
	if len(cases) == 0 {
		xlog.Warn("select called with no cases", "err", ErrEmptySelect)
		return 0, GenError, nil
	}

	req := newRequest(SelectKind)
	req.cases = cases

scan:
	for i, sc := range cases {
		ch := sc.Channel
		ch.mu.Lock()
		if ch.destroyed {
			ch.mu.Unlock()
			req.release()
			return i, GenError, nil
		}

		status, recvValue, outcome := ch.attemptLocked(sc, req, i)
		switch outcome {
		case attemptCommitted:
			ch.mu.Unlock()
			req.release()
			return i, status, recvValue
		case attemptInvalidated:
			// Another goroutine already served this request through a
			// channel registered earlier in the scan: stop scanning and
			// read the outcome already recorded there.
			ch.mu.Unlock()
			break scan
		default: // attemptWouldBlock
			// Could not proceed immediately: register a waiter on this
			// channel so a future send/receive/close on it can serve us.
			if req.tryAddRef() {
				q := sendQueueFor(sc.Direction, ch)
				q.PushBack(&waitlist.Entry{Index: i, Request: req})
			}
			ch.mu.Unlock()
		}
	}

	if !req.isValid() {
		status, idx, recvValue := req.outcome()
		req.release()
		return idx, status, recvValue
	}

	req.sem.Wait()
	status, idx, recvValue := req.outcome()
	req.release()
	return idx, status, recvValue
}

// sendQueueFor returns the waiter queue a given case direction should
// register into: a proposed send waits in the channel's send queue to be
// woken by a future receive (and vice versa), exactly as Send/Receive do
// for a lone blocking call.
func sendQueueFor(dir Direction, ch *Channel) *waitlist.List {
	if dir == SelectSend {
		return &ch.sendWaiters
	}
	return &ch.recvWaiters
}

// attemptOutcome classifies the result of one select case's immediate
// attempt against its channel.
type attemptOutcome int

const (
	// attemptWouldBlock: the case cannot fire yet (full/empty); the
	// request is still valid and a waiter should be enqueued.
	attemptWouldBlock attemptOutcome = iota
	// attemptCommitted: this case just won the request outright.
	attemptCommitted
	// attemptInvalidated: the request was already claimed by a channel
	// earlier in the scan (racing with a concurrent wakeup on that other
	// channel); the scan should stop and read the outcome already
	// recorded there.
	attemptInvalidated
)

// attemptLocked tries to complete one select case immediately against its
// already-locked channel, modeled on the non-blocking fast path inside
// chansend/chanrecv (runtime/chan.go) but folded together with the
// Request-claiming step so the two can never disagree.
//
// The validity check, the decision of whether the buffer can serve the
// case, and the flip of the Request to invalid all happen in one critical
// section under the Request's own lock: lock the channel, lock the
// Request, and if it is still valid, attempt the operation and commit it
// so that on success the Request's validity is flipped to false under the
// Request lock. Only once that decision is final -- and only for the
// branch that actually won -- does the function touch the channel's buffer,
// using the
// channel lock the caller already holds. This ordering means a case that
// turns out to have lost a race for its own Request never has to undo a
// buffer mutation: it simply never performs one.
func (c *Channel) attemptLocked(sc SelectCase, req *request, index int) (Status, interface{}, attemptOutcome) {
	req.mu.Lock()
	if !req.valid {
		req.mu.Unlock()
		return 0, nil, attemptInvalidated
	}

	var status Status
	var recvValue interface{}
	switch sc.Direction {
	case SelectSend:
		switch {
		case c.closed:
			status = ClosedError
		case c.buf.Full():
			req.mu.Unlock()
			return ChannelFull, nil, attemptWouldBlock
		default:
			status = Success
		}
	default: // SelectRecv
		switch {
		case c.closed:
			status = ClosedError
		case !c.buf.Empty():
			status = Success
			recvValue = c.buf.Front()
		default:
			req.mu.Unlock()
			return ChannelEmpty, nil, attemptWouldBlock
		}
	}

	req.valid = false
	req.status = status
	req.selectedIndex = index
	req.recvValue = recvValue
	req.mu.Unlock()
	req.sem.Post()

	if status == Success {
		if sc.Direction == SelectSend {
			c.buf.Add(sc.Data)
			c.wakeOneLocked(&c.recvWaiters, true)
		} else {
			c.buf.Remove()
			c.wakeOneLocked(&c.sendWaiters, false)
		}
	}
	return status, recvValue, attemptCommitted
}
