package gochan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRequestStartsValidWithOneReference(t *testing.T) {
	r := newRequest(BlockingRecv)
	assert.True(t, r.isValid())
	assert.Equal(t, 1, r.references)
}

func TestServeWinsOnce(t *testing.T) {
	r := newRequest(BlockingRecv)
	assert.True(t, r.serve(Success, 0, "v"))
	assert.False(t, r.isValid())
	// A second serve must lose the race: exactly one writer ever commits.
	assert.False(t, r.serve(Success, 0, "other"))

	status, idx, val := r.outcome()
	assert.Equal(t, Success, status)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "v", val)
}

func TestTryAddRefFailsOnceInvalid(t *testing.T) {
	r := newRequest(SelectKind)
	assert.True(t, r.tryAddRef())
	assert.True(t, r.serve(ClosedError, 2, nil))
	r.release() // the queue entry's ref, dropped after service; back to 1
	assert.False(t, r.tryAddRef())
}

func TestReleaseCompletesRequestWhenLastWaiterGivesUp(t *testing.T) {
	// references starts at 1 (the owner). Add one queue-entry reference,
	// then release it without anyone ever calling serve: the request must
	// self-complete with ClosedError rather than leaving the owner parked.
	r := newRequest(SelectKind)
	assert.True(t, r.tryAddRef())
	r.release()

	assert.False(t, r.isValid())
	status, _, _ := r.outcome()
	assert.Equal(t, ClosedError, status)

	// Post already happened inside release; Wait must return immediately.
	done := make(chan struct{})
	go func() {
		r.sem.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sem was not posted by the self-completing release")
	}
}
