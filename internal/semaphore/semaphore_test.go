package semaphore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitBlocksUntilPost(t *testing.T) {
	var s Sema
	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before Post")
	case <-time.After(20 * time.Millisecond):
	}

	s.Post()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Post")
	}
}

func TestPostBeforeWaitDoesNotBlock(t *testing.T) {
	var s Sema
	s.Post()

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked despite an earlier Post")
	}
}

func TestPostIsIdempotent(t *testing.T) {
	var s Sema
	assert.NotPanics(t, func() {
		s.Post()
		s.Post()
		s.Post()
	})
	s.Wait()
}
