package gochan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectEmptyCasesIsError(t *testing.T) {
	idx, status := Select(nil)
	assert.Equal(t, 0, idx)
	assert.Equal(t, GenError, status)
}

// Select picks whichever case is already ready when more than
// one could fire, and reports the right index and value.
func TestSelectPicksReadyCase(t *testing.T) {
	a, err := Create(1)
	require.NoError(t, err)
	b, err := Create(1)
	require.NoError(t, err)

	require.Equal(t, Success, NonBlockingSend(b, "from-b"))

	idx, status, val := SelectValues([]SelectCase{
		{Channel: a, Direction: SelectRecv},
		{Channel: b, Direction: SelectRecv},
	})
	assert.Equal(t, 1, idx)
	assert.Equal(t, Success, status)
	assert.Equal(t, "from-b", val)
}

func TestSelectSendCaseReady(t *testing.T) {
	full, err := Create(1)
	require.NoError(t, err)
	require.Equal(t, Success, NonBlockingSend(full, "occupied"))

	open, err := Create(1)
	require.NoError(t, err)

	idx, status := Select([]SelectCase{
		{Channel: full, Direction: SelectSend, Data: "x"},
		{Channel: open, Direction: SelectSend, Data: "y"},
	})
	assert.Equal(t, 1, idx)
	assert.Equal(t, Success, status)

	v, recvStatus := NonBlockingReceive(open)
	assert.Equal(t, Success, recvStatus)
	assert.Equal(t, "y", v)
}

// Select blocks when no case can fire immediately, and wakes
// once any one of its registered channels becomes ready.
func TestSelectBlocksThenWoken(t *testing.T) {
	a, err := Create(1)
	require.NoError(t, err)
	b, err := Create(1)
	require.NoError(t, err)

	type result struct {
		idx    int
		status Status
		val    interface{}
	}
	done := make(chan result, 1)
	go func() {
		idx, status, val := SelectValues([]SelectCase{
			{Channel: a, Direction: SelectRecv},
			{Channel: b, Direction: SelectRecv},
		})
		done <- result{idx, status, val}
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("select returned before either channel was ready")
	default:
	}

	require.Equal(t, Success, NonBlockingSend(b, "late"))

	r := <-done
	assert.Equal(t, 1, r.idx)
	assert.Equal(t, Success, r.status)
	assert.Equal(t, "late", r.val)

	// The select's leftover registration on the losing channel does not
	// get in the way of a later send on it.
	status := NonBlockingSend(a, "probe")
	assert.Equal(t, Success, status)
}

// Closing any one of a select's registered channels while it
// is blocked delivers ClosedError for that case.
func TestSelectClosurePropagation(t *testing.T) {
	a, err := Create(1)
	require.NoError(t, err)
	b, err := Create(1)
	require.NoError(t, err)

	type result struct {
		idx    int
		status Status
	}
	done := make(chan result, 1)
	go func() {
		idx, status := Select([]SelectCase{
			{Channel: a, Direction: SelectRecv},
			{Channel: b, Direction: SelectRecv},
		})
		done <- result{idx, status}
	}()

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, Success, Close(a))

	r := <-done
	assert.Equal(t, 0, r.idx)
	assert.Equal(t, ClosedError, r.status)
}

// A select naming the same channel in two cases is permitted: no special
// casing, the first case that can fire wins exactly as with two distinct
// channels.
func TestSelectRepeatedChannelAllowed(t *testing.T) {
	ch, err := Create(1)
	require.NoError(t, err)
	require.Equal(t, Success, NonBlockingSend(ch, "v"))

	idx, status, val := SelectValues([]SelectCase{
		{Channel: ch, Direction: SelectRecv},
		{Channel: ch, Direction: SelectRecv},
	})
	assert.Equal(t, 0, idx)
	assert.Equal(t, Success, status)
	assert.Equal(t, "v", val)
}

func TestSelectDestroyedChannelIsGenError(t *testing.T) {
	ch, err := Create(1)
	require.NoError(t, err)
	require.Equal(t, Success, Close(ch))
	require.Equal(t, Success, Destroy(ch))

	idx, status := Select([]SelectCase{
		{Channel: ch, Direction: SelectRecv},
	})
	assert.Equal(t, 0, idx)
	assert.Equal(t, GenError, status)
}
