// Package ringbuf implements the fixed-capacity circular buffer that backs
// a channel's queued messages.
//
// The indexing scheme mirrors hchan's buf/sendx/recvx/qcount fields in the
// Go runtime's channel implementation (runtime/chan.go): Add writes at sendx
// and advances it modulo the capacity, Remove reads at recvx and advances it
// modulo the capacity, and count tracks how many live slots separate them.
package ringbuf

// Buffer is a bounded FIFO of opaque values. It is not safe for concurrent
// use; callers (the Channel type) serialize access with their own lock, the
// same division of responsibility hchan has with its buf array.
type Buffer struct {
	slots []interface{}
	sendx int
	recvx int
	count int
}

// New allocates a Buffer with room for exactly capacity elements.
// capacity must be positive; the zero-capacity case is rejected by the
// Channel constructor before a Buffer is ever created.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		panic("ringbuf: capacity must be positive")
	}
	return &Buffer{slots: make([]interface{}, capacity)}
}

// Cap returns the buffer's fixed capacity.
func (b *Buffer) Cap() int { return len(b.slots) }

// Len returns the number of items currently queued.
func (b *Buffer) Len() int { return b.count }

// Full reports whether the buffer has no free slot.
func (b *Buffer) Full() bool { return b.count == len(b.slots) }

// Empty reports whether the buffer holds no items.
func (b *Buffer) Empty() bool { return b.count == 0 }

// Front returns the value at the receive index without removing it. The
// caller must have already checked Empty. Peeking lets a caller decide
// whether to commit to a receive (e.g. by winning a race to claim a
// waiting Request) before actually consuming the slot.
func (b *Buffer) Front() interface{} {
	if b.Empty() {
		panic("ringbuf: Front on empty buffer")
	}
	return b.slots[b.recvx]
}

// Add deposits v at the send index and advances it. The caller must have
// already checked Full.
func (b *Buffer) Add(v interface{}) {
	if b.Full() {
		panic("ringbuf: Add on full buffer")
	}
	b.slots[b.sendx] = v
	b.sendx++
	if b.sendx == len(b.slots) {
		b.sendx = 0
	}
	b.count++
}

// Remove pops the value at the receive index and advances it. The caller
// must have already checked Empty.
func (b *Buffer) Remove() interface{} {
	if b.Empty() {
		panic("ringbuf: Remove on empty buffer")
	}
	v := b.slots[b.recvx]
	b.slots[b.recvx] = nil
	b.recvx++
	if b.recvx == len(b.slots) {
		b.recvx = 0
	}
	b.count--
	return v
}
