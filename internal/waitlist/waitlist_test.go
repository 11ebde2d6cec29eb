package waitlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopFrontOnEmptyReturnsNil(t *testing.T) {
	var q List
	assert.True(t, q.Empty())
	assert.Nil(t, q.PopFront())
}

func TestFIFOOrder(t *testing.T) {
	var q List
	q.PushBack(&Entry{Index: 1})
	q.PushBack(&Entry{Index: 2})
	q.PushBack(&Entry{Index: 3})
	assert.False(t, q.Empty())

	assert.Equal(t, 1, q.PopFront().Index)
	assert.Equal(t, 2, q.PopFront().Index)
	assert.Equal(t, 3, q.PopFront().Index)
	assert.True(t, q.Empty())
	assert.Nil(t, q.PopFront())
}
