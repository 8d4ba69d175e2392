package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTracker_CountsOverlappingCalls(t *testing.T) {
	tr := newStatusTracker()

	endFirst := tr.begin(OpRemove)
	endSecond := tr.begin(OpRemove)
	endAdd := tr.begin(OpAdd)

	endFirst()
	assert.True(t, tr.active(OpRemove), "second remove still running")
	assert.Equal(t, map[Operation]int{OpRemove: 1, OpAdd: 1}, tr.snapshot())

	endFirst()
	assert.True(t, tr.active(OpRemove), "ending twice must not release another call")

	endSecond()
	endAdd()
	assert.False(t, tr.active(OpRemove))
	assert.False(t, tr.any())
	assert.Empty(t, tr.snapshot())
}
