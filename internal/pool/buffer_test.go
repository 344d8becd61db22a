package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_ZeroValueIsEmpty(t *testing.T) {
	var b Buffer
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, smallBufferSize, b.Cap())
	assert.Empty(t, b.Data())
}

func TestBuffer_Append_StaysInline(t *testing.T) {
	var b Buffer
	b.Append([]byte("hello"))
	assert.Equal(t, 5, b.Len())
	assert.Equal(t, "hello", string(b.Data()))
	assert.Equal(t, smallBufferSize, b.Cap(), "small appends must not spill to the heap")
}

func TestBuffer_Append_SpillsToHeap(t *testing.T) {
	var b Buffer
	big := make([]byte, smallBufferSize+10)
	for i := range big {
		big[i] = byte(i)
	}
	b.Append(big)
	assert.Equal(t, len(big), b.Len())
	assert.Equal(t, big, b.Data())
	assert.Greater(t, b.Cap(), smallBufferSize)
}

func TestBuffer_Push(t *testing.T) {
	var b Buffer
	for i := byte(0); i < 5; i++ {
		b.Push(i)
	}
	assert.Equal(t, []byte{0, 1, 2, 3, 4}, b.Data())
}

func TestBuffer_Reset(t *testing.T) {
	var b Buffer
	b.Append([]byte("data"))
	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Data())
}

func TestBuffer_Prealloc(t *testing.T) {
	var b Buffer
	b.Prealloc(9)
	assert.Equal(t, 9, b.Len())
	for i := 0; i < 9; i++ {
		assert.Equal(t, byte(0), b.At(i))
	}
}

func TestBuffer_Truncate(t *testing.T) {
	var b Buffer
	b.Append([]byte("hello world"))
	b.Truncate(5)
	assert.Equal(t, "hello", string(b.Data()))
}

func TestBuffer_Truncate_OutOfRangePanics(t *testing.T) {
	var b Buffer
	b.Append([]byte("hi"))
	assert.Panics(t, func() { b.Truncate(10) })
	assert.Panics(t, func() { b.Truncate(-1) })
}

func TestBuffer_PutAt(t *testing.T) {
	var b Buffer
	b.Append([]byte("hello"))
	b.PutAt(0, 'H')
	assert.Equal(t, "Hello", string(b.Data()))
}

func TestBuffer_Slice(t *testing.T) {
	var b Buffer
	b.Append([]byte("hello world"))
	assert.Equal(t, "world", string(b.Slice(6, 11)))
}

func TestBuffer_Steal_Inline(t *testing.T) {
	var b Buffer
	b.Append([]byte("small"))
	out := b.Steal()
	assert.Equal(t, "small", string(out))
	assert.Equal(t, 0, b.Len())
}

func TestBuffer_Steal_Heap(t *testing.T) {
	var b Buffer
	big := make([]byte, smallBufferSize*2)
	for i := range big {
		big[i] = byte(i)
	}
	b.Append(big)
	out := b.Steal()
	require.Equal(t, big, out)
	assert.Equal(t, 0, b.Len())
}
