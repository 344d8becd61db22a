// Package pool provides the growable byte buffer vpack's Builder writes into.
//
// Buffer extends the amortized-growth strategy of mebo's internal ByteBuffer
// (github.com/arloliu/mebo/internal/pool) with a small-buffer optimization:
// below smallBufferSize the bytes live inline in the struct, avoiding a heap
// allocation for the (very common) small document case. Once a document
// outgrows the inline array, Buffer spills to a heap slice exactly like
// mebo's ByteBuffer and keeps using the same growth factor from then on.
package pool

// smallBufferSize is the inline capacity before Buffer spills to the heap.
// Chosen generously enough that typical small JSON objects/arrays never
// allocate.
const smallBufferSize = 256

// defaultGrow and growthThreshold mirror mebo's BlobBufferDefaultSize /
// "grow by 25% above a threshold" strategy (internal/pool/byte_buffer_pool.go),
// generalized from a fixed blob-size default to a scale-free growth factor.
const (
	defaultGrow     = smallBufferSize * 4
	growthThreshold = smallBufferSize * 16
)

// Buffer is a growable byte container with an inline small-buffer
// optimization. The zero value is a valid, empty Buffer.
type Buffer struct {
	inline [smallBufferSize]byte
	heap   []byte // non-nil once the buffer has spilled to the heap
	size   int
}

// Data returns the current contents. The returned slice aliases Buffer's
// storage and is invalidated by the next mutating call.
func (b *Buffer) Data() []byte {
	if b.heap != nil {
		return b.heap[:b.size]
	}

	return b.inline[:b.size]
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int { return b.size }

// Cap returns the current capacity without reallocating.
func (b *Buffer) Cap() int {
	if b.heap != nil {
		return cap(b.heap)
	}

	return smallBufferSize
}

// Reset returns the buffer to empty, releasing any heap allocation.
func (b *Buffer) Reset() {
	b.heap = nil
	b.size = 0
}

// Reserve ensures at least n more bytes can be appended without a further
// reallocation.
func (b *Buffer) Reserve(n int) {
	if b.Cap()-b.size >= n {
		return
	}

	needed := b.size + n
	growBy := defaultGrow
	if b.Cap() > growthThreshold {
		// Large buffers grow by ~25% of current capacity rather than a fixed
		// step, balancing reallocation count against wasted memory.
		growBy = b.Cap() / 4
	}

	newCap := b.Cap() + growBy
	if newCap < needed {
		newCap = needed
	}

	newHeap := make([]byte, b.size, newCap)
	copy(newHeap, b.Data())
	b.heap = newHeap
}

// Append appends data, growing the buffer as needed.
func (b *Buffer) Append(data []byte) {
	b.Reserve(len(data))
	if b.heap != nil {
		b.heap = append(b.heap[:b.size], data...)
	} else {
		copy(b.inline[b.size:], data)
	}
	b.size += len(data)
}

// Push appends a single byte.
func (b *Buffer) Push(c byte) {
	b.Reserve(1)
	if b.heap != nil {
		b.heap = append(b.heap[:b.size], c)
	} else {
		b.inline[b.size] = c
	}
	b.size++
}

// Prealloc reserves n bytes, zeros them, and advances Len() by n. Used by
// the Builder to reserve a worst-case container header before the
// container's final size is known.
func (b *Buffer) Prealloc(n int) {
	b.Reserve(n)
	if b.heap != nil {
		b.heap = b.heap[:b.size+n]
		clear(b.heap[b.size : b.size+n])
	} else {
		clear(b.inline[b.size : b.size+n])
	}
	b.size += n
}

// Truncate shrinks Len() to n, discarding trailing bytes. It never
// reallocates or releases the underlying storage.
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > b.size {
		panic("pool: Buffer.Truncate out of range")
	}
	b.size = n
}

// At returns the byte at index i.
func (b *Buffer) At(i int) byte {
	if b.heap != nil {
		return b.heap[i]
	}

	return b.inline[i]
}

// PutAt overwrites the byte at index i, which must be < Len().
func (b *Buffer) PutAt(i int, c byte) {
	if b.heap != nil {
		b.heap[i] = c
	} else {
		b.inline[i] = c
	}
}

// Slice returns a view [start:end) into the buffer's current contents.
func (b *Buffer) Slice(start, end int) []byte {
	return b.Data()[start:end]
}

// Steal transfers ownership of the written bytes out of the Buffer as an
// independent []byte and resets the Buffer to empty. When the buffer has
// already spilled to the heap this is O(1); otherwise (still inline) it
// copies, since the inline array cannot be detached from the struct.
func (b *Buffer) Steal() []byte {
	if b.heap != nil {
		out := b.heap[:b.size]
		b.heap = nil
		b.size = 0

		return out
	}

	out := make([]byte, b.size)
	copy(out, b.inline[:b.size])
	b.size = 0

	return out
}
