// Package arena provides a frame-lifetime bump allocator with LIFO rewind.
//
// An Arena hands out pointer-stable values in allocation order and can
// discard the most recent allocations by rewinding to a previously captured
// Mark. Only strictly-LIFO rewinds are safe: a Mark must be captured
// immediately before the allocations it may discard, with no interleaved
// allocation that outlives the rewind.
//
// Arenas are not safe for concurrent use. All allocations belong to one
// in-flight frame and are dropped together via Reset.
package arena

// chunkCap is the number of values per chunk. Chunks are never grown in
// place, so pointers returned by Alloc stay valid until Reset.
const chunkCap = 64

// Mark is a rewind point captured from an Arena.
type Mark int

// Arena is a chunked bump allocator for values of type T.
type Arena[T any] struct {
	chunks [][]T
	count  int
}

// New creates an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Alloc returns a pointer to a new zero value with frame lifetime.
// The pointer stays valid until Reset; it must not escape the frame.
func (a *Arena[T]) Alloc() *T {
	if n := len(a.chunks); n == 0 || len(a.chunks[n-1]) == cap(a.chunks[n-1]) {
		a.chunks = append(a.chunks, make([]T, 0, chunkCap))
	}
	last := len(a.chunks) - 1
	a.chunks[last] = append(a.chunks[last], *new(T))
	a.count++
	return &a.chunks[last][len(a.chunks[last])-1]
}

// Mark captures the current allocation point for a later Rewind.
func (a *Arena[T]) Mark() Mark {
	return Mark(a.count)
}

// Rewind discards every allocation made after m. Pointers obtained after m
// become invalid. Rewinding past allocations that are still referenced is a
// caller bug; only rewind to a mark captured immediately before the
// allocations being discarded.
func (a *Arena[T]) Rewind(m Mark) {
	target := int(m)
	if target < 0 || target > a.count {
		return
	}
	for a.count > target {
		last := len(a.chunks) - 1
		chunk := a.chunks[last]
		n := len(chunk)
		chunk[n-1] = *new(T) // release references for GC
		a.chunks[last] = chunk[:n-1]
		if n == 1 && last > 0 {
			a.chunks = a.chunks[:last]
		}
		a.count--
	}
}

// Len returns the number of live allocations.
func (a *Arena[T]) Len() int {
	return a.count
}

// Reset drops every allocation but keeps chunk capacity for reuse.
func (a *Arena[T]) Reset() {
	for i := range a.chunks {
		clear(a.chunks[i])
		a.chunks[i] = a.chunks[i][:0]
	}
	if len(a.chunks) > 1 {
		a.chunks = a.chunks[:1]
	}
	a.count = 0
}
