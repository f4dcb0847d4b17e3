package distance

import "sync"

// Buffer is the reusable scratch area for the double-row DP kernels. One
// buffer per worker: kernels never allocate on the hot path when a buffer is
// supplied. The backing slice is refilled across work items and only
// reallocated when a request exceeds its capacity.
type Buffer struct {
	data []float64
}

// NewBuffer pre-sizes a buffer for series up to maxLen points.
func NewBuffer(maxLen int) *Buffer {
	return &Buffer{data: make([]float64, 2*(maxLen+1))}
}

// rows returns a slice of length n filled with fill.
func (b *Buffer) rows(n int, fill float64) []float64 {
	if b == nil {
		out := make([]float64, n)
		for i := range out {
			out[i] = fill
		}
		return out
	}
	if cap(b.data) < n {
		b.data = make([]float64, n)
	}
	b.data = b.data[:n]
	for i := range b.data {
		b.data[i] = fill
	}
	return b.data
}

// bufferPool hands out buffers to callers that did not bring their own.
var bufferPool = sync.Pool{
	New: func() any { return &Buffer{} },
}

func getBuffer() *Buffer  { return bufferPool.Get().(*Buffer) }
func putBuffer(b *Buffer) { bufferPool.Put(b) }
