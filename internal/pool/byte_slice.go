// Package pool holds sync.Pool wrappers for buffers that the tokenizer
// and scanner churn through.
package pool

import "sync"

const defaultByteSliceCapacity = 64

type ByteSlicePool struct {
	pool sync.Pool
}

var byteSlicePool = &ByteSlicePool{
	pool: sync.Pool{
		New: allocByteSlice,
	},
}

func allocByteSlice() any {
	b := make([]byte, 0, defaultByteSliceCapacity)
	return &b
}

// ByteSlice returns the shared pool of byte slices.
func ByteSlice() *ByteSlicePool {
	return byteSlicePool
}

// Get returns an empty slice with at least the default capacity.
func (p *ByteSlicePool) Get() []byte {
	return p.GetCapacity(defaultByteSliceCapacity)
}

// GetCapacity returns an empty slice with at least n bytes of capacity.
func (p *ByteSlicePool) GetCapacity(n int) []byte {
	bp := p.pool.Get().(*[]byte)
	b := (*bp)[:0]
	if cap(b) < n {
		b = make([]byte, 0, n)
	}
	return b
}

func (p *ByteSlicePool) Put(b []byte) {
	// don't hang on to huge buffers
	if cap(b) > 64*1024 {
		return
	}
	b = b[:0]
	p.pool.Put(&b)
}
