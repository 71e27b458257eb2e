package buffer

import (
	"sync"
)

// ChunkSize is the read/write unit of the download loop.
const ChunkSize = 8192

type Pool struct {
	pool sync.Pool
	size int
}

func NewPool(size int) *Pool {
	return &Pool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				b := make([]byte, size)
				return &b
			},
		},
	}
}

func (p *Pool) Get() []byte {
	return *(p.pool.Get().(*[]byte))
}

func (p *Pool) Put(b []byte) {
	if cap(b) < p.size {
		return
	}
	b = b[:p.size]
	p.pool.Put(&b)
}

func (p *Pool) Size() int {
	return p.size
}

var Default = NewPool(ChunkSize)

func Get() []byte {
	return Default.Get()
}

func Put(b []byte) {
	Default.Put(b)
}
