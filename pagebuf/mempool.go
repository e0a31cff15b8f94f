package pagebuf

import (
	"sync"
	"sync/atomic"
)

// MemPool is an in-memory page.Buffer pool: pages live only in a map keyed
// by index, with no persistence or eviction. Used by tests and by tools
// that want a node to play with without a backing file.
type MemPool struct {
	pageSize int
	next     uint64
	pages    sync.Map // uint64 -> *Buf
}

// NewMemPool constructs an empty pool whose pages are pageSize bytes.
func NewMemPool(pageSize int) *MemPool {
	return &MemPool{pageSize: pageSize}
}

// New allocates and returns a fresh zeroed page.
func (p *MemPool) New() *Buf {
	idx := atomic.AddUint64(&p.next, 1) - 1
	buf := NewBuf(idx, p.pageSize)
	p.pages.Store(idx, buf)
	return buf
}

// Get returns the page at index, or nil if it was never allocated.
func (p *MemPool) Get(index uint64) *Buf {
	v, ok := p.pages.Load(index)
	if !ok {
		return nil
	}
	return v.(*Buf)
}

// Free drops a page from the pool; its bytes are not reused.
func (p *MemPool) Free(index uint64) {
	p.pages.Delete(index)
}
