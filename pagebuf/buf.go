// Package pagebuf supplies page.Buffer implementations: an in-memory pool
// for tests and tools that don't need persistence, and an mmap-backed pool
// for a real page store.
package pagebuf

import (
	"sync"

	"github.com/coldwave-db/sebtree/page"
)

// Buf is a single page.Buffer backed by a plain byte slice, latched with a
// sync.RWMutex. No encoding of the lock state onto disk; it exists purely
// to let Node's latch protocol run against memory in tests.
type Buf struct {
	data  []byte
	index uint64
	mu    sync.RWMutex
}

var _ page.Buffer = (*Buf)(nil)

// NewBuf allocates a zeroed page of pageSize bytes at the given index.
func NewBuf(index uint64, pageSize int) *Buf {
	return &Buf{data: make([]byte, pageSize), index: index}
}

func (b *Buf) GetIntValue(off int) uint32 { return getUint32(b.data[off:]) }
func (b *Buf) SetIntValue(off int, v uint32) { putUint32(b.data[off:], v) }
func (b *Buf) GetLongValue(off int) uint64 { return getUint64(b.data[off:]) }
func (b *Buf) SetLongValue(off int, v uint64) { putUint64(b.data[off:], v) }

func (b *Buf) MoveData(src, dst, length int) {
	copy(b.data[dst:dst+length], b.data[src:src+length])
}

func (b *Buf) Bytes() []byte { return b.data }

func (b *Buf) AcquireSharedLock()    { b.mu.RLock() }
func (b *Buf) ReleaseSharedLock()    { b.mu.RUnlock() }
func (b *Buf) AcquireExclusiveLock() { b.mu.Lock() }
func (b *Buf) ReleaseExclusiveLock() { b.mu.Unlock() }

func (b *Buf) PageIndex() uint64 { return b.index }

func getUint32(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putUint32(b []byte, v uint32) {
	_ = b[3]
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getUint64(b []byte) uint64 {
	_ = b[7]
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

func putUint64(b []byte, v uint64) {
	_ = b[7]
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}
