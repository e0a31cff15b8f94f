package pagebuf

import (
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/coldwave-db/sebtree/mmap"
	"github.com/coldwave-db/sebtree/page"
)

// Pool is an mmap-backed page.Buffer source over a single growable file:
// every page is a pageSize-byte slice of one shared memory mapping, so
// persistence and page access share the same address space with no
// per-page copy.
type Pool struct {
	f        *os.File
	m        *mmap.Map
	pageSize int
	log      *zap.Logger

	growMu sync.Mutex
	locks  sync.Map // uint64 -> *sync.RWMutex, one per live page index
}

// OpenPool opens (creating if absent) a page file at path and grows it to
// hold at least pageCount pages, then maps it read/write. log is used for
// the warnings a pool-level operation (growth, close) can raise; pass
// zap.NewNop() to silence them.
func OpenPool(path string, pageSize, pageCount int, log *zap.Logger) (*Pool, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}

	p := &Pool{f: f, pageSize: pageSize, log: log}
	if err := p.growLocked(pageCount); err != nil {
		f.Close()
		return nil, err
	}
	return p, nil
}

// growLocked truncates the file and remaps it so it holds at least
// pageCount pages. Safe to call with no existing mapping (first open).
func (p *Pool) growLocked(pageCount int) error {
	size := int64(pageCount) * int64(p.pageSize)
	fi, err := p.f.Stat()
	if err != nil {
		return err
	}
	if fi.Size() < size {
		if err := p.f.Truncate(size); err != nil {
			return err
		}
	}

	if p.m != nil {
		if size <= p.m.Size() {
			return nil
		}
		if err := p.m.Remap(size); err != nil {
			return err
		}
		return nil
	}

	m, err := mmap.New(int(p.f.Fd()), 0, int(size), true)
	if err != nil {
		return err
	}
	p.m = m
	return nil
}

// Grow ensures the pool can address at least pageCount pages, remapping
// the backing file if it's currently smaller. Remap may fall back to
// unmap-then-remap when mremap isn't available, which invalidates any
// MmapBuf obtained before the call — callers must not hold a Page result
// for a page across a Grow.
func (p *Pool) Grow(pageCount int) error {
	p.growMu.Lock()
	defer p.growMu.Unlock()
	if err := p.growLocked(pageCount); err != nil {
		p.log.Warn("pagebuf: grow failed", zap.Error(err), zap.Int("pageCount", pageCount))
		return err
	}
	return nil
}

// Page returns the page.Buffer for page index, mapping it onto the shared
// mmap region. The caller is responsible for having grown the pool enough
// to cover index first.
func (p *Pool) Page(index uint64) *MmapBuf {
	off := int(index) * p.pageSize
	data := p.m.Data()[off : off+p.pageSize]
	mu, _ := p.locks.LoadOrStore(index, &sync.RWMutex{})
	return &MmapBuf{data: data, index: index, mu: mu.(*sync.RWMutex)}
}

// Sync flushes all mapped pages to disk.
func (p *Pool) Sync() error {
	if err := p.m.Sync(); err != nil {
		p.log.Warn("pagebuf: sync failed", zap.Error(err))
		return err
	}
	return nil
}

// Close unmaps the pool and closes its backing file.
func (p *Pool) Close() error {
	if err := p.m.Close(); err != nil {
		p.log.Warn("pagebuf: unmap failed", zap.Error(err))
		return err
	}
	return p.f.Close()
}

// MmapBuf is the page.Buffer view of one page within a Pool's mapping.
type MmapBuf struct {
	data  []byte
	index uint64
	mu    *sync.RWMutex
}

var _ page.Buffer = (*MmapBuf)(nil)

func (b *MmapBuf) GetIntValue(off int) uint32    { return getUint32(b.data[off:]) }
func (b *MmapBuf) SetIntValue(off int, v uint32) { putUint32(b.data[off:], v) }
func (b *MmapBuf) GetLongValue(off int) uint64   { return getUint64(b.data[off:]) }
func (b *MmapBuf) SetLongValue(off int, v uint64) { putUint64(b.data[off:], v) }

func (b *MmapBuf) MoveData(src, dst, length int) {
	copy(b.data[dst:dst+length], b.data[src:src+length])
}

func (b *MmapBuf) Bytes() []byte { return b.data }

func (b *MmapBuf) AcquireSharedLock()    { b.mu.RLock() }
func (b *MmapBuf) ReleaseSharedLock()    { b.mu.RUnlock() }
func (b *MmapBuf) AcquireExclusiveLock() { b.mu.Lock() }
func (b *MmapBuf) ReleaseExclusiveLock() { b.mu.Unlock() }

func (b *MmapBuf) PageIndex() uint64 { return b.index }
