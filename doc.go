// Package sebtree implements the page-level node format of an SEB-tree: the
// sorted, page-resident component of an LSM-tree.
//
// A node is a single fixed-size page holding either leaf records (sorted
// key/value pairs) or internal records (sorted key/child-pointer pairs,
// optionally annotated with block-allocator markers). Slots grow forward
// from the header; out-of-line keys and values are appended to a data heap
// that grows backward from the end of the page, compacted on delete.
//
// Package layout:
//
//	page/    node format: codec, encoders, header, slots, heap, markers,
//	         node operations (search/insert/update/delete/split), latching
//	pagebuf/ Buffer implementations backing a page: an in-memory pool for
//	         tests and an mmap-backed pool for persistent storage
//	mmap/    cross-platform memory-mapped file regions, used by pagebuf
//	cmd/pagedump/ a CLI for dumping a page's header and slot array
//
// Basic usage:
//
//	cfg := page.Config{PageSize: 4096, InlineKeyThreshold: 32, InlineValueThreshold: 64}
//	reg := page.Int64Registry[[]byte](page.UnboundedBytesEncoder{})
//	pool := pagebuf.NewMemPool(4096)
//	buf := pool.New()
//	n := page.New[int64, []byte](buf, cfg, reg, page.OrderedComparator[int64]())
//	n.BeginCreate()
//	n.Create(true)
//	n.EndWrite()
package sebtree
