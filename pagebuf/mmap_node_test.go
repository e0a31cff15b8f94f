package pagebuf

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/coldwave-db/sebtree/page"
)

func smallNodeCfg() page.Config {
	return page.Config{PageSize: 4096, InlineKeyThreshold: 16, InlineValueThreshold: 16}
}

func insertInt64Leaf(t *testing.T, n *page.Node[int64, []byte], key int64, value []byte) {
	t.Helper()
	if err := n.BeginWrite(); err != nil {
		t.Fatal(err)
	}
	sr := n.IndexOf(key)
	ks := n.EncodedKeySize(key)
	vs := n.EncodedValueSize(value)
	if err := n.InsertValue(sr, key, ks, value, vs); err != nil {
		t.Fatalf("insertValue(%d): %v", key, err)
	}
	if err := n.EndWrite(); err != nil {
		t.Fatal(err)
	}
}

// TestPoolGrowPreservesNodeDataAcrossRemap exercises mmap.Map.Remap through
// Pool.Grow, driven by real node writes rather than raw buffer pokes: a leaf
// is filled on page 0, the pool is grown (forcing a remap), and the leaf
// must still read back correctly from the (possibly relocated) mapping.
func TestPoolGrowPreservesNodeDataAcrossRemap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	pool, err := OpenPool(path, 4096, 1, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	cfg := smallNodeCfg()
	reg := page.Int64Registry[[]byte](page.UnboundedBytesEncoder{})
	n := page.New[int64, []byte](pool.Page(0), cfg, reg, page.OrderedComparator[int64]())
	n.BeginCreate()
	n.Create(true)
	if err := n.EndWrite(); err != nil {
		t.Fatal(err)
	}

	keys := []int64{30, 10, 20}
	for _, k := range keys {
		insertInt64Leaf(t, n, k, []byte("value"))
	}

	if err := pool.Grow(8); err != nil {
		t.Fatalf("Grow: %v", err)
	}

	// Grow may have remapped the file, invalidating the slice page 0 was
	// built over — rebuild the node session over a freshly fetched buffer.
	n = page.New[int64, []byte](pool.Page(0), cfg, reg, page.OrderedComparator[int64]())
	if err := n.BeginRead(); err != nil {
		t.Fatal(err)
	}
	defer n.EndRead()

	if got := n.GetSize(); got != len(keys) {
		t.Fatalf("GetSize() after grow = %d, want %d", got, len(keys))
	}
	want := []int64{10, 20, 30}
	for i, w := range want {
		if got := n.KeyAt(i); got != w {
			t.Fatalf("KeyAt(%d) after grow = %d, want %d", i, got, w)
		}
	}

	// The newly grown region should also be addressable and independent.
	last := page.New[int64, []byte](pool.Page(7), cfg, reg, page.OrderedComparator[int64]())
	last.BeginCreate()
	last.Create(true)
	if err := last.EndWrite(); err != nil {
		t.Fatal(err)
	}
	insertInt64Leaf(t, last, 1, []byte("x"))
}

// TestPoolSyncAndReopenRoundTripsNodeData exercises mmap.Map.Sync and the
// file-backed reopen path through a real leaf write rather than raw ints:
// the page file is closed and reopened as a fresh Pool, and the node's
// records must still decode correctly from disk.
func TestPoolSyncAndReopenRoundTripsNodeData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	cfg := smallNodeCfg()
	reg := page.Int64Registry[[]byte](page.UnboundedBytesEncoder{})

	pool, err := OpenPool(path, 4096, 2, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	n := page.New[int64, []byte](pool.Page(0), cfg, reg, page.OrderedComparator[int64]())
	n.BeginCreate()
	n.Create(true)
	if err := n.EndWrite(); err != nil {
		t.Fatal(err)
	}
	insertInt64Leaf(t, n, 5, []byte("five"))
	insertInt64Leaf(t, n, 1, []byte("one"))

	if err := pool.Sync(); err != nil {
		t.Fatal(err)
	}
	if err := pool.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenPool(path, 4096, 2, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	reread := page.New[int64, []byte](reopened.Page(0), cfg, reg, page.OrderedComparator[int64]())
	if err := reread.BeginRead(); err != nil {
		t.Fatal(err)
	}
	defer reread.EndRead()

	if got := reread.GetSize(); got != 2 {
		t.Fatalf("GetSize() after reopen = %d, want 2", got)
	}
	if got := reread.KeyAt(0); got != 1 {
		t.Fatalf("KeyAt(0) after reopen = %d, want 1", got)
	}
	if got := string(reread.ValueAt(0)); got != "one" {
		t.Fatalf("ValueAt(0) after reopen = %q, want %q", got, "one")
	}
	if got := reread.KeyAt(1); got != 5 {
		t.Fatalf("KeyAt(1) after reopen = %d, want 5", got)
	}
	if got := string(reread.ValueAt(1)); got != "five" {
		t.Fatalf("ValueAt(1) after reopen = %q, want %q", got, "five")
	}
}
