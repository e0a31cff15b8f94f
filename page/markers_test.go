package page_test

import (
	"testing"

	"github.com/coldwave-db/sebtree/page"
	"github.com/coldwave-db/sebtree/pagebuf"
)

func newInternal(t *testing.T, cfg page.Config) *page.Node[int64, struct{}] {
	t.Helper()
	reg := page.Int64Registry[struct{}](nil)
	buf := pagebuf.NewBuf(0, int(cfg.PageSize))
	n := page.New[int64, struct{}](buf, cfg, reg, page.OrderedComparator[int64]())
	n.BeginCreate()
	n.Create(false)
	if err := n.EndWrite(); err != nil {
		t.Fatalf("endWrite after create: %v", err)
	}
	return n
}

func insertPointer(t *testing.T, n *page.Node[int64, struct{}], index int, key int64, child uint64) {
	t.Helper()
	if err := n.BeginWrite(); err != nil {
		t.Fatal(err)
	}
	ks := n.EncodedKeySize(key)
	if err := n.InsertPointer(index, key, ks, child); err != nil {
		t.Fatalf("insertPointer(%d): %v", index, err)
	}
	if err := n.EndWrite(); err != nil {
		t.Fatal(err)
	}
}

// TestMarkerReindexOnInsertPointer inserts a new pointer ahead of an
// existing marker and checks every marker at or after the insertion point
// shifts its PointerIndex up by one, while earlier markers are untouched.
func TestMarkerReindexOnInsertPointer(t *testing.T) {
	cfg := smallCfg()
	n := newInternal(t, cfg)

	insertPointer(t, n, 0, 10, 100)
	insertPointer(t, n, 1, 20, 200)
	insertPointer(t, n, 2, 30, 300)

	if err := n.BeginWrite(); err != nil {
		t.Fatal(err)
	}
	if err := n.InsertMarker(0, 0, 1000, 1); err != nil {
		t.Fatal(err)
	}
	if err := n.InsertMarker(1, 2, 2000, 1); err != nil {
		t.Fatal(err)
	}
	if err := n.EndWrite(); err != nil {
		t.Fatal(err)
	}

	// Insert a new pointer at index 1 (between keys 10 and 20): every
	// marker whose PointerIndex was >= 1 should shift to +1.
	insertPointer(t, n, 1, 15, 150)

	if err := n.BeginRead(); err != nil {
		t.Fatal(err)
	}
	defer n.EndRead()

	if got := n.MarkerCount(); got != 2 {
		t.Fatalf("MarkerCount() = %d, want 2", got)
	}
	m0 := n.MarkerAt(0)
	if m0.PointerIndex != 0 {
		t.Fatalf("marker 0 PointerIndex = %d, want 0 (untouched)", m0.PointerIndex)
	}
	m1 := n.MarkerAt(1)
	if m1.PointerIndex != 3 {
		t.Fatalf("marker 1 PointerIndex = %d, want 3 (shifted from 2)", m1.PointerIndex)
	}
}

func TestMarkerForPointerAtAndNearestMarker(t *testing.T) {
	cfg := smallCfg()
	n := newInternal(t, cfg)
	for i, k := range []int64{10, 20, 30, 40} {
		insertPointer(t, n, i, k, uint64(i*100))
	}

	if err := n.BeginWrite(); err != nil {
		t.Fatal(err)
	}
	if err := n.InsertMarker(0, 1, 11, 1); err != nil {
		t.Fatal(err)
	}
	if err := n.InsertMarker(1, 3, 33, 1); err != nil {
		t.Fatal(err)
	}
	if err := n.EndWrite(); err != nil {
		t.Fatal(err)
	}

	if err := n.BeginRead(); err != nil {
		t.Fatal(err)
	}
	defer n.EndRead()

	if _, ok := n.MarkerForPointerAt(2); ok {
		t.Fatalf("MarkerForPointerAt(2) should miss: no marker at pointer 2")
	}
	m, ok := n.MarkerForPointerAt(3)
	if !ok || m.BlockIndex != 33 {
		t.Fatalf("MarkerForPointerAt(3) = %+v, %v, want BlockIndex 33", m, ok)
	}

	nearest := n.NearestMarker(page.ToInsertionPoint(2))
	if nearest.PointerIndex != 1 {
		t.Fatalf("NearestMarker before pointer 2 = %d, want 1", nearest.PointerIndex)
	}
}
