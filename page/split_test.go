package page_test

import (
	"fmt"
	"testing"
)

func TestSplitMovesTailUntilHalfFree(t *testing.T) {
	cfg := smallCfg()
	src := newLeaf(t, cfg)

	// Fill most of the page with fixed-width out-of-line values so the
	// half-free target lands comfortably inside the entry range rather
	// than exhausting every entry before reaching it.
	const n = 180
	for i := 0; i < n; i++ {
		insertLeaf(t, src, int64(i), []byte(fmt.Sprintf("val%05d", i)))
	}

	if err := src.BeginRead(); err != nil {
		t.Fatal(err)
	}
	count := src.CountEntriesToMoveUntilHalfFree()
	half := cfg.HalfSpace()
	freeBefore := src.GetFreeBytes()
	src.EndRead()

	if count <= 0 || count >= n {
		t.Fatalf("CountEntriesToMoveUntilHalfFree() = %d, want something between 1 and %d", count, n-1)
	}

	dest := newLeaf(t, cfg)

	if err := src.BeginWrite(); err != nil {
		t.Fatal(err)
	}
	if err := dest.BeginWrite(); err != nil {
		t.Fatal(err)
	}
	if err := src.MoveTailTo(dest, count); err != nil {
		t.Fatalf("moveTailTo: %v", err)
	}
	if err := src.EndWrite(); err != nil {
		t.Fatal(err)
	}
	if err := dest.EndWrite(); err != nil {
		t.Fatal(err)
	}

	if err := src.BeginRead(); err != nil {
		t.Fatal(err)
	}
	if got := src.GetSize(); got != n-count {
		t.Fatalf("src.GetSize() = %d, want %d", got, n-count)
	}
	if freeAfter := src.GetFreeBytes(); freeAfter < freeBefore {
		t.Fatalf("src.GetFreeBytes() shrank after moving records out: %d < %d", freeAfter, freeBefore)
	}
	if freeAfter := src.GetFreeBytes(); freeAfter < half {
		t.Logf("src.GetFreeBytes() = %d (half target was %d) — split may need another round for very small half targets", freeAfter, half)
	}
	for i := 0; i < src.GetSize(); i++ {
		if i > 0 && src.KeyAt(i-1) >= src.KeyAt(i) {
			t.Fatalf("src not sorted at %d: %d >= %d", i, src.KeyAt(i-1), src.KeyAt(i))
		}
	}
	src.EndRead()

	if err := dest.BeginRead(); err != nil {
		t.Fatal(err)
	}
	defer dest.EndRead()
	if got := dest.GetSize(); got != count {
		t.Fatalf("dest.GetSize() = %d, want %d", got, count)
	}
	for i := 0; i < dest.GetSize(); i++ {
		if i > 0 && dest.KeyAt(i-1) >= dest.KeyAt(i) {
			t.Fatalf("dest not sorted at %d", i)
		}
		if int(dest.KeyAt(i)) != n-count+i {
			t.Fatalf("dest.KeyAt(%d) = %d, want %d", i, dest.KeyAt(i), n-count+i)
		}
	}
}

// TestMoveTailToRelocatesRetainedMarkers covers the internal-node branch of
// MoveTailTo: markers that stay behind in the source must still decode
// correctly after the slot array shrinks and markerRegionStart moves down.
func TestMoveTailToRelocatesRetainedMarkers(t *testing.T) {
	cfg := smallCfg()
	src := newInternal(t, cfg)

	keys := []int64{10, 20, 30, 40}
	for i, k := range keys {
		insertPointer(t, src, i, k, uint64(i*100))
	}

	if err := src.BeginWrite(); err != nil {
		t.Fatal(err)
	}
	// marker 0 covers pointer index 0, marker 1 covers pointer index 3 —
	// only marker 1 should move when the tail (index 3) is split off.
	if err := src.InsertMarker(0, 0, 1000, 1); err != nil {
		t.Fatal(err)
	}
	if err := src.InsertMarker(1, 3, 2000, 1); err != nil {
		t.Fatal(err)
	}
	if err := src.EndWrite(); err != nil {
		t.Fatal(err)
	}

	dest := newInternal(t, cfg)
	if err := src.BeginWrite(); err != nil {
		t.Fatal(err)
	}
	if err := dest.BeginWrite(); err != nil {
		t.Fatal(err)
	}
	if err := src.MoveTailTo(dest, 1); err != nil {
		t.Fatalf("moveTailTo: %v", err)
	}
	if err := src.EndWrite(); err != nil {
		t.Fatal(err)
	}
	if err := dest.EndWrite(); err != nil {
		t.Fatal(err)
	}

	if err := src.BeginRead(); err != nil {
		t.Fatal(err)
	}
	defer src.EndRead()

	if got := src.GetSize(); got != 3 {
		t.Fatalf("src.GetSize() = %d, want 3", got)
	}
	if got := src.MarkerCount(); got != 1 {
		t.Fatalf("src.MarkerCount() = %d, want 1", got)
	}
	m0 := src.MarkerAt(0)
	if m0.PointerIndex != 0 || m0.BlockIndex != 1000 {
		t.Fatalf("src marker 0 = %+v, want PointerIndex 0, BlockIndex 1000 (must survive the split intact)", m0)
	}

	if err := dest.BeginRead(); err != nil {
		t.Fatal(err)
	}
	defer dest.EndRead()
	if got := dest.MarkerCount(); got != 1 {
		t.Fatalf("dest.MarkerCount() = %d, want 1", got)
	}
	dm := dest.MarkerAt(0)
	if dm.PointerIndex != 0 || dm.BlockIndex != 2000 {
		t.Fatalf("dest marker 0 = %+v, want PointerIndex 0, BlockIndex 2000", dm)
	}
}

// TestMoveTailToRejectsMovingMarkerZero checks the §4.7 precondition: a
// count that would carry marker 0 out of the source must be rejected
// before any mutation happens.
func TestMoveTailToRejectsMovingMarkerZero(t *testing.T) {
	cfg := smallCfg()
	src := newInternal(t, cfg)
	for i, k := range []int64{10, 20, 30} {
		insertPointer(t, src, i, k, uint64(i*100))
	}

	if err := src.BeginWrite(); err != nil {
		t.Fatal(err)
	}
	if err := src.InsertMarker(0, 0, 1000, 1); err != nil {
		t.Fatal(err)
	}
	if err := src.EndWrite(); err != nil {
		t.Fatal(err)
	}

	dest := newInternal(t, cfg)
	if err := src.BeginWrite(); err != nil {
		t.Fatal(err)
	}
	if err := dest.BeginWrite(); err != nil {
		t.Fatal(err)
	}
	defer src.EndWrite()
	defer dest.EndWrite()

	if err := src.MoveTailTo(dest, 3); err == nil {
		t.Fatal("MoveTailTo(dest, 3) should reject moving marker 0 out of the source")
	}
}

func TestCloneFromCopiesPageVerbatim(t *testing.T) {
	cfg := smallCfg()
	src := newLeaf(t, cfg)
	insertLeaf(t, src, 1, []byte("a"))
	insertLeaf(t, src, 2, []byte("b"))

	dest := newLeaf(t, cfg)
	dest.BeginWrite()
	dest.CloneFrom(src)
	if err := dest.EndWrite(); err != nil {
		t.Fatal(err)
	}

	if err := dest.BeginRead(); err != nil {
		t.Fatal(err)
	}
	defer dest.EndRead()
	if got := dest.GetSize(); got != 2 {
		t.Fatalf("cloned GetSize() = %d, want 2", got)
	}
	if dest.KeyAt(0) != 1 || dest.KeyAt(1) != 2 {
		t.Fatalf("cloned keys = [%d %d], want [1 2]", dest.KeyAt(0), dest.KeyAt(1))
	}
}
