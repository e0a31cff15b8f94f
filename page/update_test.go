package page_test

import (
	"bytes"
	"testing"

	"github.com/coldwave-db/sebtree/page"
	"github.com/coldwave-db/sebtree/pagebuf"
)

// TestUpdateValueSameSizeReencodesInPlace checks testable property 6: an
// equal-size update to an out-of-line value must not disturb any byte
// outside the value's own blob. It inserts a second record after the one
// being updated so a reallocating update would have to slide that record's
// blob, which this test would catch via the page bytes outside the updated
// blob changing.
func TestUpdateValueSameSizeReencodesInPlace(t *testing.T) {
	cfg := smallCfg()
	buf := pagebuf.NewBuf(0, int(cfg.PageSize))
	n := page.New[int64, []byte](buf, cfg, page.Int64Registry[[]byte](page.UnboundedBytesEncoder{}), page.OrderedComparator[int64]())
	n.BeginCreate()
	n.Create(true)
	if err := n.EndWrite(); err != nil {
		t.Fatal(err)
	}
	insertLeaf(t, n, 10, []byte("aaaaa"))
	insertLeaf(t, n, 20, []byte("bbbbb"))

	if err := n.BeginRead(); err != nil {
		t.Fatal(err)
	}
	freeBefore := n.GetFreeBytes()
	n.EndRead()
	pageBefore := append([]byte(nil), buf.Bytes()...)

	if err := n.BeginWrite(); err != nil {
		t.Fatal(err)
	}
	idx := n.IndexOf(10)
	oldSize := n.ValueSizeAt(idx, false)
	newValue := []byte("zzzzz")
	newSize := n.EncodedValueSize(newValue)
	if oldSize != newSize {
		t.Fatalf("test setup: oldSize %d != newSize %d", oldSize, newSize)
	}
	if err := n.UpdateValue(idx, newValue, newSize, oldSize, false); err != nil {
		t.Fatalf("updateValue: %v", err)
	}
	if err := n.EndWrite(); err != nil {
		t.Fatal(err)
	}

	if err := n.BeginRead(); err != nil {
		t.Fatal(err)
	}
	defer n.EndRead()

	if got := string(n.ValueAt(idx)); got != string(newValue) {
		t.Fatalf("ValueAt(%d) = %q, want %q", idx, got, newValue)
	}
	// The neighboring record's value must be completely untouched: a
	// same-size update that reallocated would have compacted the heap and
	// shifted this blob's offset, even though its bytes would still decode
	// the same and the free-byte count would come out equal. Key 10 was
	// inserted first, so its blob is the top oldSize bytes of the page;
	// every byte below it must be exactly as it was.
	other := n.IndexOf(20)
	if got := string(n.ValueAt(other)); got != "bbbbb" {
		t.Fatalf("neighboring ValueAt(%d) = %q, want %q (unaffected by sibling update)", other, got, "bbbbb")
	}
	if freeAfter := n.GetFreeBytes(); freeAfter != freeBefore {
		t.Fatalf("GetFreeBytes() = %d, want %d unchanged (in-place update must not touch the heap)", freeAfter, freeBefore)
	}
	blobStart := int(cfg.PageSize) - oldSize
	if !bytes.Equal(buf.Bytes()[:blobStart], pageBefore[:blobStart]) {
		t.Fatalf("page bytes outside the updated blob [%d, %d) changed (update must be in place)", blobStart, cfg.PageSize)
	}
}

// TestUpdateValueFromTombstoneAlwaysReallocates checks the wasTombstone
// override: even when the replacement value happens to be the same size a
// same-size update would otherwise reuse in place, reviving a tombstone
// must go through allocateData since the slot had no live blob to reuse.
func TestUpdateValueFromTombstoneAlwaysReallocates(t *testing.T) {
	cfg := smallCfg()
	cfg.TombstoneMode = true
	n := newLeaf(t, cfg)
	insertLeaf(t, n, 10, []byte("aaaaa"))

	if err := n.BeginWrite(); err != nil {
		t.Fatal(err)
	}
	idx := n.IndexOf(10)
	vs := n.ValueSizeAt(idx, false)
	if err := n.Delete(idx, n.KeySizeAt(idx), vs); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !n.IsTombstoneRecord(idx) {
		t.Fatalf("record at %d should be a tombstone before revival", idx)
	}
	newValue := []byte("bbbbb")
	newSize := n.EncodedValueSize(newValue)
	freePosBefore := n.GetFreeDataPosition()
	if err := n.UpdateValue(idx, newValue, newSize, 0, true); err != nil {
		t.Fatalf("updateValue (revive): %v", err)
	}
	if got := n.GetFreeDataPosition(); got != freePosBefore-newSize {
		t.Fatalf("GetFreeDataPosition() after revival = %d, want %d (a fresh blob of %d bytes)", got, freePosBefore-newSize, newSize)
	}
	if err := n.EndWrite(); err != nil {
		t.Fatal(err)
	}

	if err := n.BeginRead(); err != nil {
		t.Fatal(err)
	}
	defer n.EndRead()

	if n.IsTombstoneRecord(idx) {
		t.Fatalf("record at %d should no longer be a tombstone after revival", idx)
	}
	if got := string(n.ValueAt(idx)); got != string(newValue) {
		t.Fatalf("ValueAt(%d) after revival = %q, want %q", idx, got, newValue)
	}
}
