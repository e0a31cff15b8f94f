package page_test

import (
	"testing"
)

// TestDeleteMiddleOutOfLineValueCompactsHeap deletes a record whose blob
// sits in the middle of the data heap and checks the surviving out-of-line
// blobs are still readable afterward — i.e. deleteData's offset rewrite
// kept every remaining slot pointing at the right bytes once the heap
// compacted around the freed range.
func TestDeleteMiddleOutOfLineValueCompactsHeap(t *testing.T) {
	n := newLeaf(t, smallCfg())

	insertLeaf(t, n, 1, []byte("first-out-of-line-value"))
	insertLeaf(t, n, 2, []byte("second-out-of-line-value"))
	insertLeaf(t, n, 3, []byte("third-out-of-line-value"))

	if err := n.BeginWrite(); err != nil {
		t.Fatal(err)
	}
	idx := n.IndexOf(int64(2))
	ks := n.KeySizeAt(idx)
	vs := n.ValueSizeAt(idx, false)
	if err := n.Delete(idx, ks, vs); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := n.EndWrite(); err != nil {
		t.Fatal(err)
	}

	if err := n.BeginRead(); err != nil {
		t.Fatal(err)
	}
	defer n.EndRead()

	if got := n.GetSize(); got != 2 {
		t.Fatalf("GetSize() = %d, want 2", got)
	}
	if got := string(n.ValueAt(0)); got != "first-out-of-line-value" {
		t.Fatalf("ValueAt(0) = %q, want %q", got, "first-out-of-line-value")
	}
	if got := string(n.ValueAt(1)); got != "third-out-of-line-value" {
		t.Fatalf("ValueAt(1) = %q, want %q", got, "third-out-of-line-value")
	}
}
