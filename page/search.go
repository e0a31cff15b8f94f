package page

// IndexOf runs a lower-bound binary search for key over [0, GetSize()),
// per spec §4.1. A hit returns the matching index (>= 0); a miss returns
// -(insertionPoint+1), where insertionPoint is where key belongs.
func (n *Node[K, V]) IndexOf(key K) int {
	lo, hi := 0, n.GetSize()
	for lo < hi {
		mid := (lo + hi) / 2
		c := n.cmp(n.KeyAt(mid), key)
		switch {
		case c == 0:
			return mid
		case c < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return ToInsertionPoint(lo)
}

// PointerAt resolves a search result to the child pointer a lookup should
// follow (internal nodes only, spec §4.1):
//   - a hit returns the child pointer stored at that index;
//   - a miss at insertion point 0 returns leftPointer;
//   - any other miss returns the pointer of the entry just before the
//     insertion point.
func (n *Node[K, V]) PointerAt(searchResult int) (uint64, error) {
	if n.IsLeaf() {
		return 0, newError(KindInvariantViolation, "pointerAt called on a leaf")
	}
	if !IsInsertionPoint(searchResult) {
		return n.readPointer(searchResult), nil
	}
	idx := ToIndex(searchResult)
	if idx == 0 {
		return n.hdr.getLeftPointer(n.buf), nil
	}
	return n.readPointer(idx - 1), nil
}
