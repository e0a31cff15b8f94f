package page

// Marker annotates a contiguous run of child pointers in an internal node
// with block-allocator metadata (spec §3, §4.6). Markers are stored
// immediately after the last live slot, sorted by PointerIndex.
type Marker struct {
	PointerIndex   uint16
	BlockIndex     uint64
	BlockPagesUsed uint16
}

func (n *Node[K, V]) readMarker(i int) Marker {
	off := n.markerOffsetAt(i)
	c := NewCursor(n.buf.Bytes(), off)
	pi := Uint16Encoder{}.Decode(c)
	bi := Uint64Encoder{}.Decode(c)
	bp := Uint16Encoder{}.Decode(c)
	return Marker{PointerIndex: pi, BlockIndex: bi, BlockPagesUsed: bp}
}

func (n *Node[K, V]) writeMarker(i int, m Marker) {
	off := n.markerOffsetAt(i)
	c := NewCursor(n.buf.Bytes(), off)
	Uint16Encoder{}.Encode(m.PointerIndex, c)
	Uint64Encoder{}.Encode(m.BlockIndex, c)
	Uint16Encoder{}.Encode(m.BlockPagesUsed, c)
}

// MarkerAt decodes marker i (0 <= i < MarkerCount).
func (n *Node[K, V]) MarkerAt(i int) Marker { return n.readMarker(i) }

// MarkerForPointerAt returns the marker whose PointerIndex == j, and true,
// or the zero Marker and false if no such marker exists.
func (n *Node[K, V]) MarkerForPointerAt(j int) (Marker, bool) {
	count := n.getMarkerCount()
	// PointerIndex is sorted and unique (invariant 4); binary search.
	lo, hi := 0, count
	for lo < hi {
		mid := (lo + hi) / 2
		m := n.readMarker(mid)
		switch {
		case int(m.PointerIndex) == j:
			return m, true
		case int(m.PointerIndex) < j:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return Marker{}, false
}

// NearestMarker returns the marker with the largest PointerIndex <= the
// effective index implied by searchResult, clamped to marker 0 when the
// searched position precedes every marker (spec §4.6).
func (n *Node[K, V]) NearestMarker(searchResult int) Marker {
	count := n.getMarkerCount()
	if count == 0 {
		return Marker{}
	}
	effective := ToMinusOneBasedIndex(searchResult)
	lo, hi := 0, count-1
	best := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		m := n.readMarker(mid)
		if int(m.PointerIndex) <= effective {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return n.readMarker(best)
}

// GetLastPointerIndexOfMarkerAt returns the last pointer index covered by
// marker i: size-1 for the last marker, else the next marker's
// PointerIndex - 1 (spec §4.6).
func (n *Node[K, V]) GetLastPointerIndexOfMarkerAt(i int) int {
	count := n.getMarkerCount()
	if i == count-1 {
		return n.GetSize() - 1
	}
	next := n.readMarker(i + 1)
	return int(next.PointerIndex) - 1
}

// shiftMarkersRight shifts markers [from, markerCount) right by one
// marker's worth of bytes, opening a gap at `from`.
func (n *Node[K, V]) shiftMarkersRight(from int) {
	count := n.getMarkerCount()
	tailBytes := (count - from) * n.markerSize
	if tailBytes == 0 {
		return
	}
	src := n.markerOffsetAt(from)
	dst := src + n.markerSize
	n.buf.MoveData(src, dst, tailBytes)
}

// InsertMarker inserts (pointerIndex, blockIndex, blockPagesUsed) at
// marker-array position i, shifting any markers at i..MarkerCount right.
func (n *Node[K, V]) InsertMarker(i int, pointerIndex uint16, blockIndex uint64, blockPagesUsed uint16) error {
	if !n.markerFits() {
		return newError(KindTooLargeEntry, "no room for another marker")
	}
	n.shiftMarkersRight(i)
	n.writeMarker(i, Marker{PointerIndex: pointerIndex, BlockIndex: blockIndex, BlockPagesUsed: blockPagesUsed})
	n.hdr.setMarkerCount(uint32(n.getMarkerCount() + 1))
	return nil
}

// UpdateMarkerBlockIndex overwrites marker i's BlockIndex in place.
func (n *Node[K, V]) UpdateMarkerBlockIndex(i int, blockIndex uint64) {
	m := n.readMarker(i)
	m.BlockIndex = blockIndex
	n.writeMarker(i, m)
}

// UpdateMarkerBlockPagesUsed overwrites marker i's BlockPagesUsed in place.
func (n *Node[K, V]) UpdateMarkerBlockPagesUsed(i int, blockPagesUsed uint16) {
	m := n.readMarker(i)
	m.BlockPagesUsed = blockPagesUsed
	n.writeMarker(i, m)
}

// UpdateMarker overwrites both BlockIndex and BlockPagesUsed for marker i
// in a single seek, for callers updating both at once.
func (n *Node[K, V]) UpdateMarker(i int, blockIndex uint64, blockPagesUsed uint16) {
	m := n.readMarker(i)
	m.BlockIndex = blockIndex
	m.BlockPagesUsed = blockPagesUsed
	n.writeMarker(i, m)
}

// reindexMarkersAfterInsert implements spec §4.3: after InsertPointer at
// `index`, walk markers from the last down to the first, incrementing
// PointerIndex for every marker whose pre-insert PointerIndex was >=
// index, stopping at the first marker below index (markers stay sorted,
// so once one falls below index every earlier one does too).
func (n *Node[K, V]) reindexMarkersAfterInsert(index int) {
	count := n.getMarkerCount()
	for i := count - 1; i >= 0; i-- {
		m := n.readMarker(i)
		if int(m.PointerIndex) < index {
			break
		}
		m.PointerIndex++
		n.writeMarker(i, m)
	}
}

// reindexMarkersAfterDelete mirrors reindexMarkersAfterInsert for the
// removal of the pointer at index (Delete handles leaves only and does not
// call it): every marker whose PointerIndex was > index shifts down by one (a
// marker whose PointerIndex == index is the caller's responsibility to
// have relocated or dropped before deleting the pointer it annotated).
func (n *Node[K, V]) reindexMarkersAfterDelete(index int) {
	count := n.getMarkerCount()
	for i := count - 1; i >= 0; i-- {
		m := n.readMarker(i)
		if int(m.PointerIndex) <= index {
			break
		}
		m.PointerIndex--
		n.writeMarker(i, m)
	}
}
