package page

// slotAt returns the byte offset of slot i's first byte: the forward-
// growing record array starts at RecordsOffset immediately after the
// header (spec §3, §6).
func (n *Node[K, V]) slotAt(i int) int {
	return RecordsOffset + i*n.recordSize
}

// keyPartOffset / valuePartOffset / flagsOffset locate the three parts of
// slot i, per spec §3's Slot layout: key-part, value-part, optional
// record-flags byte.
func (n *Node[K, V]) keyPartOffset(i int) int { return n.slotAt(i) }

func (n *Node[K, V]) valuePartOffset(i int) int { return n.slotAt(i) + n.maxKeyBytes }

func (n *Node[K, V]) flagsOffset(i int) int {
	return n.slotAt(i) + n.maxKeyBytes + n.maxValueBytes
}

// markerRegionStart is the byte offset immediately after the last live
// slot, where the marker array begins (internal nodes only, spec §2.6).
func (n *Node[K, V]) markerRegionStart() int {
	return n.slotAt(n.GetSize())
}

// markerOffsetAt returns the byte offset of marker i within the marker region.
func (n *Node[K, V]) markerOffsetAt(i int) int {
	return n.markerRegionStart() + i*n.markerSize
}

// shiftSlotsAndMarkersRight shifts the live tail starting at slot index
// `from` (through the end of the marker region) right by one record's
// worth of bytes, to open a gap for an insertion at `from`. Markers sit
// immediately after slots, so they are bulk-shifted along with the tail
// slots (spec §4.2 step 2).
func (n *Node[K, V]) shiftSlotsAndMarkersRight(from int) {
	size := n.GetSize()
	markerBytes := n.getMarkerCount() * n.markerSize
	tailBytes := (size-from)*n.recordSize + markerBytes
	if tailBytes == 0 {
		return
	}
	src := n.slotAt(from)
	dst := src + n.recordSize
	n.buf.MoveData(src, dst, tailBytes)
}

// shiftSlotsAndMarkersLeft is the inverse of shiftSlotsAndMarkersRight,
// used by Delete to close the gap left by removing slot `from`.
func (n *Node[K, V]) shiftSlotsAndMarkersLeft(from int) {
	size := n.GetSize()
	markerBytes := n.getMarkerCount() * n.markerSize
	tailBytes := (size-from-1)*n.recordSize + markerBytes
	if tailBytes == 0 {
		return
	}
	src := n.slotAt(from + 1)
	dst := n.slotAt(from)
	n.buf.MoveData(src, dst, tailBytes)
}

// writeKeyInline encodes key directly into slot i's key-part.
func (n *Node[K, V]) writeKeyInline(i int, key K) {
	c := NewCursor(n.buf.Bytes(), n.keyPartOffset(i))
	n.keyEnc.Encode(key, c)
}

// writeKeyOffset writes a data-heap position pointer into slot i's
// key-part.
func (n *Node[K, V]) writeKeyOffset(i int, pos uint32) {
	c := NewCursor(n.buf.Bytes(), n.keyPartOffset(i))
	n.posEnc.Encode(uint16(pos), c)
}

func (n *Node[K, V]) readKeyOffset(i int) int {
	c := NewCursor(n.buf.Bytes(), n.keyPartOffset(i))
	return int(n.posEnc.Decode(c))
}

func (n *Node[K, V]) writeValueInline(i int, value V) {
	c := NewCursor(n.buf.Bytes(), n.valuePartOffset(i))
	n.valEnc.Encode(value, c)
}

func (n *Node[K, V]) writeValueOffset(i int, pos uint32) {
	c := NewCursor(n.buf.Bytes(), n.valuePartOffset(i))
	n.posEnc.Encode(uint16(pos), c)
}

func (n *Node[K, V]) readValueOffset(i int) int {
	c := NewCursor(n.buf.Bytes(), n.valuePartOffset(i))
	return int(n.posEnc.Decode(c))
}

func (n *Node[K, V]) writePointer(i int, ptr uint64) {
	c := NewCursor(n.buf.Bytes(), n.valuePartOffset(i))
	n.ptrEnc.Encode(ptr, c)
}

func (n *Node[K, V]) readPointer(i int) uint64 {
	c := NewCursor(n.buf.Bytes(), n.valuePartOffset(i))
	return n.ptrEnc.Decode(c)
}

func (n *Node[K, V]) writeRecordFlags(i int, flags byte) {
	if !n.HasRecordFlags() {
		return
	}
	c := NewCursor(n.buf.Bytes(), n.flagsOffset(i))
	n.flagEnc.Encode(flags, c)
}

func (n *Node[K, V]) readRecordFlags(i int) byte {
	if !n.HasRecordFlags() {
		return 0
	}
	c := NewCursor(n.buf.Bytes(), n.flagsOffset(i))
	return n.flagEnc.Decode(c)
}

// IsTombstoneRecord reports whether the slot at i has the tombstone bit
// set. Always false when tombstone mode (HasRecordFlags) is off.
func (n *Node[K, V]) IsTombstoneRecord(i int) bool {
	return n.readRecordFlags(i)&recordFlagTombstone != 0
}

// KeyAt decodes the key stored at slot i, following the out-of-line
// position pointer into the data heap when keys are not inline.
func (n *Node[K, V]) KeyAt(i int) K {
	if n.keysInline {
		c := NewCursor(n.buf.Bytes(), n.keyPartOffset(i))
		return n.keyEnc.Decode(c)
	}
	off := n.readKeyOffset(i)
	c := NewCursor(n.buf.Bytes(), off)
	return n.keyEnc.Decode(c)
}

// ValueAt decodes the value stored at slot i. Only valid on leaves; the
// caller must check IsTombstoneRecord first (a tombstone's value bytes
// are unused, invariant 5).
func (n *Node[K, V]) ValueAt(i int) V {
	if n.valuesInline {
		c := NewCursor(n.buf.Bytes(), n.valuePartOffset(i))
		return n.valEnc.Decode(c)
	}
	off := n.readValueOffset(i)
	c := NewCursor(n.buf.Bytes(), off)
	return n.valEnc.Decode(c)
}

// PointerAtIndex returns the raw child pointer stored at slot i (internal
// nodes only). Use PointerAt (search.go) to resolve a search result
// including the leftPointer case.
func (n *Node[K, V]) PointerAtIndex(i int) uint64 {
	return n.readPointer(i)
}

// KeySizeAt returns the exact encoded byte length of the key at slot i —
// the inline width if inline, or the heap blob's length if out-of-line.
func (n *Node[K, V]) KeySizeAt(i int) int {
	if n.keysInline {
		c := NewCursor(n.buf.Bytes(), n.keyPartOffset(i))
		return n.keyEnc.ExactSizeInStream(c)
	}
	off := n.readKeyOffset(i)
	c := NewCursor(n.buf.Bytes(), off)
	return n.keyEnc.ExactSizeInStream(c)
}

// ValueSizeAt returns the exact encoded byte length of the value at slot
// i. If tombstone is true the record has no live value blob (invariant 5)
// and this returns 0 regardless of storage mode.
func (n *Node[K, V]) ValueSizeAt(i int, tombstone bool) int {
	if tombstone {
		return 0
	}
	if n.valuesInline {
		c := NewCursor(n.buf.Bytes(), n.valuePartOffset(i))
		return n.valEnc.ExactSizeInStream(c)
	}
	off := n.readValueOffset(i)
	c := NewCursor(n.buf.Bytes(), off)
	return n.valEnc.ExactSizeInStream(c)
}
