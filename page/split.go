package page

// CountEntriesToMoveUntilHalfFree walks slots from the tail backwards,
// accumulating the bytes each would free, until the freed total reaches
// HalfSpace() or every entry has been counted (spec §4.7 and its Open
// Question: the loop must terminate on bytesFree >= HalfSpace() or
// running out of entries, not on a running total ever reaching zero).
// Returns the number of trailing entries a split should move to the new
// right sibling.
func (n *Node[K, V]) CountEntriesToMoveUntilHalfFree() int {
	half := n.cfg.HalfSpace()
	freed := 0
	i := n.GetSize() - 1
	for freed < half && i >= 0 {
		freed += n.entryFootprint(i)
		i--
	}
	return n.GetSize() - 1 - i
}

// entryFootprint is the full slot+heap footprint of the record at i, the
// same accounting FullEntrySize/FullTombstoneSize use for an insert.
func (n *Node[K, V]) entryFootprint(i int) int {
	keySize := n.KeySizeAt(i)
	if n.IsLeaf() {
		if n.HasRecordFlags() && n.IsTombstoneRecord(i) {
			return n.FullTombstoneSize(keySize)
		}
		return n.FullEntrySize(keySize, n.ValueSizeAt(i, false))
	}
	return n.FullEntrySize(keySize, 0)
}

// MoveTailTo moves the trailing `count` entries (and any markers that
// annotate them) from n to dest, which must be empty (spec §4.7: used by
// split to populate a freshly created right sibling). Entries are
// re-encoded into dest rather than memcopied, since dest's heap offsets
// start from its own freeDataPosition. Marker 0 must never leave the
// source (spec §4.7's Open Question), so a count that would carry it off
// is rejected before anything is moved.
func (n *Node[K, V]) MoveTailTo(dest *Node[K, V], count int) error {
	size := n.GetSize()
	start := size - count
	if start < 0 {
		return newError(KindInvariantViolation, "moveTailTo count exceeds node size")
	}
	if !n.IsLeaf() && n.getMarkerCount() > 0 && int(n.readMarker(0).PointerIndex) >= start {
		return newError(KindInvariantViolation, "moveTailTo would move marker 0 out of the source node")
	}

	for i := start; i < size; i++ {
		key := n.KeyAt(i)
		keySize := n.KeySizeAt(i)

		if n.IsLeaf() {
			tomb := n.HasRecordFlags() && n.IsTombstoneRecord(i)
			sr := dest.IndexOf(key)
			if tomb {
				if err := dest.InsertTombstone(sr, key, keySize); err != nil {
					return err
				}
				continue
			}
			value := n.ValueAt(i)
			valueSize := n.ValueSizeAt(i, false)
			if err := dest.InsertValue(sr, key, keySize, value, valueSize); err != nil {
				return err
			}
			continue
		}

		ptr := n.PointerAtIndex(i)
		if err := dest.InsertPointer(dest.GetSize(), key, keySize, ptr); err != nil {
			return err
		}
	}

	var oldMarkerRegionStart, retained int
	if !n.IsLeaf() {
		// Markers are sorted by PointerIndex, so the ones we keep (every
		// PointerIndex < start) are exactly the prefix of the old marker
		// array — captured here, before the slot-shrink loop below moves
		// markerRegionStart.
		oldMarkerRegionStart = n.markerRegionStart()
		mc := n.getMarkerCount()
		moved := 0
		for i := 0; i < mc; i++ {
			m := n.readMarker(i)
			if int(m.PointerIndex) < start {
				continue
			}
			if err := dest.InsertMarker(dest.getMarkerCount(), m.PointerIndex-uint16(start), m.BlockIndex, m.BlockPagesUsed); err != nil {
				return err
			}
			moved++
		}
		retained = mc - moved
		n.hdr.setMarkerCount(uint32(retained))
	}

	for i := size - 1; i >= start; i-- {
		tomb := n.IsLeaf() && n.HasRecordFlags() && n.IsTombstoneRecord(i)
		valueSize := 0
		if n.IsLeaf() && !tomb {
			valueSize = n.ValueSizeAt(i, false)
		}
		n.removeLastEntry(i, n.KeySizeAt(i), valueSize, tomb)
	}

	// Shrinking size moved markerRegionStart down; the retained markers are
	// still physically sitting at their old offsets and must slide down to
	// follow it, or MarkerAt would read freed slot bytes instead.
	if !n.IsLeaf() && retained > 0 {
		newMarkerRegionStart := n.markerRegionStart()
		if newMarkerRegionStart != oldMarkerRegionStart {
			n.buf.MoveData(oldMarkerRegionStart, newMarkerRegionStart, retained*n.markerSize)
		}
	}
	return nil
}

// removeLastEntry reclaims the heap blobs (if any) for the record at
// index and shrinks size to index, assuming index == GetSize()-1 so no
// slot shift is needed.
func (n *Node[K, V]) removeLastEntry(index, keySize, valueSize int, tomb bool) {
	freePos := n.GetFreeDataPosition()
	if n.IsLeaf() && !tomb && !n.valuesInline {
		off := n.readValueOffset(index)
		freePos = n.deleteData(freePos, off, valueSize)
	}
	if !n.keysInline {
		off := n.readKeyOffset(index)
		freePos = n.deleteData(freePos, off, keySize)
	}
	n.hdr.setFreeDataPosition(uint32(freePos))
	n.hdr.setSize(uint32(index))
}

// CloneFrom overwrites n's entire page with a byte-for-byte copy of
// other's, then reloads the header and derived layout — used when a root
// split demotes the old root into a new left child page (spec §4.7).
func (n *Node[K, V]) CloneFrom(other *Node[K, V]) {
	copy(n.buf.Bytes(), other.buf.Bytes())
	n.hdr.reset()
	n.hdr.loadEager(n.buf)
	n.initialized = false
	_ = n.initialize(true)
}
