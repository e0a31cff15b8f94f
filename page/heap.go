package page

// allocateData reserves length bytes at the tail of the data heap and
// returns the new freeDataPosition (the start of the newly reserved
// range), per spec §4.2 step 3: "allocate keySize bytes at the tail of the
// heap (freeDataPosition -= keySize)".
func (n *Node[K, V]) allocateData(length int) int {
	pos := n.GetFreeDataPosition() - length
	n.hdr.setFreeDataPosition(uint32(pos))
	return pos
}

// deleteData frees the blob at [blobPos, blobPos+length) by compacting the
// heap: if the blob is not already at the heap's current top (freePos),
// the bytes between freePos and blobPos slide up by length, and every live
// slot's key/value offset that pointed below blobPos is bumped by length
// to track the slide. Returns the new freeDataPosition (spec §4.4).
//
// This is O(size) — every slot may need its offset rewritten — which is
// deliberate (spec §9): a node is small, and keeping the heap compact
// keeps invariant 3 (no overlapping blobs) and invariant 2 (free-data
// lower bound) tight without a generic allocator.
func (n *Node[K, V]) deleteData(freePos, blobPos, length int) int {
	if blobPos > freePos {
		n.buf.MoveData(freePos, freePos+length, blobPos-freePos)
		n.shiftOffsetsBelow(blobPos, length)
	}
	return freePos + length
}

// shiftOffsetsBelow adds delta to every live slot's out-of-line key/value
// offset that is strictly less than threshold, i.e. every offset that
// pointed into the region that just slid up.
func (n *Node[K, V]) shiftOffsetsBelow(threshold, delta int) {
	size := n.GetSize()
	if !n.keysInline {
		for i := 0; i < size; i++ {
			off := n.readKeyOffset(i)
			if off < threshold {
				n.writeKeyOffset(i, uint32(off+delta))
			}
		}
	}
	if n.IsLeaf() && !n.valuesInline {
		for i := 0; i < size; i++ {
			if n.IsTombstoneRecord(i) {
				continue
			}
			off := n.readValueOffset(i)
			if off < threshold {
				n.writeValueOffset(i, uint32(off+delta))
			}
		}
	}
}

// freeBytes returns the bytes currently available between the live
// slot/marker region and the data heap.
func (n *Node[K, V]) freeBytes() int {
	used := RecordsOffset + n.GetSize()*n.recordSize + n.getMarkerCount()*n.markerSize
	return n.GetFreeDataPosition() - used
}

// GetFreeBytes is the exported form of freeBytes, used by callers deciding
// whether a node is close to overflow (spec §8 scenario 5).
func (n *Node[K, V]) GetFreeBytes() int { return n.freeBytes() }
