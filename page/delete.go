package page

// Delete removes the leaf record at index (spec §4.5). keySize/valueSize
// are the record's current encoded sizes (valueSize is ignored when the
// record is already a tombstone). In tombstone mode this only sets the
// tombstone bit and reclaims the value's heap blob, leaving the slot and
// key in place; otherwise it is a hard delete that reclaims both blobs and
// closes the slot gap.
func (n *Node[K, V]) Delete(index int, keySize int, valueSize int) error {
	if !n.IsLeaf() {
		return newError(KindInvariantViolation, "delete called on an internal node")
	}
	if n.HasRecordFlags() {
		return n.tombstoneDelete(index, valueSize)
	}
	return n.hardDelete(index, keySize, valueSize)
}

// tombstoneDelete marks the record at index as deleted without removing
// its slot, reclaiming any out-of-line value blob (invariant 5: a
// tombstone has no live value bytes). A no-op if already a tombstone.
func (n *Node[K, V]) tombstoneDelete(index int, valueSize int) error {
	if n.IsTombstoneRecord(index) {
		return nil
	}
	if !n.valuesInline {
		freePos := n.GetFreeDataPosition()
		off := n.readValueOffset(index)
		freePos = n.deleteData(freePos, off, valueSize)
		n.hdr.setFreeDataPosition(uint32(freePos))
	}
	n.writeRecordFlags(index, recordFlagTombstone)
	return nil
}

// hardDelete reclaims the record's key and (if live) value blobs, closes
// the slot gap, and decrements size.
func (n *Node[K, V]) hardDelete(index int, keySize int, valueSize int) error {
	tomb := n.HasRecordFlags() && n.IsTombstoneRecord(index)
	freePos := n.GetFreeDataPosition()

	if !tomb && !n.valuesInline {
		off := n.readValueOffset(index)
		freePos = n.deleteData(freePos, off, valueSize)
	}
	if !n.keysInline {
		off := n.readKeyOffset(index)
		freePos = n.deleteData(freePos, off, keySize)
	}
	n.hdr.setFreeDataPosition(uint32(freePos))

	n.shiftSlotsAndMarkersLeft(index)
	n.hdr.setSize(uint32(n.GetSize() - 1))
	return nil
}
