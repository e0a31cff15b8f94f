package page

// InsertValue inserts a new leaf key/value record at the position implied
// by searchResult (which must be a miss — spec §4.2). keySize/valueSize
// are the encoded byte lengths the caller already computed (typically via
// EncodedKeySize/EncodedValueSize) to run CheckEntrySize/FullEntrySize
// before committing to the insert.
func (n *Node[K, V]) InsertValue(searchResult int, key K, keySize int, value V, valueSize int) error {
	if !n.IsLeaf() {
		return newError(KindInvariantViolation, "insertValue called on an internal node")
	}
	if !IsInsertionPoint(searchResult) {
		return newError(KindInvariantViolation, "insertValue requires a miss search result")
	}
	index := ToIndex(searchResult)
	if !n.DeltaFits(n.FullEntrySize(keySize, valueSize)) {
		return newError(KindInvariantViolation, "insertValue called without enough free space")
	}

	n.shiftSlotsAndMarkersRight(index)

	if err := n.storeKey(index, key, keySize); err != nil {
		return err
	}
	if err := n.storeValue(index, value, valueSize); err != nil {
		return err
	}
	if n.HasRecordFlags() {
		n.writeRecordFlags(index, 0)
	}

	n.hdr.setSize(uint32(n.GetSize() + 1))
	return nil
}

// InsertTombstone inserts a leaf record that carries a key but no value
// (spec §4.2): the value part is left unencoded and the tombstone bit is
// set. Requires HasRecordFlags (tombstone mode) to be enabled.
func (n *Node[K, V]) InsertTombstone(searchResult int, key K, keySize int) error {
	if !n.IsLeaf() {
		return newError(KindInvariantViolation, "insertTombstone called on an internal node")
	}
	if !n.HasRecordFlags() {
		return newError(KindInvariantViolation, "insertTombstone requires tombstone mode")
	}
	if !IsInsertionPoint(searchResult) {
		return newError(KindInvariantViolation, "insertTombstone requires a miss search result")
	}
	index := ToIndex(searchResult)
	if !n.DeltaFits(n.FullTombstoneSize(keySize)) {
		return newError(KindInvariantViolation, "insertTombstone called without enough free space")
	}

	n.shiftSlotsAndMarkersRight(index)
	if err := n.storeKey(index, key, keySize); err != nil {
		return err
	}
	n.writeRecordFlags(index, recordFlagTombstone)

	n.hdr.setSize(uint32(n.GetSize() + 1))
	return nil
}

// InsertPointer inserts a new internal-node key/child-pointer record at
// index, then reindexes every marker whose PointerIndex was >= index
// (spec §4.3).
func (n *Node[K, V]) InsertPointer(index int, key K, keySize int, childPointer uint64) error {
	if n.IsLeaf() {
		return newError(KindInvariantViolation, "insertPointer called on a leaf")
	}
	if !n.DeltaFits(n.FullEntrySize(keySize, 0)) {
		return newError(KindInvariantViolation, "insertPointer called without enough free space")
	}

	n.shiftSlotsAndMarkersRight(index)
	if err := n.storeKey(index, key, keySize); err != nil {
		return err
	}
	n.writePointer(index, childPointer)

	n.hdr.setSize(uint32(n.GetSize() + 1))
	n.reindexMarkersAfterInsert(index)
	return nil
}

// storeKey writes key into slot index's key-part, inline or via a new
// heap allocation (spec §4.2 step 3).
func (n *Node[K, V]) storeKey(index int, key K, keySize int) error {
	if n.keysInline {
		return encodeInPlace(n.buf, n.keyEnc, key, n.keyPartOffset(index), keySize)
	}
	pos := n.allocateData(keySize)
	if err := encodeInPlace(n.buf, n.keyEnc, key, pos, keySize); err != nil {
		return err
	}
	n.writeKeyOffset(index, uint32(pos))
	return nil
}

// storeValue writes value into slot index's value-part, inline or via a
// new heap allocation (spec §4.2 step 4). Leaves only.
func (n *Node[K, V]) storeValue(index int, value V, valueSize int) error {
	if n.valuesInline {
		return encodeInPlace(n.buf, n.valEnc, value, n.valuePartOffset(index), valueSize)
	}
	pos := n.allocateData(valueSize)
	if err := encodeInPlace(n.buf, n.valEnc, value, pos, valueSize); err != nil {
		return err
	}
	n.writeValueOffset(index, uint32(pos))
	return nil
}
