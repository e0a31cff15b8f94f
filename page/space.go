package page

// FullEntrySize is the number of data-heap + slot bytes a record of the
// given encoded key/value sizes will consume once inserted (spec §4.8,
// tested by scenario 8: it must equal exactly the drop in GetFreeBytes):
// one full slot, plus the heap blob of each out-of-line part. valueSize
// is ignored on internal nodes, whose child pointer lives in the slot.
func (n *Node[K, V]) FullEntrySize(keySize, valueSize int) int {
	size := n.recordSize
	if !n.keysInline {
		size += keySize
	}
	if n.IsLeaf() && !n.valuesInline {
		size += valueSize
	}
	return size
}

// FullTombstoneSize is the space a tombstone insert of the given key size
// consumes: a full slot, plus the key's heap blob when keys are
// out-of-line (spec §4.8).
func (n *Node[K, V]) FullTombstoneSize(keySize int) int {
	size := n.recordSize
	if !n.keysInline {
		size += keySize
	}
	return size
}

// DeltaFits reports whether `bytes` more space can be carved out of the
// free region without the slot/marker area crossing the data heap (spec
// §4.8).
func (n *Node[K, V]) DeltaFits(bytes int) bool {
	markerRegion := 0
	if !n.IsLeaf() {
		markerRegion = n.getMarkerCount() * n.markerSize
	}
	used := RecordsOffset + n.GetSize()*n.recordSize + markerRegion
	return bytes <= n.GetFreeDataPosition()-used
}

// markerFits reports whether one more marker fits.
func (n *Node[K, V]) markerFits() bool { return n.DeltaFits(n.markerSize) }

// CheckEntrySize fails with KindTooLargeEntry when n exceeds the
// configured MaxEntrySize (spec §4.8, §7).
func (n *Node[K, V]) CheckEntrySize(size int) error {
	if size > n.cfg.MaxEntrySize() {
		return newError(KindTooLargeEntry, "entry exceeds MaxEntrySize")
	}
	return nil
}
