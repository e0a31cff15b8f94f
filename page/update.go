package page

// UpdateValue overwrites the value stored at slot index (spec §4.4).
// currentValueSize is the encoded size of whatever is there now (0 and
// wasTombstone=true when the slot is currently a tombstone); valueSize is
// the encoded size of the replacement. Out-of-line values are reallocated
// on the heap only if the size changed or the slot was a tombstone;
// otherwise the replacement is re-encoded at the existing offset, leaving
// every byte outside the blob untouched. Clears the tombstone bit when set.
func (n *Node[K, V]) UpdateValue(index int, value V, valueSize int, currentValueSize int, wasTombstone bool) error {
	if !n.IsLeaf() {
		return newError(KindInvariantViolation, "updateValue called on an internal node")
	}

	switch {
	case n.valuesInline:
		if err := encodeInPlace(n.buf, n.valEnc, value, n.valuePartOffset(index), valueSize); err != nil {
			return err
		}
	case wasTombstone || currentValueSize != valueSize:
		if !wasTombstone {
			freePos := n.GetFreeDataPosition()
			off := n.readValueOffset(index)
			freePos = n.deleteData(freePos, off, currentValueSize)
			n.hdr.setFreeDataPosition(uint32(freePos))
		}
		if !n.DeltaFits(valueSize) {
			return newError(KindInvariantViolation, "updateValue called without enough free space")
		}
		pos := n.allocateData(valueSize)
		if err := encodeInPlace(n.buf, n.valEnc, value, pos, valueSize); err != nil {
			return err
		}
		n.writeValueOffset(index, uint32(pos))
	default:
		off := n.readValueOffset(index)
		if err := encodeInPlace(n.buf, n.valEnc, value, off, valueSize); err != nil {
			return err
		}
	}

	if n.HasRecordFlags() && wasTombstone {
		n.writeRecordFlags(index, 0)
	}
	return nil
}
