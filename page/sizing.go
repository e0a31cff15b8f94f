package page

// EncodedKeySize returns the exact number of bytes Encode(key) will write,
// by doing a throwaway encode into a scratch buffer. Callers use this to
// compute the keySize argument InsertValue/InsertTombstone/InsertPointer
// expect, and to call CheckEntrySize/FullEntrySize before attempting the
// insert — the same precondition-then-act shape spec §4.2 assumes.
func (n *Node[K, V]) EncodedKeySize(key K) int {
	return encodedSize(n.keyEnc, key)
}

// EncodedValueSize is EncodedKeySize's value-side twin (leaves only).
func (n *Node[K, V]) EncodedValueSize(value V) int {
	return encodedSize(n.valEnc, value)
}

func encodedSize[T any](enc Encoder[T], v T) int {
	scratch := make([]byte, scratchCap(enc))
	c := NewCursor(scratch, 0)
	enc.Encode(v, c)
	return c.Position()
}

// scratchCap sizes a throwaway encode buffer: the encoder's own maximum
// when it has one, or a generous default for unbounded encoders (used
// only by tests — real nodes always pick bounded encoders for anything
// that might be encoded into a fixed scratch buffer).
func scratchCap(enc interface{ IsOfBoundSize() bool }) int {
	type maxSizer interface{ MaximumSize() int }
	if ms, ok := enc.(maxSizer); ok && enc.IsOfBoundSize() {
		if m := ms.MaximumSize(); m > 0 {
			return m
		}
	}
	return 1 << 20
}

// encodeInPlace encodes v with enc directly at pos in the page buffer and
// confirms the result is exactly declaredSize bytes, returning
// KindInvariantViolation if not — a defensive check that the caller's
// precomputed size (from EncodedKeySize/EncodedValueSize) still matches
// what Encode actually produces.
func encodeInPlace[T any](buf Buffer, enc Encoder[T], v T, pos, declaredSize int) error {
	c := NewCursor(buf.Bytes(), pos)
	enc.Encode(v, c)
	if c.Position()-pos != declaredSize {
		return newError(KindInvariantViolation, "declared size does not match actual encoded size")
	}
	return nil
}
