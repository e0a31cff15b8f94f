package page

// Fixed header field offsets, in the order spec.md §3 lists them. Every
// node's header occupies exactly headerSize bytes, whether or not a given
// field is meaningful for that node (a leaf's leftPointer, for instance,
// is simply never read — invariant 6).
const (
	offFreeDataPosition = 0  // u32
	offFlags            = 4  // u32
	offSize             = 8  // u32
	offTreeSize         = 12 // u64
	offLeftPointer      = 20 // u64
	offMarkerCount      = 28 // u32
	offLeftSibling      = 32 // u64
	offRightSibling     = 40 // u64

	headerSize = 48
)

// flags bitfield layout.
const (
	flagLeaf            uint32 = 1 << 0
	flagContinuedFrom   uint32 = 1 << 1
	flagContinuedTo     uint32 = 1 << 2
	flagHasRecordFlags  uint32 = 1 << 3
	flagExtension       uint32 = 1 << 15
	encodersVersionShift        = 24
	encodersVersionMask  uint32 = 0xFF << encodersVersionShift
)

// recordFlags bits (the optional per-slot flags byte).
const recordFlagTombstone byte = 1 << 0

// headerField identifies one lazily-loaded, individually-dirtied header
// field. Bits double as both the "loaded" and "dirty" bitmask per spec
// §4.9: flags and size are loaded eagerly on every beginRead/beginWrite,
// the rest load on first access.
type headerField uint8

const (
	fieldFreeDataPosition headerField = 1 << iota
	fieldFlags
	fieldSize
	fieldTreeSize
	fieldLeftPointer
	fieldMarkerCount
	fieldLeftSibling
	fieldRightSibling
)

const allHeaderFields = fieldFreeDataPosition | fieldFlags | fieldSize | fieldTreeSize |
	fieldLeftPointer | fieldMarkerCount | fieldLeftSibling | fieldRightSibling

// header is the typed, cached view over the page's fixed-offset fields.
// Values are read from the Buffer on first access and cached; setters mark
// the field dirty so that a write session's endWrite only writes back
// fields that actually changed.
type header struct {
	loaded headerField
	dirty  headerField

	freeDataPosition uint32
	flags            uint32
	size             uint32
	treeSize         uint64
	leftPointer      uint64
	markerCount      uint32
	leftSibling      uint64
	rightSibling     uint64
}

func (h *header) reset() {
	h.loaded = 0
	h.dirty = 0
}

func (h *header) has(f headerField) bool { return h.loaded&f != 0 }
func (h *header) markLoaded(f headerField) { h.loaded |= f }
func (h *header) markDirty(f headerField)  { h.dirty |= f; h.loaded |= f }

// loadEager reads the two fields every latch session loads up front.
func (h *header) loadEager(buf Buffer) {
	h.flags = buf.GetIntValue(offFlags)
	h.size = buf.GetIntValue(offSize)
	h.markLoaded(fieldFlags | fieldSize)
}

func (h *header) getFreeDataPosition(buf Buffer) uint32 {
	if !h.has(fieldFreeDataPosition) {
		h.freeDataPosition = buf.GetIntValue(offFreeDataPosition)
		h.markLoaded(fieldFreeDataPosition)
	}
	return h.freeDataPosition
}

func (h *header) setFreeDataPosition(v uint32) {
	h.freeDataPosition = v
	h.markDirty(fieldFreeDataPosition)
}

func (h *header) getFlags() uint32 { return h.flags }

func (h *header) setFlags(v uint32) {
	h.flags = v
	h.markDirty(fieldFlags)
}

func (h *header) getSize() uint32 { return h.size }

func (h *header) setSize(v uint32) {
	h.size = v
	h.markDirty(fieldSize)
}

func (h *header) getTreeSize(buf Buffer) uint64 {
	if !h.has(fieldTreeSize) {
		h.treeSize = buf.GetLongValue(offTreeSize)
		h.markLoaded(fieldTreeSize)
	}
	return h.treeSize
}

func (h *header) setTreeSize(v uint64) {
	h.treeSize = v
	h.markDirty(fieldTreeSize)
}

func (h *header) getLeftPointer(buf Buffer) uint64 {
	if !h.has(fieldLeftPointer) {
		h.leftPointer = buf.GetLongValue(offLeftPointer)
		h.markLoaded(fieldLeftPointer)
	}
	return h.leftPointer
}

func (h *header) setLeftPointer(v uint64) {
	h.leftPointer = v
	h.markDirty(fieldLeftPointer)
}

func (h *header) getMarkerCount(buf Buffer) uint32 {
	if !h.has(fieldMarkerCount) {
		h.markerCount = buf.GetIntValue(offMarkerCount)
		h.markLoaded(fieldMarkerCount)
	}
	return h.markerCount
}

func (h *header) setMarkerCount(v uint32) {
	h.markerCount = v
	h.markDirty(fieldMarkerCount)
}

func (h *header) getLeftSibling(buf Buffer) uint64 {
	if !h.has(fieldLeftSibling) {
		h.leftSibling = buf.GetLongValue(offLeftSibling)
		h.markLoaded(fieldLeftSibling)
	}
	return h.leftSibling
}

func (h *header) setLeftSibling(v uint64) {
	h.leftSibling = v
	h.markDirty(fieldLeftSibling)
}

func (h *header) getRightSibling(buf Buffer) uint64 {
	if !h.has(fieldRightSibling) {
		h.rightSibling = buf.GetLongValue(offRightSibling)
		h.markLoaded(fieldRightSibling)
	}
	return h.rightSibling
}

func (h *header) setRightSibling(v uint64) {
	h.rightSibling = v
	h.markDirty(fieldRightSibling)
}

// flushDirty writes back only the fields marked dirty since the last
// reset, per spec §4.9 ("endWrite writes back only dirty header fields").
func (h *header) flushDirty(buf Buffer) {
	if h.dirty&fieldFreeDataPosition != 0 {
		buf.SetIntValue(offFreeDataPosition, h.freeDataPosition)
	}
	if h.dirty&fieldFlags != 0 {
		buf.SetIntValue(offFlags, h.flags)
	}
	if h.dirty&fieldSize != 0 {
		buf.SetIntValue(offSize, h.size)
	}
	if h.dirty&fieldTreeSize != 0 {
		buf.SetLongValue(offTreeSize, h.treeSize)
	}
	if h.dirty&fieldLeftPointer != 0 {
		buf.SetLongValue(offLeftPointer, h.leftPointer)
	}
	if h.dirty&fieldMarkerCount != 0 {
		buf.SetIntValue(offMarkerCount, h.markerCount)
	}
	if h.dirty&fieldLeftSibling != 0 {
		buf.SetLongValue(offLeftSibling, h.leftSibling)
	}
	if h.dirty&fieldRightSibling != 0 {
		buf.SetLongValue(offRightSibling, h.rightSibling)
	}
	h.dirty = 0
}
