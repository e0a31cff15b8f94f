package page

// latchState tracks which half of a begin/end pair a Node session is in,
// so endRead/endWrite can detect a protocol misuse (spec §5, §7).
type latchState uint8

const (
	latchNone latchState = iota
	latchRead
	latchWrite
)

// Node is a page node of an SEB-tree: a single fixed-size Buffer holding
// either a leaf (sorted key/value records) or an internal node (sorted
// key/child-pointer records, optionally annotated with markers). Leaf vs.
// internal is a tag bit in the header's flags, not a separate Go type —
// per spec.md's design note, behavior branches on IsLeaf rather than using
// inheritance. V is the leaf value type; internal nodes are instantiated
// with V = struct{} (or any placeholder — the pointer part is always the
// fixed Uint64Encoder from the registry, never V's encoder).
type Node[K any, V any] struct {
	buf Buffer
	cfg Config
	reg Registry[K, V]
	cmp Comparator[K]

	keyEnc  Encoder[K]
	valEnc  Encoder[V]
	posEnc  Encoder[uint16]
	ptrEnc  Encoder[uint64]
	flagEnc Encoder[byte]

	hdr header

	latch latchState

	// derived layout constants, computed once per latch session by
	// initialize (or forced by create/convertToNonLeaf).
	initialized   bool
	keysInline    bool
	valuesInline  bool
	maxKeyBytes   int
	maxValueBytes int
	recordSize    int
	markerSize    int
}

// New constructs a Node session over buf. It does not acquire any latch;
// call beginRead, beginWrite, or beginCreate before touching the page.
func New[K any, V any](buf Buffer, cfg Config, reg Registry[K, V], cmp Comparator[K]) *Node[K, V] {
	return &Node[K, V]{buf: buf, cfg: cfg, reg: reg, cmp: cmp}
}

const fixedMarkerSize = 2 + 8 + 2 // pointerIndex(u16) + blockIndex(u64) + blockPagesUsed(u16)

// beginRead acquires the page's shared latch and eager-loads flags/size,
// per spec §4.9 and §5.
func (n *Node[K, V]) beginRead() error {
	n.buf.AcquireSharedLock()
	n.latch = latchRead
	n.hdr.reset()
	n.initialized = false
	n.hdr.loadEager(n.buf)
	if err := n.checkEncodersVersion(); err != nil {
		n.buf.ReleaseSharedLock()
		n.latch = latchNone
		return err
	}
	return n.initialize(false)
}

// BeginRead is the exported entry point matching spec §5's beginRead.
func (n *Node[K, V]) BeginRead() error { return n.beginRead() }

// EndRead releases the shared latch. It is a LatchProtocolMisuse to call
// it while any header field is dirty, or without a matching BeginRead.
func (n *Node[K, V]) EndRead() error {
	if n.latch != latchRead {
		return newError(KindLatchProtocolMisuse, "endRead without a matching beginRead")
	}
	if n.hdr.dirty != 0 {
		return newError(KindLatchProtocolMisuse, "endRead called with dirty header fields")
	}
	n.buf.ReleaseSharedLock()
	n.latch = latchNone
	return nil
}

// BeginWrite acquires the page's exclusive latch and eager-loads
// flags/size.
func (n *Node[K, V]) BeginWrite() error {
	n.buf.AcquireExclusiveLock()
	n.latch = latchWrite
	n.hdr.reset()
	n.initialized = false
	n.hdr.loadEager(n.buf)
	if err := n.checkEncodersVersion(); err != nil {
		n.buf.ReleaseExclusiveLock()
		n.latch = latchNone
		return err
	}
	return n.initialize(false)
}

// EndWrite flushes dirty header fields back to the Buffer, then releases
// the exclusive latch.
func (n *Node[K, V]) EndWrite() error {
	if n.latch != latchWrite {
		return newError(KindLatchProtocolMisuse, "endWrite without a matching beginWrite")
	}
	n.hdr.flushDirty(n.buf)
	n.buf.ReleaseExclusiveLock()
	n.latch = latchNone
	return nil
}

// BeginCreate acquires the exclusive latch for a brand new page. Callers
// must follow it with Create or ConvertToNonLeaf and then EndWrite.
func (n *Node[K, V]) BeginCreate() {
	n.buf.AcquireExclusiveLock()
	n.latch = latchWrite
	n.hdr.reset()
}

// checkEncodersVersion enforces invariant 7: the encoder version stamped
// in flags must be one the registry has a key encoder for, since
// initialize reads the page with exactly that version's encoders. A page
// stamped with any version the registry knows is accepted, whatever
// Config.EncodersVersion says; an unknown version is rejected.
// On a genuinely new, all-zero page (flags == 0, no LEAF/version stamped
// yet) the check is skipped — Create is responsible for stamping it.
func (n *Node[K, V]) checkEncodersVersion() error {
	if n.hdr.flags == 0 {
		return nil
	}
	stored := uint8(n.hdr.flags >> encodersVersionShift)
	if _, err := n.reg.Key(stored); err != nil {
		return wrapError(KindInvariantViolation, "page encoder version does not match registry", err)
	}
	return nil
}

// Create initializes a freshly allocated page as either a leaf or an
// internal node, per spec §3 "Lifecycle". Must be called once, under
// BeginCreate, before any other operation.
func (n *Node[K, V]) Create(leaf bool) {
	n.hdr.setFreeDataPosition(n.cfg.PageSize)
	n.hdr.setSize(0)
	n.hdr.setTreeSize(0)
	n.hdr.setLeftPointer(0)
	n.hdr.setMarkerCount(0)
	n.hdr.setLeftSibling(0)
	n.hdr.setRightSibling(0)

	flags := uint32(n.cfg.EncodersVersion) << encodersVersionShift
	if leaf {
		flags |= flagLeaf
		if n.cfg.TombstoneMode {
			flags |= flagHasRecordFlags
		}
	}
	n.hdr.setFlags(flags)

	_ = n.initialize(true)
}

// ConvertToNonLeaf re-initializes a leaf page as an internal node in
// place. Legal only when the node currently holds no records (spec §3).
func (n *Node[K, V]) ConvertToNonLeaf() error {
	if n.hdr.getSize() != 0 {
		return newError(KindInvariantViolation, "convertToNonLeaf requires an empty node")
	}
	flags := n.hdr.getFlags() &^ (flagLeaf | flagHasRecordFlags)
	n.hdr.setFlags(flags)
	n.hdr.setLeftPointer(0)
	n.hdr.setMarkerCount(0)
	return n.initialize(true)
}

// initialize computes the derived layout constants (spec §4.9): whether
// keys/values qualify for inline storage, the fixed record and marker
// sizes. It runs once per latch session unless force is set (Create,
// ConvertToNonLeaf).
func (n *Node[K, V]) initialize(force bool) error {
	if n.initialized && !force {
		return nil
	}

	version := n.EncodersVersion()
	keyEnc, err := n.reg.Key(version)
	if err != nil {
		return wrapError(KindInvariantViolation, "no key encoder for stored version", err)
	}
	n.keyEnc = keyEnc
	n.posEnc = n.reg.Position()
	n.ptrEnc = n.reg.Pointer()
	n.flagEnc = n.reg.Flags()

	n.keysInline = n.keyEnc.IsOfBoundSize() && n.keyEnc.MaximumSize() <= n.cfg.InlineKeyThreshold
	if n.keysInline {
		n.maxKeyBytes = n.keyEnc.MaximumSize()
	} else {
		n.maxKeyBytes = n.posEnc.MaximumSize()
	}

	if n.IsLeaf() {
		valEnc, err := n.reg.Value(version)
		if err != nil {
			return wrapError(KindInvariantViolation, "no value encoder for stored version", err)
		}
		n.valEnc = valEnc
		n.valuesInline = n.valEnc.IsOfBoundSize() && n.valEnc.MaximumSize() <= n.cfg.InlineValueThreshold
		if n.valuesInline {
			n.maxValueBytes = n.valEnc.MaximumSize()
		} else {
			n.maxValueBytes = n.posEnc.MaximumSize()
		}
		flagsPart := 0
		if n.HasRecordFlags() {
			flagsPart = n.flagEnc.MaximumSize()
		}
		n.recordSize = n.maxKeyBytes + n.maxValueBytes + flagsPart
	} else {
		n.valuesInline = false
		n.maxValueBytes = n.ptrEnc.MaximumSize()
		n.recordSize = n.maxKeyBytes + n.maxValueBytes
	}

	n.markerSize = fixedMarkerSize
	n.initialized = true
	return nil
}

// --- accessors (spec §6 "Public node operations (exposed)") ---

func (n *Node[K, V]) IsLeaf() bool { return n.hdr.getFlags()&flagLeaf != 0 }

func (n *Node[K, V]) IsContinuedFrom() bool { return n.hdr.getFlags()&flagContinuedFrom != 0 }
func (n *Node[K, V]) IsContinuedTo() bool   { return n.hdr.getFlags()&flagContinuedTo != 0 }

func (n *Node[K, V]) SetContinuedFrom(v bool) { n.setFlagBit(flagContinuedFrom, v) }
func (n *Node[K, V]) SetContinuedTo(v bool)   { n.setFlagBit(flagContinuedTo, v) }

func (n *Node[K, V]) setFlagBit(bit uint32, v bool) {
	f := n.hdr.getFlags()
	if v {
		f |= bit
	} else {
		f &^= bit
	}
	n.hdr.setFlags(f)
}

// HasRecordFlags reports whether this node's slots carry the optional
// one-byte record-flags field (tombstone bit). Per invariant 6, only
// leaves ever set this.
func (n *Node[K, V]) HasRecordFlags() bool { return n.hdr.getFlags()&flagHasRecordFlags != 0 }

// EncodersVersion returns the encoder-version byte stamped in flags.
func (n *Node[K, V]) EncodersVersion() uint8 {
	return uint8(n.hdr.getFlags() >> encodersVersionShift)
}

func (n *Node[K, V]) GetSize() int { return int(n.hdr.getSize()) }

func (n *Node[K, V]) GetTreeSize() uint64 { return n.hdr.getTreeSize(n.buf) }
func (n *Node[K, V]) SetTreeSize(v uint64) { n.hdr.setTreeSize(v) }

// GetLeftPointer returns the child pointer for keys strictly less than
// keyAt(0). Only valid on internal nodes (invariant 6).
func (n *Node[K, V]) GetLeftPointer() (uint64, error) {
	if n.IsLeaf() {
		return 0, newError(KindInvariantViolation, "getLeftPointer called on a leaf")
	}
	return n.hdr.getLeftPointer(n.buf), nil
}

func (n *Node[K, V]) SetLeftPointer(v uint64) error {
	if n.IsLeaf() {
		return newError(KindInvariantViolation, "setLeftPointer called on a leaf")
	}
	n.hdr.setLeftPointer(v)
	return nil
}

func (n *Node[K, V]) GetLeftSibling() uint64  { return n.hdr.getLeftSibling(n.buf) }
func (n *Node[K, V]) SetLeftSibling(v uint64) { n.hdr.setLeftSibling(v) }
func (n *Node[K, V]) GetRightSibling() uint64  { return n.hdr.getRightSibling(n.buf) }
func (n *Node[K, V]) SetRightSibling(v uint64) { n.hdr.setRightSibling(v) }

func (n *Node[K, V]) GetFreeDataPosition() int { return int(n.hdr.getFreeDataPosition(n.buf)) }

func (n *Node[K, V]) getMarkerCount() int { return int(n.hdr.getMarkerCount(n.buf)) }

// MarkerCount is the exported accessor for the number of markers currently
// stored on an internal node.
func (n *Node[K, V]) MarkerCount() int { return n.getMarkerCount() }

// PageIndex forwards to the underlying Buffer.
func (n *Node[K, V]) PageIndex() uint64 { return n.buf.PageIndex() }
