package page

import (
	"encoding/binary"
)

// Encoder is the contract a node consumes to turn typed keys/values into
// page bytes and back. A node is parameterized by (K, V) encoders supplied
// at construction, not by a runtime type tag (see Node).
type Encoder[T any] interface {
	// Encode writes v at the cursor's current position and advances it by
	// the number of bytes written.
	Encode(v T, c *Cursor)
	// Decode reads a value starting at the cursor's current position and
	// advances it by the number of bytes consumed.
	Decode(c *Cursor) T
	// ExactSizeInStream returns the number of bytes the next Decode at c
	// would consume, without mutating c (it may read ahead via c.Peek /a
	// forked cursor).
	ExactSizeInStream(c *Cursor) int
	// IsOfBoundSize reports whether MaximumSize is meaningful. An encoder
	// that is not of bound size can never be stored inline, regardless of
	// the configured threshold.
	IsOfBoundSize() bool
	// MaximumSize is the largest number of bytes Encode can ever write.
	// Only meaningful when IsOfBoundSize is true.
	MaximumSize() int
}

// Uint16Encoder is the fixed encoder for in-page position offsets.
type Uint16Encoder struct{}

func (Uint16Encoder) Encode(v uint16, c *Cursor)       { c.Write(encodeU16(v)) }
func (Uint16Encoder) Decode(c *Cursor) uint16           { return getUint16(c.Read(2)) }
func (Uint16Encoder) ExactSizeInStream(c *Cursor) int   { return 2 }
func (Uint16Encoder) IsOfBoundSize() bool               { return true }
func (Uint16Encoder) MaximumSize() int                  { return 2 }

func encodeU16(v uint16) []byte {
	var b [2]byte
	putUint16(b[:], v)
	return b[:]
}

// Uint64Encoder is the fixed encoder for page indexes / child pointers.
type Uint64Encoder struct{}

func (Uint64Encoder) Encode(v uint64, c *Cursor) {
	var b [8]byte
	putUint64(b[:], v)
	c.Write(b[:])
}
func (Uint64Encoder) Decode(c *Cursor) uint64         { return getUint64(c.Read(8)) }
func (Uint64Encoder) ExactSizeInStream(c *Cursor) int { return 8 }
func (Uint64Encoder) IsOfBoundSize() bool             { return true }
func (Uint64Encoder) MaximumSize() int                { return 8 }

// ByteEncoder is the fixed encoder for the one-byte record-flags field.
type ByteEncoder struct{}

func (ByteEncoder) Encode(v byte, c *Cursor)       { c.Write([]byte{v}) }
func (ByteEncoder) Decode(c *Cursor) byte           { return c.Read(1)[0] }
func (ByteEncoder) ExactSizeInStream(c *Cursor) int { return 1 }
func (ByteEncoder) IsOfBoundSize() bool             { return true }
func (ByteEncoder) MaximumSize() int                { return 1 }

// Int64Encoder is a bounded, fixed-width 8-byte encoder for signed integer
// keys/values (encoder version 0 for int64-keyed nodes): the value with
// its sign bit flipped, written big-endian. That makes the byte-wise order
// of the encoding match numeric order for every int64, negative values
// included, the same property the default comparator in util.go relies on
// for byte-keyed nodes.
type Int64Encoder struct{}

func (Int64Encoder) Encode(v int64, c *Cursor) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v)^(1<<63))
	c.Write(b[:])
}

func (Int64Encoder) Decode(c *Cursor) int64 {
	u := binary.BigEndian.Uint64(c.Read(8))
	return int64(u ^ (1 << 63))
}

func (Int64Encoder) ExactSizeInStream(c *Cursor) int { return 8 }
func (Int64Encoder) IsOfBoundSize() bool             { return true }
func (Int64Encoder) MaximumSize() int                { return 8 }

// VarintInt64Encoder is encoder version 1 for int64 keys: a zigzag varint,
// bounded at 10 bytes (binary.MaxVarintLen64). It gives int64 keys a
// second, genuinely different wire format, selected by the encoder version
// stamped in a page's flags (see Int64KeyVersions and node.go).
type VarintInt64Encoder struct{}

func zigzag(v int64) uint64   { return uint64((v << 1) ^ (v >> 63)) }
func unzigzag(u uint64) int64 { return int64(u>>1) ^ -int64(u&1) }

func (VarintInt64Encoder) Encode(v int64, c *Cursor) {
	var b [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(b[:], zigzag(v))
	c.Write(b[:n])
}

func (VarintInt64Encoder) Decode(c *Cursor) int64 {
	u, n := binary.Uvarint(c.Peek(binary.MaxVarintLen64))
	c.Advance(n)
	return unzigzag(u)
}

func (VarintInt64Encoder) ExactSizeInStream(c *Cursor) int {
	_, n := binary.Uvarint(c.Peek(binary.MaxVarintLen64))
	return n
}

func (VarintInt64Encoder) IsOfBoundSize() bool { return true }
func (VarintInt64Encoder) MaximumSize() int    { return binary.MaxVarintLen64 }

// BytesEncoder is a bounded, variable-length encoder for []byte with a
// 2-byte length prefix, eligible for inline storage up to MaxLen.
type BytesEncoder struct {
	MaxLen int
}

func (e BytesEncoder) Encode(v []byte, c *Cursor) {
	Uint16Encoder{}.Encode(uint16(len(v)), c)
	c.Write(v)
}

func (e BytesEncoder) Decode(c *Cursor) []byte {
	n := Uint16Encoder{}.Decode(c)
	return append([]byte(nil), c.Read(int(n))...)
}

func (e BytesEncoder) ExactSizeInStream(c *Cursor) int {
	f := c.fork()
	n := Uint16Encoder{}.Decode(f)
	return 2 + int(n)
}

func (e BytesEncoder) IsOfBoundSize() bool { return true }
func (e BytesEncoder) MaximumSize() int    { return 2 + e.MaxLen }

// UnboundedBytesEncoder is the unbounded twin of BytesEncoder: it never
// qualifies for inline storage (IsOfBoundSize is false), so every key or
// value using it always lives in the data heap. It exists to exercise the
// out-of-line storage path deterministically, independent of any
// configured inline threshold.
type UnboundedBytesEncoder struct{}

func (UnboundedBytesEncoder) Encode(v []byte, c *Cursor) { BytesEncoder{}.Encode(v, c) }
func (UnboundedBytesEncoder) Decode(c *Cursor) []byte     { return BytesEncoder{}.Decode(c) }
func (UnboundedBytesEncoder) ExactSizeInStream(c *Cursor) int {
	return BytesEncoder{}.ExactSizeInStream(c)
}
func (UnboundedBytesEncoder) IsOfBoundSize() bool { return false }
func (UnboundedBytesEncoder) MaximumSize() int    { return -1 }

// StringEncoder is a bounded, variable-length encoder for string, sharing
// BytesEncoder's wire format.
type StringEncoder struct {
	MaxLen int
}

func (e StringEncoder) Encode(v string, c *Cursor) { BytesEncoder{MaxLen: e.MaxLen}.Encode([]byte(v), c) }
func (e StringEncoder) Decode(c *Cursor) string {
	return string(BytesEncoder{MaxLen: e.MaxLen}.Decode(c))
}
func (e StringEncoder) ExactSizeInStream(c *Cursor) int {
	return BytesEncoder{MaxLen: e.MaxLen}.ExactSizeInStream(c)
}
func (e StringEncoder) IsOfBoundSize() bool { return true }
func (e StringEncoder) MaximumSize() int    { return 2 + e.MaxLen }
