package page

// Registry returns, for a given encoder version, the encoders a Node needs:
// one for keys (K), one for values (V), plus the three fixed encoders for
// in-page positions, page/child pointers, and the record-flags byte. The
// version travels in the page's flags field (see header.go); beginRead
// decodes the page with the encoders the registry returns for that
// version and refuses to interpret a page whose version the registry does
// not recognize.
type Registry[K any, V any] interface {
	Key(version uint8) (Encoder[K], error)
	Value(version uint8) (Encoder[V], error)
	Position() Encoder[uint16]
	Pointer() Encoder[uint64]
	Flags() Encoder[byte]
}

// unknownVersionError is returned by a Registry when asked for a version it
// does not recognize.
type unknownVersionError struct{ version uint8 }

func (e *unknownVersionError) Error() string {
	return "page: unknown encoder version"
}

// Simple is a Registry whose value encoder is the same across all
// versions and whose key encoder varies by version through KeyFn. It backs
// every concrete registry this package ships (Int64Registry, BytesRegistry)
// and is exported so callers with their own K can reuse it instead of
// writing a Registry implementation from scratch.
type Simple[K any, V any] struct {
	KeyFn    func(version uint8) (Encoder[K], error)
	ValueEnc Encoder[V]
}

func (s Simple[K, V]) Key(version uint8) (Encoder[K], error) { return s.KeyFn(version) }

func (s Simple[K, V]) Value(version uint8) (Encoder[V], error) {
	if s.ValueEnc == nil {
		var zero Encoder[V]
		return zero, &unknownVersionError{version}
	}
	return s.ValueEnc, nil
}

func (Simple[K, V]) Position() Encoder[uint16] { return Uint16Encoder{} }
func (Simple[K, V]) Pointer() Encoder[uint64]  { return Uint64Encoder{} }
func (Simple[K, V]) Flags() Encoder[byte]      { return ByteEncoder{} }

// Int64KeyVersions is the KeyFn for int64 keys: version 0 is the
// fixed-width big-endian Int64Encoder, version 1 is the zigzag-varint
// VarintInt64Encoder. Two genuinely different wire formats for the same Go
// type; a page is always decoded with the format its stamped version
// names, and any other version is rejected by beginRead (node.go).
func Int64KeyVersions(version uint8) (Encoder[int64], error) {
	switch version {
	case 0:
		return Int64Encoder{}, nil
	case 1:
		return VarintInt64Encoder{}, nil
	default:
		return nil, &unknownVersionError{version}
	}
}

// BytesKeyVersions returns a KeyFn for []byte keys bounded at maxLen:
// version 0 is the bounded BytesEncoder (inline-eligible up to maxLen),
// version 1 is UnboundedBytesEncoder (always out-of-line).
func BytesKeyVersions(maxLen int) func(uint8) (Encoder[[]byte], error) {
	return func(version uint8) (Encoder[[]byte], error) {
		switch version {
		case 0:
			return BytesEncoder{MaxLen: maxLen}, nil
		case 1:
			return UnboundedBytesEncoder{}, nil
		default:
			return nil, &unknownVersionError{version}
		}
	}
}

// Int64Registry serves int64-keyed nodes; V is the leaf value type (unused
// for internal nodes, which only ever encode the fixed uint64 pointer).
func Int64Registry[V any](valueEnc Encoder[V]) Simple[int64, V] {
	return Simple[int64, V]{KeyFn: Int64KeyVersions, ValueEnc: valueEnc}
}

// BytesRegistry serves []byte-keyed nodes the same way.
func BytesRegistry[V any](keyMaxLen int, valueEnc Encoder[V]) Simple[[]byte, V] {
	return Simple[[]byte, V]{KeyFn: BytesKeyVersions(keyMaxLen), ValueEnc: valueEnc}
}
