package page

// Config carries a node's page geometry and storage policy. It is the
// idiomatic Go stand-in for the teacher's Geometry/Size structs
// (compat.go): a plain value type the caller builds once and passes to
// New, rather than a file-backed configuration format (out of scope here —
// the node layer takes its configuration from its caller, the tree layer).
type Config struct {
	// PageSize is the fixed size of the page buffer in bytes.
	PageSize uint32

	// InlineKeyThreshold / InlineValueThreshold bound how large an encoded
	// key/value may be and still be stored inline in the slot, rather than
	// out-of-line in the data heap.
	InlineKeyThreshold int
	InlineValueThreshold int

	// EncodersVersion selects which encoder set (see Registry) a newly
	// created page is stamped with.
	EncodersVersion uint8

	// TombstoneMode enables tombstone-style deletion on leaves: Delete
	// marks a record rather than removing it, and HAS_RECORD_FLAGS is set
	// on Create.
	TombstoneMode bool
}

// RecordsOffset is the fixed byte offset of the slot array, immediately
// following the header (see header.go for the field layout this size
// accounts for).
const RecordsOffset = headerSize

// PageSpace returns the number of bytes available to slots, markers, and
// the data heap combined (everything after the header).
func (c Config) PageSpace() int {
	return int(c.PageSize) - RecordsOffset
}

// MaxEntrySize is MAX_ENTRY_SIZE from spec §3/§8: the largest single entry
// (key+value, plus any out-of-line overhead) a node may ever hold: one
// third of PageSpace, so three maximum-size entries fit in one page.
func (c Config) MaxEntrySize() int {
	return c.PageSpace() / 3
}

// HalfSpace is HALF_SIZE from spec §6: the split driver's target free-byte
// threshold.
func (c Config) HalfSpace() int {
	return c.PageSpace() / 2
}
