package page

import "golang.org/x/exp/constraints"

// Comparator orders two keys the way a node's slot array is sorted by.
// Negative means a < b, zero means equal, positive means a > b.
type Comparator[T any] func(a, b T) int

// OrderedComparator builds a Comparator for any key type with a natural
// total order (integers, floats, strings), using golang.org/x/exp's
// constraints.Ordered. Callers whose K does not satisfy Ordered (e.g. raw
// []byte keys, which compare with bytes.Compare) supply their own
// Comparator instead — see BytesComparator.
func OrderedComparator[T constraints.Ordered]() Comparator[T] {
	return func(a, b T) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

// BytesComparator is the default comparator hook for []byte keys:
// lexicographic byte order, matching spec.md's "default comparator hook"
// and the ordering every byte-sorted B+-tree in the retrieval pack (gdbx,
// bbolt, blink-tree) assumes.
func BytesComparator() Comparator[[]byte] {
	return func(a, b []byte) int {
		la, lb := len(a), len(b)
		n := la
		if lb < n {
			n = lb
		}
		for i := 0; i < n; i++ {
			if a[i] != b[i] {
				if a[i] < b[i] {
					return -1
				}
				return 1
			}
		}
		switch {
		case la < lb:
			return -1
		case la > lb:
			return 1
		default:
			return 0
		}
	}
}

// Search-result sign convention (spec §4.1): a non-negative result is a
// hit index; a negative result encodes a miss as -(insertionPoint+1).

// IsInsertionPoint reports whether a search result denotes a miss.
func IsInsertionPoint(searchResult int) bool { return searchResult < 0 }

// ToIndex decodes a miss search result into its insertion point.
func ToIndex(searchResult int) int {
	return -searchResult - 1
}

// ToInsertionPoint encodes an insertion point as a miss search result.
func ToInsertionPoint(index int) int {
	return -(index + 1)
}

// ToMinusOneBasedIndex collapses a search result — hit or miss — to "the
// largest index whose key is <= the searched key", or -1 if there is none.
func ToMinusOneBasedIndex(searchResult int) int {
	if !IsInsertionPoint(searchResult) {
		return searchResult
	}
	return ToIndex(searchResult) - 1
}
