package ministore

// CompareKeys implements ReFS's right-to-left key comparison: keys of equal
// length are compared starting at the highest byte index and working down,
// matching little-endian numeric ordering when a key is a LE integer. A
// dedicated comparator is required here — a natural-order byte.Compare would
// silently produce the wrong ordering.
//
// Keys of differing length are compared by length first (shorter sorts
// first), before any byte is compared.
func CompareKeys(a, b []byte) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
