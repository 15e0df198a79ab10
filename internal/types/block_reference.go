package types

// ChecksumType identifies how a block reference's checksum bytes are
// interpreted. Verification of the checksum itself is a non-goal; the type
// and bytes are parsed and surfaced only.
type ChecksumType uint8

const (
	ChecksumTypeCRC   ChecksumType = 1
	ChecksumTypeOther ChecksumType = 2
)

// Valid reports whether the checksum type is one of the two recognized values.
func (c ChecksumType) Valid() bool { return c == ChecksumTypeCRC || c == ChecksumTypeOther }

// BlockReferenceSizeV1 is the fixed-layout size of a v1 block reference,
// excluding any trailing checksum data.
const BlockReferenceSizeV1 = 16

// BlockReferenceSizeV3 is the fixed-layout size of a v3 block reference,
// excluding any trailing checksum data.
const BlockReferenceSizeV3 = 40

// BlockReference locates a metadata block elsewhere on the volume, plus its
// checksum metadata. v1 carries a single block number; v3 carries the
// primary plus three mirror copies, which must be either all zero or
// consecutive after the primary.
type BlockReference struct {
	Version FormatVersion

	// BlockNumbers holds the primary block number in [0] and, for v3, the
	// three mirror copies in [1:4]. v1 leaves [1:4] zero.
	BlockNumbers [4]uint64

	ChecksumType       ChecksumType
	ChecksumDataOffset uint8
	ChecksumDataSize   uint16
	ChecksumData       []byte
}

// Primary returns the block reference's primary block number.
func (r BlockReference) Primary() uint64 { return r.BlockNumbers[0] }

// MirrorsConsistent validates the v3 invariant that block numbers 2-4 are
// either all zero or strictly consecutive after the primary. It always
// returns true for v1 references.
func (r BlockReference) MirrorsConsistent() bool {
	if r.Version.IsV1() {
		return true
	}
	allZero := r.BlockNumbers[1] == 0 && r.BlockNumbers[2] == 0 && r.BlockNumbers[3] == 0
	if allZero {
		return true
	}
	return r.BlockNumbers[1] == r.BlockNumbers[0]+1 &&
		r.BlockNumbers[2] == r.BlockNumbers[0]+2 &&
		r.BlockNumbers[3] == r.BlockNumbers[0]+3
}

// EncodedSize returns the total number of bytes this reference occupies on
// disk: its fixed-layout size plus any trailing checksum data.
func (r BlockReference) EncodedSize() int {
	fixed := BlockReferenceSizeV1
	if r.Version.IsV3() {
		fixed = BlockReferenceSizeV3
	}
	return fixed + int(r.ChecksumDataSize)
}

// MirrorBlockCount returns how many copies of the referenced block this
// reference names (the primary plus any mirrors): 1 for v1, and 1 or 4 for
// v3 depending on whether mirrors are present.
func (r BlockReference) MirrorBlockCount() int {
	if r.Version.IsV1() {
		return 1
	}
	if r.BlockNumbers[1] == 0 && r.BlockNumbers[2] == 0 && r.BlockNumbers[3] == 0 {
		return 1
	}
	return 4
}
