package types

// Metadata block signatures, recognized only for v3 blocks.
const (
	SignatureSuperblock = "SUPB"
	SignatureCheckpoint = "CHKP"
	SignatureMinistore  = "MSB+"
)

// MetadataBlockHeaderSizeV1 is the fixed size of a v1 metadata block header.
const MetadataBlockHeaderSizeV1 = 48

// MetadataBlockHeaderSizeV3 is the fixed size of a v3 metadata block header.
const MetadataBlockHeaderSizeV3 = 80

// MetadataBlockHeader is the per-block header common to every metadata
// block, decoded from either the 48-byte v1 shape or the 80-byte v3 shape.
type MetadataBlockHeader struct {
	Version FormatVersion

	// BlockNumber is the block's own address (v1 and v3).
	BlockNumber uint64

	// SequenceNumber is populated for v1 blocks only.
	SequenceNumber uint64

	// ObjectIdentifier is populated for v1 blocks only.
	ObjectIdentifier UUID

	// Signature is populated for v3 blocks only: 4 ASCII bytes, one of
	// SignatureSuperblock, SignatureCheckpoint, or SignatureMinistore.
	Signature string

	// MirrorBlockNumbers holds the three v3 mirror copies (blocks 2-4).
	// Left zero for v1.
	MirrorBlockNumbers [3]uint64
}

// MirrorsConsistent validates the v3 invariant that mirror block numbers are
// either all zero or strictly consecutive after BlockNumber. Always true for v1.
func (h MetadataBlockHeader) MirrorsConsistent() bool {
	if h.Version.IsV1() {
		return true
	}
	allZero := h.MirrorBlockNumbers[0] == 0 && h.MirrorBlockNumbers[1] == 0 && h.MirrorBlockNumbers[2] == 0
	if allZero {
		return true
	}
	return h.MirrorBlockNumbers[0] == h.BlockNumber+1 &&
		h.MirrorBlockNumbers[1] == h.BlockNumber+2 &&
		h.MirrorBlockNumbers[2] == h.BlockNumber+3
}

// MatchesRole reports whether a v3 header's signature matches the expected
// role. Always true for v1, which carries no signature.
func (h MetadataBlockHeader) MatchesRole(expected string) bool {
	if h.Version.IsV1() {
		return true
	}
	return h.Signature == expected
}
