// Package metadata decodes the per-block metadata-block header and the
// block-reference structure shared by every higher layer (superblocks,
// checkpoints, ministore nodes). Grounded on the teacher's
// apfs/pkg/container/container.go ReadNXSuperblock, which decodes a
// fixed-layout on-disk struct field-by-field with binary.LittleEndian.
package metadata

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-refs/internal/refserrors"
	"github.com/deploymenttheory/go-refs/internal/types"
)

// DecodeHeader decodes a metadata block header from data, dispatching on
// version.Major. expectedSignature is ignored for v1 (which carries no
// signature) and validated against data's signature for v3.
func DecodeHeader(data []byte, version types.FormatVersion, expectedSignature string) (*types.MetadataBlockHeader, error) {
	if version.IsV1() {
		return decodeHeaderV1(data, version)
	}
	return decodeHeaderV3(data, version, expectedSignature)
}

func decodeHeaderV1(data []byte, version types.FormatVersion) (*types.MetadataBlockHeader, error) {
	if len(data) < types.MetadataBlockHeaderSizeV1 {
		return nil, &refserrors.BoundsError{Field: "v1 metadata block header", Value: uint64(len(data)), Limit: types.MetadataBlockHeaderSizeV1}
	}

	h := &types.MetadataBlockHeader{Version: version}
	h.BlockNumber = binary.LittleEndian.Uint64(data[0:8])
	h.SequenceNumber = binary.LittleEndian.Uint64(data[8:16])
	copy(h.ObjectIdentifier[:], data[16:32])
	// data[32:48] is two unknown qwords, read to advance the cursor but not
	// interpreted.

	return h, nil
}

func decodeHeaderV3(data []byte, version types.FormatVersion, expectedSignature string) (*types.MetadataBlockHeader, error) {
	if len(data) < types.MetadataBlockHeaderSizeV3 {
		return nil, &refserrors.BoundsError{Field: "v3 metadata block header", Value: uint64(len(data)), Limit: types.MetadataBlockHeaderSizeV3}
	}

	h := &types.MetadataBlockHeader{Version: version}
	h.Signature = string(data[0:4])
	// data[4:32] is two unknown u32/u64 fields, read but not interpreted.
	h.BlockNumber = binary.LittleEndian.Uint64(data[32:40])
	h.MirrorBlockNumbers[0] = binary.LittleEndian.Uint64(data[40:48])
	h.MirrorBlockNumbers[1] = binary.LittleEndian.Uint64(data[48:56])
	h.MirrorBlockNumbers[2] = binary.LittleEndian.Uint64(data[56:64])
	// data[64:80] is two more unknown qwords.

	if expectedSignature != "" && h.Signature != expectedSignature {
		return nil, &refserrors.SignatureError{Expected: expectedSignature, Got: h.Signature}
	}
	if !h.MirrorsConsistent() {
		return nil, &refserrors.FormatError{Context: "v3 mirror block numbers are neither zero nor consecutive"}
	}

	return h, nil
}
