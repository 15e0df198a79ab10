package metadata

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-refs/internal/refserrors"
	"github.com/deploymenttheory/go-refs/internal/types"
)

// DecodeBlockReference decodes a block reference from data, dispatching on
// version.Major. If data is longer than the fixed-layout size and the
// decoded ChecksumDataSize calls for trailing bytes, those bytes are copied
// into ChecksumData. The checksum itself is never verified — verification is
// an optional, non-required extension.
func DecodeBlockReference(data []byte, version types.FormatVersion) (*types.BlockReference, error) {
	if version.IsV1() {
		return decodeBlockReferenceV1(data)
	}
	return decodeBlockReferenceV3(data)
}

func decodeBlockReferenceV1(data []byte) (*types.BlockReference, error) {
	if len(data) < types.BlockReferenceSizeV1 {
		return nil, &refserrors.BoundsError{Field: "v1 block reference", Value: uint64(len(data)), Limit: types.BlockReferenceSizeV1}
	}

	r := &types.BlockReference{Version: types.FormatVersion{Major: 1}}
	r.BlockNumbers[0] = binary.LittleEndian.Uint64(data[0:8])
	// data[8:10] is an unknown u16.
	r.ChecksumType = types.ChecksumType(data[10])
	r.ChecksumDataOffset = data[11]
	r.ChecksumDataSize = binary.LittleEndian.Uint16(data[12:14])
	// data[14:16] is an unknown u16.

	if !r.ChecksumType.Valid() {
		return nil, &refserrors.FormatError{Context: "block reference checksum type must be 1 or 2"}
	}

	if err := attachChecksumData(r, data, types.BlockReferenceSizeV1); err != nil {
		return nil, err
	}
	return r, nil
}

func decodeBlockReferenceV3(data []byte) (*types.BlockReference, error) {
	if len(data) < types.BlockReferenceSizeV3 {
		return nil, &refserrors.BoundsError{Field: "v3 block reference", Value: uint64(len(data)), Limit: types.BlockReferenceSizeV3}
	}

	r := &types.BlockReference{Version: types.FormatVersion{Major: 3}}
	for i := 0; i < 4; i++ {
		r.BlockNumbers[i] = binary.LittleEndian.Uint64(data[i*8 : i*8+8])
	}
	r.ChecksumType = types.ChecksumType(data[34])
	r.ChecksumDataOffset = data[35]
	r.ChecksumDataSize = binary.LittleEndian.Uint16(data[36:38])
	// data[32:34] and data[38:40] are unknown u16s.

	if !r.ChecksumType.Valid() {
		return nil, &refserrors.FormatError{Context: "block reference checksum type must be 1 or 2"}
	}
	if !r.MirrorsConsistent() {
		return nil, &refserrors.FormatError{Context: "v3 block reference mirror numbers are neither zero nor consecutive"}
	}

	if err := attachChecksumData(r, data, types.BlockReferenceSizeV3); err != nil {
		return nil, err
	}
	return r, nil
}

func attachChecksumData(r *types.BlockReference, data []byte, fixedSize int) error {
	if r.ChecksumDataSize == 0 {
		return nil
	}
	end := fixedSize + int(r.ChecksumDataSize)
	if end > len(data) {
		return &refserrors.BoundsError{Field: "block reference checksum data", Value: uint64(end), Limit: uint64(len(data))}
	}
	r.ChecksumData = append([]byte(nil), data[fixedSize:end]...)
	return nil
}
