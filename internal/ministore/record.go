package ministore

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-refs/internal/refserrors"
	"github.com/deploymenttheory/go-refs/internal/types"
)

// decodeRecords walks the record-offsets array and decodes each slot's
// record in order, per §4.5's read-node algorithm steps 5-6.
func decodeRecords(nodeBase []byte, header types.NodeHeader, version types.FormatVersion) ([]types.NodeRecord, error) {
	records := make([]types.NodeRecord, 0, header.RecordOffsetsCount)

	var lastOffset int64 = -1
	for i := uint32(0); i < header.RecordOffsetsCount; i++ {
		slotPos := header.RecordOffsetsStart + 4*i
		if uint64(slotPos)+4 > uint64(len(nodeBase)) {
			return nil, &refserrors.BoundsError{Field: "record offset slot", Value: uint64(slotPos), Limit: uint64(len(nodeBase))}
		}
		raw := binary.LittleEndian.Uint32(nodeBase[slotPos : slotPos+4])

		offset := raw
		if version.IsV3() {
			// Only the low 16 bits are meaningful; the high bits are flags
			// ignored here.
			offset = raw & 0xFFFF
		}

		if uint64(offset) < uint64(header.DataAreaStart) || uint64(offset) >= uint64(header.DataAreaEnd) {
			return nil, &refserrors.BoundsError{Field: "record offset", Value: uint64(offset), Limit: uint64(header.DataAreaEnd)}
		}
		if int64(offset) <= lastOffset {
			return nil, &refserrors.FormatError{Context: "record offsets are not strictly increasing"}
		}
		lastOffset = int64(offset)

		rec, err := decodeRecord(nodeBase, offset, header.DataAreaEnd)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	return records, nil
}

// decodeRecord decodes one node record starting at offset within nodeBase.
// limit is the data-area end; the record must not extend past it.
func decodeRecord(nodeBase []byte, offset uint32, limit uint32) (*types.NodeRecord, error) {
	if uint64(offset)+types.NodeRecordHeaderSize > uint64(len(nodeBase)) {
		return nil, &refserrors.BoundsError{Field: "node record header", Value: uint64(offset), Limit: uint64(len(nodeBase))}
	}
	rec := nodeBase[offset:]

	size := binary.LittleEndian.Uint32(rec[0:4])
	if size < types.NodeRecordHeaderSize {
		return nil, &refserrors.FormatError{Context: "node record smaller than its own header"}
	}
	if uint64(offset)+uint64(size) > uint64(limit) {
		return nil, &refserrors.BoundsError{Field: "node record", Value: uint64(offset) + uint64(size), Limit: uint64(limit)}
	}

	keyOffset := binary.LittleEndian.Uint16(rec[4:6])
	keySize := binary.LittleEndian.Uint16(rec[6:8])
	flags := binary.LittleEndian.Uint16(rec[8:10])
	valueOffset := binary.LittleEndian.Uint16(rec[10:12])
	valueSize := binary.LittleEndian.Uint16(rec[12:14])

	if uint64(keyOffset) < types.NodeRecordHeaderSize || uint64(keyOffset)+uint64(keySize) > uint64(size) {
		return nil, &refserrors.BoundsError{Field: "node record key", Value: uint64(keyOffset) + uint64(keySize), Limit: uint64(size)}
	}
	if uint64(valueOffset) < types.NodeRecordHeaderSize || uint64(valueOffset)+uint64(valueSize) > uint64(size) {
		return nil, &refserrors.BoundsError{Field: "node record value", Value: uint64(valueOffset) + uint64(valueSize), Limit: uint64(size)}
	}

	return &types.NodeRecord{
		Size:        size,
		Flags:       flags,
		KeyOffset:   keyOffset,
		KeySize:     keySize,
		ValueOffset: valueOffset,
		ValueSize:   valueSize,
		Key:         append([]byte(nil), rec[keyOffset:uint64(keyOffset)+uint64(keySize)]...),
		Value:       append([]byte(nil), rec[valueOffset:uint64(valueOffset)+uint64(valueSize)]...),
	}, nil
}
