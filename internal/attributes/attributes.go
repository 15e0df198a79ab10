// Package attributes decodes a file's attribute-stream records: the key
// (attribute type plus optional UTF-16LE name), and the resident or
// non-resident value. A resident value is a flat struct holding the inline
// payload directly; a non-resident value is itself a nested ministore node
// whose header data describes the stream's sizes and whose records are its
// data runs.
package attributes

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-refs/internal/ministore"
	"github.com/deploymenttheory/go-refs/internal/refserrors"
	"github.com/deploymenttheory/go-refs/internal/types"
)

// List decodes every attribute-stream record in node's leaf records, in the
// on-disk key order (unnamed stream first, per ReFS's key layout placing the
// zero-length name first under right-to-left comparison).
func List(node *types.Node, version types.FormatVersion) ([]types.AttributeValue, error) {
	values := make([]types.AttributeValue, 0, len(node.Records))
	for i := range node.Records {
		rec := &node.Records[i]

		key, err := decodeKey(rec.Key)
		if err != nil {
			return nil, err
		}

		value := types.AttributeValue{Key: *key}
		if rec.IsNonResident() {
			nonResident, err := decodeNonResident(rec.Value, version)
			if err != nil {
				return nil, err
			}
			value.NonResident = nonResident
		} else {
			resident, err := decodeResident(rec.Value)
			if err != nil {
				return nil, err
			}
			value.Resident = resident
		}

		values = append(values, value)
	}
	return values, nil
}

// Find returns the unnamed attribute of the given attributeType, if present.
func Find(values []types.AttributeValue, attributeType uint32) (*types.AttributeValue, bool) {
	for i := range values {
		if values[i].Key.AttributeType == attributeType && values[i].Key.IsUnnamed() {
			return &values[i], true
		}
	}
	return nil, false
}

func decodeKey(raw []byte) (*types.AttributeKey, error) {
	if len(raw) < types.AttributeKeyHeaderSize {
		return nil, &refserrors.BoundsError{Field: "attribute key", Value: uint64(len(raw)), Limit: types.AttributeKeyHeaderSize}
	}
	nameLength := binary.LittleEndian.Uint16(raw[12:14])
	if uint64(types.AttributeKeyHeaderSize)+uint64(nameLength) > uint64(len(raw)) {
		return nil, &refserrors.BoundsError{Field: "attribute name", Value: uint64(nameLength), Limit: uint64(len(raw) - types.AttributeKeyHeaderSize)}
	}
	return &types.AttributeKey{
		AttributeType: binary.LittleEndian.Uint32(raw[8:12]),
		NameUTF16:     append([]byte(nil), raw[types.AttributeKeyHeaderSize:uint64(types.AttributeKeyHeaderSize)+uint64(nameLength)]...),
	}, nil
}

// decodeResident reads a resident attribute's value directly: an unknown
// leading u32, then inline_data_offset and inline_data_size.
func decodeResident(raw []byte) (*types.ResidentAttributeValue, error) {
	if len(raw) < types.ResidentAttributeHeaderSize {
		return nil, &refserrors.BoundsError{Field: "resident attribute header", Value: uint64(len(raw)), Limit: types.ResidentAttributeHeaderSize}
	}
	offset := binary.LittleEndian.Uint32(raw[4:8])
	size := binary.LittleEndian.Uint32(raw[8:12])
	if uint64(offset)+uint64(size) > uint64(len(raw)) {
		return nil, &refserrors.BoundsError{Field: "resident attribute inline data", Value: uint64(offset) + uint64(size), Limit: uint64(len(raw))}
	}
	return &types.ResidentAttributeValue{
		InlineDataOffset: offset,
		InlineDataSize:   size,
		InlineData:       append([]byte(nil), raw[offset:uint64(offset)+uint64(size)]...),
	}, nil
}

// decodeNonResident reads a non-resident attribute's value as a nested
// ministore node: its header data is the allocated/data/valid size triple,
// and its records are the stream's data runs.
func decodeNonResident(raw []byte, version types.FormatVersion) (*types.NonResidentAttributeValue, error) {
	node, err := ministore.ReadNestedNode(raw, version)
	if err != nil {
		return nil, err
	}
	if !node.TreeHeader.Present || len(node.TreeHeader.Raw) < types.NonResidentAttributeHeaderSize {
		return nil, &refserrors.BoundsError{Field: "non-resident attribute header", Value: uint64(len(node.TreeHeader.Raw)), Limit: types.NonResidentAttributeHeaderSize}
	}
	header := node.TreeHeader.Raw

	v := &types.NonResidentAttributeValue{
		AllocatedDataSize: binary.LittleEndian.Uint64(header[12:20]),
		DataSize:          binary.LittleEndian.Uint64(header[20:28]),
		ValidDataSize:     binary.LittleEndian.Uint64(header[28:36]),
	}

	v.Runs = make([]types.DataRun, 0, len(node.Records))
	for i := range node.Records {
		run, err := decodeDataRun(node.Records[i].Value)
		if err != nil {
			return nil, err
		}
		v.Runs = append(v.Runs, *run)
	}

	return v, nil
}

func decodeDataRun(raw []byte) (*types.DataRun, error) {
	if len(raw) < types.DataRunSize {
		return nil, &refserrors.BoundsError{Field: "data run", Value: uint64(len(raw)), Limit: types.DataRunSize}
	}
	return &types.DataRun{
		LogicalOffset:  binary.LittleEndian.Uint64(raw[0:8]),
		Size:           binary.LittleEndian.Uint64(raw[8:16]),
		PhysicalOffset: binary.LittleEndian.Uint64(raw[16:24]),
		// raw[24:32] is an unknown trailing qword, read to keep the cursor
		// aligned but not interpreted.
	}, nil
}
