// Package ministore decodes ReFS's Ministore B+-tree node format: the node
// header, its optional tree header, and the array of (key, value, flags)
// records, plus the key-ordered lookup and branch traversal built on top of
// them. Grounded on the teacher's apfs/pkg/container/btree.go in shape
// (header-then-records decode) though the on-disk layouts are unrelated.
package ministore

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-refs/internal/metadata"
	"github.com/deploymenttheory/go-refs/internal/refserrors"
	"github.com/deploymenttheory/go-refs/internal/types"
)

// NodeHeaderSize is the fixed size of the node header that follows the
// optional tree header.
const NodeHeaderSize = 28

// treeHeaderMinSize is the minimum size a tree header must have to be
// considered present; node_header_offset values at or below
// 4+treeHeaderMinSize mean there is no tree header and the node header
// follows the offset field directly.
const treeHeaderMinSize = 16

// ReadNode decodes a full metadata block, expected to carry a ministore
// node, into a types.Node. data must be exactly one logical metadata block
// (types.MetadataBlockSizeV1/V3 bytes).
func ReadNode(data []byte, version types.FormatVersion, ref types.BlockReference) (*types.Node, error) {
	headerSize := types.MetadataBlockHeaderSizeV1
	if version.IsV3() {
		headerSize = types.MetadataBlockHeaderSizeV3
	}
	if len(data) < headerSize+4 {
		return nil, &refserrors.BoundsError{Field: "ministore block", Value: uint64(len(data)), Limit: uint64(headerSize + 4)}
	}

	blockHeader, err := metadata.DecodeHeader(data, version, types.SignatureMinistore)
	if err != nil {
		return nil, err
	}
	_ = blockHeader

	node, err := decodeNodeBuffer(data[headerSize:], version)
	if err != nil {
		return nil, err
	}
	node.BlockReference = ref
	return node, nil
}

// ReadNestedNode decodes a nested ministore node directly out of a node
// record's value bytes, with no surrounding metadata block header. A
// directory entry's file value and a non-resident attribute value are both
// encoded this way: the value itself begins with the node_header_offset
// field, exactly like the bytes that follow a metadata block header, except
// the leading "tree header" slot carries a type-specific fixed struct (the
// file_values header, or the non-resident attribute header) rather than
// B+-tree metadata. Callers read that struct out of the returned node's
// TreeHeader.Raw.
func ReadNestedNode(value []byte, version types.FormatVersion) (*types.Node, error) {
	return decodeNodeBuffer(value, version)
}

func decodeNodeBuffer(post []byte, version types.FormatVersion) (*types.Node, error) {
	if len(post) < 4 {
		return nil, &refserrors.BoundsError{Field: "ministore node buffer", Value: uint64(len(post)), Limit: 4}
	}

	nodeHeaderOffset := binary.LittleEndian.Uint32(post[0:4])
	if uint64(nodeHeaderOffset)+NodeHeaderSize > uint64(len(post)) {
		return nil, &refserrors.BoundsError{Field: "node_header_offset", Value: uint64(nodeHeaderOffset), Limit: uint64(len(post))}
	}

	var treeHeader types.TreeHeader
	if nodeHeaderOffset > 4+treeHeaderMinSize {
		treeHeader.Present = true
		treeHeader.Raw = append([]byte(nil), post[4:nodeHeaderOffset]...)
	}

	nodeBase := post[nodeHeaderOffset:]
	header, err := decodeNodeHeader(nodeBase)
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(nodeBase, *header, version)
	if err != nil {
		return nil, err
	}

	return &types.Node{
		Header:     *header,
		TreeHeader: treeHeader,
		Records:    records,
	}, nil
}

func decodeNodeHeader(nodeBase []byte) (*types.NodeHeader, error) {
	if len(nodeBase) < NodeHeaderSize {
		return nil, &refserrors.BoundsError{Field: "node header", Value: uint64(len(nodeBase)), Limit: NodeHeaderSize}
	}

	h := &types.NodeHeader{
		DataAreaStart:      binary.LittleEndian.Uint32(nodeBase[0:4]),
		DataAreaEnd:        binary.LittleEndian.Uint32(nodeBase[4:8]),
		UnusedDataSize:     binary.LittleEndian.Uint32(nodeBase[8:12]),
		NodeLevel:          nodeBase[12],
		NodeTypeFlags:      nodeBase[13],
		RecordOffsetsStart: binary.LittleEndian.Uint32(nodeBase[16:20]),
		RecordOffsetsCount: binary.LittleEndian.Uint32(nodeBase[20:24]),
		RecordOffsetsEnd:   binary.LittleEndian.Uint32(nodeBase[24:28]),
	}
	// nodeBase[14:16] is unknown padding, read to keep the cursor aligned
	// but not interpreted.

	size := uint64(len(nodeBase))
	if uint64(h.DataAreaStart) > uint64(h.DataAreaEnd) || uint64(h.DataAreaEnd) > size {
		return nil, &refserrors.BoundsError{Field: "data_area_end", Value: uint64(h.DataAreaEnd), Limit: size}
	}
	if uint64(h.RecordOffsetsStart) > uint64(h.RecordOffsetsEnd) || uint64(h.RecordOffsetsEnd) > size {
		return nil, &refserrors.BoundsError{Field: "record_offsets_end", Value: uint64(h.RecordOffsetsEnd), Limit: size}
	}
	if uint64(h.RecordOffsetsEnd-h.RecordOffsetsStart) != uint64(h.RecordOffsetsCount)*4 {
		return nil, &refserrors.FormatError{Context: "record offsets array length does not match record_offsets_count"}
	}
	if uint64(h.DataAreaEnd)+uint64(h.UnusedDataSize)+uint64(h.RecordOffsetsCount)*4 > size {
		return nil, &refserrors.FormatError{Context: "data area, unused space, and offsets array exceed node size"}
	}

	return h, nil
}
