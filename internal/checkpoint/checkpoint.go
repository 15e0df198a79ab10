package checkpoint

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-refs/internal/blocksource"
	"github.com/deploymenttheory/go-refs/internal/metadata"
	"github.com/deploymenttheory/go-refs/internal/refserrors"
	"github.com/deploymenttheory/go-refs/internal/types"
)

// ReadCheckpoint reads and decodes the checkpoint at blockNumber: its
// trailer (sequence number, tree-reference count and offset) followed by
// the array of ministore tree-root block references.
func ReadCheckpoint(src blocksource.Source, ioctx *types.IOContext, blockNumber uint64) (*types.Checkpoint, error) {
	data, err := blocksource.Read(src, blockNumber*uint64(ioctx.MetadataBlockSize), uint64(ioctx.MetadataBlockSize))
	if err != nil {
		return nil, err
	}

	headerSize := types.MetadataBlockHeaderSizeV1
	if ioctx.Version.IsV3() {
		headerSize = types.MetadataBlockHeaderSizeV3
	}

	if _, err := metadata.DecodeHeader(data, ioctx.Version, types.SignatureCheckpoint); err != nil {
		return nil, err
	}
	post := data[headerSize:]

	if len(post) < 16 {
		return nil, &refserrors.BoundsError{Field: "checkpoint trailer", Value: uint64(len(post)), Limit: 16}
	}

	cp := &types.Checkpoint{
		SequenceNumber:  binary.LittleEndian.Uint64(post[0:8]),
		TreeReferences: make(map[types.TreeSlot]types.BlockReference),
	}
	treeReferenceCount := binary.LittleEndian.Uint32(post[8:12])
	treeReferencesOffset := binary.LittleEndian.Uint32(post[12:16])

	pos := int(treeReferencesOffset)
	for slot := uint32(0); slot < treeReferenceCount; slot++ {
		if pos < 0 || pos > len(post) {
			return nil, &refserrors.BoundsError{Field: "checkpoint tree reference", Value: uint64(pos), Limit: uint64(len(post))}
		}
		ref, err := metadata.DecodeBlockReference(post[pos:], ioctx.Version)
		if err != nil {
			return nil, err
		}
		cp.TreeReferences[types.TreeSlot(slot)] = *ref
		pos += ref.EncodedSize()
	}

	return cp, nil
}
