package objects

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-refs/internal/blocksource"
	"github.com/deploymenttheory/go-refs/internal/refserrors"
	"github.com/deploymenttheory/go-refs/internal/types"
)

func v1IOContext() *types.IOContext {
	aborted := false
	return &types.IOContext{
		MetadataBlockSize: types.MetadataBlockSizeV1,
		Version:           types.FormatVersion{Major: 1},
		Aborted:           &aborted,
	}
}

// writeLeafNode writes a single-record leaf ministore node at blockNumber
// whose one record has the given key and value.
func writeLeafNode(image []byte, blockNumber uint64, key, value []byte) {
	start := blockNumber * types.MetadataBlockSizeV1
	block := image[start : start+types.MetadataBlockSizeV1]
	binary.LittleEndian.PutUint64(block[0:8], blockNumber)

	post := block[types.MetadataBlockHeaderSizeV1:]
	const nodeHeaderOffset = 4
	binary.LittleEndian.PutUint32(post[0:4], nodeHeaderOffset)

	nodeBase := post[nodeHeaderOffset:]
	const headerSize = 28
	recordSize := uint32(headerSize) + uint32(len(key)) + uint32(len(value))

	rec := nodeBase[headerSize:]
	binary.LittleEndian.PutUint32(rec[0:4], recordSize)
	binary.LittleEndian.PutUint16(rec[4:6], uint16(headerSize))
	binary.LittleEndian.PutUint16(rec[6:8], uint16(len(key)))
	binary.LittleEndian.PutUint16(rec[8:10], 0)
	binary.LittleEndian.PutUint16(rec[10:12], uint16(headerSize)+uint16(len(key)))
	binary.LittleEndian.PutUint16(rec[12:14], uint16(len(value)))
	copy(rec[headerSize:uint32(headerSize)+uint32(len(key))], key)
	copy(rec[uint32(headerSize)+uint32(len(key)):recordSize], value)

	offsetsStart := uint32(headerSize) + recordSize
	binary.LittleEndian.PutUint32(nodeBase[offsetsStart:offsetsStart+4], uint32(headerSize))

	binary.LittleEndian.PutUint32(nodeBase[0:4], uint32(headerSize))     // data_area_start
	binary.LittleEndian.PutUint32(nodeBase[4:8], offsetsStart)           // data_area_end
	nodeBase[13] = types.NodeTypeLeaf                                    // node_type_flags
	binary.LittleEndian.PutUint32(nodeBase[16:20], offsetsStart)         // record_offsets_start
	binary.LittleEndian.PutUint32(nodeBase[20:24], 1)                    // record_offsets_count
	binary.LittleEndian.PutUint32(nodeBase[24:28], offsetsStart+4)       // record_offsets_end
}

func writeV1BlockReferenceValue(blockNumber uint64) []byte {
	v := make([]byte, types.BlockReferenceSizeV1)
	binary.LittleEndian.PutUint64(v[0:8], blockNumber)
	v[10] = byte(types.ChecksumTypeCRC)
	return v
}

func TestGetObjectTreeResolvesObject(t *testing.T) {
	ioctx := v1IOContext()
	image := make([]byte, 64*types.MetadataBlockSizeV1)
	src := blocksource.NewMemorySource(image)

	const objectID = 0x600
	const objectRootBlock = 20
	key := types.ObjectKey(objectID)
	writeLeafNode(image, 10, key, writeV1BlockReferenceValue(objectRootBlock))
	writeLeafNode(image, objectRootBlock, []byte{0x01, 0x00}, []byte{0xde, 0xad})

	rootRef := types.BlockReference{BlockNumbers: [4]uint64{10, 0, 0, 0}}
	tree, err := Open(src, ioctx, rootRef)
	require.NoError(t, err)

	node, err := tree.GetObjectTree(objectID)
	require.NoError(t, err)
	require.Len(t, node.Records, 1)
	assert.Equal(t, []byte{0xde, 0xad}, node.Records[0].Value)
}

func TestGetObjectTreeNotFound(t *testing.T) {
	ioctx := v1IOContext()
	image := make([]byte, 64*types.MetadataBlockSizeV1)
	src := blocksource.NewMemorySource(image)

	writeLeafNode(image, 10, types.ObjectKey(0x600), writeV1BlockReferenceValue(20))

	rootRef := types.BlockReference{BlockNumbers: [4]uint64{10, 0, 0, 0}}
	tree, err := Open(src, ioctx, rootRef)
	require.NoError(t, err)

	_, err = tree.GetObjectTree(0x999)
	assert.ErrorIs(t, err, refserrors.ErrObjectNotFound)
}
