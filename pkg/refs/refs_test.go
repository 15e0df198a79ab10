package refs_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-refs/internal/blocksource"
	"github.com/deploymenttheory/go-refs/internal/ministore"
	"github.com/deploymenttheory/go-refs/internal/types"
	"github.com/deploymenttheory/go-refs/pkg/refs"
)

const (
	volumeSize          = 2080374784 // bytes, matches the synthetic v1 volume in the root-directory resolution scenario
	superblockBlock      = 30
	checkpointBlockA     = 40
	objectsTreeRootBlock = 50
	rootDirectoryBlock   = 60
)

func buildVolumeHeader(data []byte) {
	copy(data[3:7], types.VolumeHeaderSignature)
	binary.LittleEndian.PutUint64(data[16:24], volumeSize)
	binary.LittleEndian.PutUint32(data[28:32], 512)
	binary.LittleEndian.PutUint32(data[32:36], types.MetadataBlockSizeV1)
	data[36] = 1 // major version
	data[37] = 0 // minor version
}

func blockPost(image []byte, blockNumber uint64) []byte {
	start := blockNumber * types.MetadataBlockSizeV1
	block := image[start : start+types.MetadataBlockSizeV1]
	binary.LittleEndian.PutUint64(block[0:8], blockNumber)
	return block[types.MetadataBlockHeaderSizeV1:]
}

func writeSuperblock(image []byte) {
	post := blockPost(image, superblockBlock)
	binary.LittleEndian.PutUint64(post[16:24], checkpointBlockA)
	binary.LittleEndian.PutUint64(post[24:32], checkpointBlockA)
}

func writeCheckpoint(image []byte) {
	post := blockPost(image, checkpointBlockA)
	binary.LittleEndian.PutUint64(post[0:8], 1) // sequence number
	binary.LittleEndian.PutUint32(post[8:12], 1)
	binary.LittleEndian.PutUint32(post[12:16], 16)

	ref := post[16 : 16+types.BlockReferenceSizeV1]
	binary.LittleEndian.PutUint64(ref[0:8], objectsTreeRootBlock)
	ref[10] = byte(types.ChecksumTypeCRC)
}

// writeLeafNode writes a single-record leaf ministore node at blockNumber.
func writeLeafNode(image []byte, blockNumber uint64, key, value []byte) {
	post := blockPost(image, blockNumber)
	const nodeHeaderOffset = 4
	binary.LittleEndian.PutUint32(post[0:4], nodeHeaderOffset)

	nodeBase := post[nodeHeaderOffset:]
	const headerSize = 28
	recordSize := uint32(headerSize) + uint32(len(key)) + uint32(len(value))

	rec := nodeBase[headerSize:]
	binary.LittleEndian.PutUint32(rec[0:4], recordSize)
	binary.LittleEndian.PutUint16(rec[4:6], uint16(headerSize))
	binary.LittleEndian.PutUint16(rec[6:8], uint16(len(key)))
	binary.LittleEndian.PutUint16(rec[10:12], uint16(headerSize)+uint16(len(key)))
	binary.LittleEndian.PutUint16(rec[12:14], uint16(len(value)))
	copy(rec[headerSize:uint32(headerSize)+uint32(len(key))], key)
	copy(rec[uint32(headerSize)+uint32(len(key)):recordSize], value)

	offsetsStart := uint32(headerSize) + recordSize
	binary.LittleEndian.PutUint32(nodeBase[offsetsStart:offsetsStart+4], uint32(headerSize))

	binary.LittleEndian.PutUint32(nodeBase[0:4], uint32(headerSize))
	binary.LittleEndian.PutUint32(nodeBase[4:8], offsetsStart)
	nodeBase[13] = types.NodeTypeLeaf
	binary.LittleEndian.PutUint32(nodeBase[16:20], offsetsStart)
	binary.LittleEndian.PutUint32(nodeBase[20:24], 1)
	binary.LittleEndian.PutUint32(nodeBase[24:28], offsetsStart+4)
}

func blockReferenceValue(blockNumber uint64) []byte {
	v := make([]byte, types.BlockReferenceSizeV1)
	binary.LittleEndian.PutUint64(v[0:8], blockNumber)
	v[10] = byte(types.ChecksumTypeCRC)
	return v
}

func directoryEntryKey(entryType types.DirectoryEntryType, name string) []byte {
	key := make([]byte, types.DirectoryEntryKeyHeaderSize)
	binary.LittleEndian.PutUint16(key[0:2], 0x0010)
	binary.LittleEndian.PutUint16(key[2:4], uint16(entryType))
	for _, r := range name {
		key = append(key, byte(r), byte(r>>8))
	}
	return key
}

// fileValueBytes builds a type-1 entry's value: a nested ministore node
// whose header data is the file_values struct and whose records are empty.
func fileValueBytes(dataSize uint64) []byte {
	const nodeHeaderOffset = 4 + types.FileValuesHeaderSize

	header := make([]byte, types.FileValuesHeaderSize)
	binary.LittleEndian.PutUint64(header[64:72], dataSize)

	nodeBase := make([]byte, ministore.NodeHeaderSize)
	binary.LittleEndian.PutUint32(nodeBase[0:4], uint32(ministore.NodeHeaderSize))
	binary.LittleEndian.PutUint32(nodeBase[4:8], uint32(ministore.NodeHeaderSize))
	nodeBase[13] = types.NodeTypeLeaf
	binary.LittleEndian.PutUint32(nodeBase[16:20], uint32(ministore.NodeHeaderSize))
	binary.LittleEndian.PutUint32(nodeBase[24:28], uint32(ministore.NodeHeaderSize))

	buf := make([]byte, nodeHeaderOffset+len(nodeBase))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(nodeHeaderOffset))
	copy(buf[4:nodeHeaderOffset], header)
	copy(buf[nodeHeaderOffset:], nodeBase)
	return buf
}

func TestOpenResolvesRootDirectory(t *testing.T) {
	image := make([]byte, 128*types.MetadataBlockSizeV1)
	buildVolumeHeader(image[:types.MetadataBlockSizeV1])
	writeSuperblock(image)
	writeCheckpoint(image)
	writeLeafNode(image, objectsTreeRootBlock, types.ObjectKey(types.RootDirectoryObjectID), blockReferenceValue(rootDirectoryBlock))

	fileValue := fileValueBytes(10)
	writeLeafNode(image, rootDirectoryBlock, directoryEntryKey(types.DirectoryEntryTypeFile, "readme.txt"), fileValue)

	src := blocksource.NewMemorySource(image)
	vol, err := refs.Open(src)
	require.NoError(t, err)
	defer vol.Close()

	assert.Equal(t, types.FormatVersion{Major: 1}, vol.Version())
	assert.EqualValues(t, 512, vol.BytesPerSector())

	root, err := vol.RootDirectory()
	require.NoError(t, err)
	assert.EqualValues(t, types.RootDirectoryObjectID, root.ObjectIdentifier())

	entries, err := root.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "readme.txt", entries[0].Name())
	assert.False(t, entries[0].IsDirectory())
}

func TestRootDirectoryNotFoundWhenObjectsTreeIsEmpty(t *testing.T) {
	image := make([]byte, 128*types.MetadataBlockSizeV1)
	buildVolumeHeader(image[:types.MetadataBlockSizeV1])
	writeSuperblock(image)
	writeCheckpoint(image)
	// objects tree root block is left zeroed: it decodes as an empty node
	// with no records, so the objects tree opens but carries no entry for the
	// root directory.

	src := blocksource.NewMemorySource(image)
	vol, err := refs.Open(src)
	require.NoError(t, err)
	defer vol.Close()

	_, err = vol.RootDirectory()
	assert.Error(t, err)
}
