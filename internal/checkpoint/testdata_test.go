package checkpoint

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-refs/internal/blocksource"
	"github.com/deploymenttheory/go-refs/internal/types"
)

// v1TestIOContext returns an IOContext for a v1 volume with 16 KiB metadata
// blocks, large enough for the superblock/checkpoint block numbers the
// tests in this package use.
func v1TestIOContext() *types.IOContext {
	aborted := false
	return &types.IOContext{
		MetadataBlockSize: types.MetadataBlockSizeV1,
		Version:           types.FormatVersion{Major: 1},
		Aborted:           &aborted,
	}
}

// newV1Image allocates an in-memory image with room for blockCount metadata
// blocks and returns it alongside a MemorySource over it.
func newV1Image(blockCount uint64) ([]byte, *blocksource.MemorySource) {
	data := make([]byte, blockCount*types.MetadataBlockSizeV1)
	return data, blocksource.NewMemorySource(data)
}

func v1BlockHeader(image []byte, blockNumber uint64) []byte {
	start := blockNumber * types.MetadataBlockSizeV1
	block := image[start : start+types.MetadataBlockSizeV1]
	binary.LittleEndian.PutUint64(block[0:8], blockNumber)
	return block[types.MetadataBlockHeaderSizeV1:]
}

func writeV1Superblock(image []byte, blockNumber uint64, identifier [16]byte, primaryCheckpoint, secondaryCheckpoint uint64) {
	post := v1BlockHeader(image, blockNumber)
	copy(post[0:16], identifier[:])
	binary.LittleEndian.PutUint64(post[16:24], primaryCheckpoint)
	binary.LittleEndian.PutUint64(post[24:32], secondaryCheckpoint)
}

func writeV1Checkpoint(image []byte, blockNumber uint64, sequenceNumber uint64, objectsTreeBlockNumber uint64) {
	post := v1BlockHeader(image, blockNumber)
	binary.LittleEndian.PutUint64(post[0:8], sequenceNumber)
	binary.LittleEndian.PutUint32(post[8:12], 1) // one tree reference: the objects tree
	binary.LittleEndian.PutUint32(post[12:16], 16)

	ref := post[16 : 16+types.BlockReferenceSizeV1]
	binary.LittleEndian.PutUint64(ref[0:8], objectsTreeBlockNumber)
	ref[10] = byte(types.ChecksumTypeCRC)
}

// corruptV1Checkpoint writes an undecodable checkpoint at blockNumber: the
// header is valid, but the tree-reference count is absurdly large and the
// first tree reference it points at is left zeroed, so ReadCheckpoint fails
// on that reference's invalid checksum type.
func corruptV1Checkpoint(image []byte, blockNumber uint64) {
	post := v1BlockHeader(image, blockNumber)
	binary.LittleEndian.PutUint32(post[8:12], 0xFFFFFFFF) // absurd tree reference count
	binary.LittleEndian.PutUint32(post[12:16], 16)
}
