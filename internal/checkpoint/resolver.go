package checkpoint

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-refs/internal/blocksource"
	"github.com/deploymenttheory/go-refs/internal/metadata"
	"github.com/deploymenttheory/go-refs/internal/refserrors"
	"github.com/deploymenttheory/go-refs/internal/types"
)

// Resolve reads the first superblock copy (the second copy is read only when
// the first fails to decode; the two copies are never compared), follows its
// primary/secondary checkpoint block references, and returns the superblock
// alongside the
// checkpoint with the higher sequence number (ties favor the primary). If
// one checkpoint fails to decode, the other is returned; if both fail, the
// error from whichever had the higher sequence number (when that much could
// be determined) is surfaced, falling back to the first error otherwise.
func Resolve(src blocksource.Source, ioctx *types.IOContext) (*types.Superblock, *types.Checkpoint, error) {
	sb, err := ReadSuperblockWithFallback(src, ioctx)
	if err != nil {
		return nil, nil, err
	}

	primary, primaryErr := ReadCheckpoint(src, ioctx, sb.PrimaryCheckpointBlockNumber)
	secondary, secondaryErr := ReadCheckpoint(src, ioctx, sb.SecondaryCheckpointBlockNumber)

	switch {
	case primaryErr == nil && secondaryErr == nil:
		if secondary.SequenceNumber > primary.SequenceNumber {
			return sb, secondary, nil
		}
		return sb, primary, nil
	case primaryErr == nil:
		return sb, primary, nil
	case secondaryErr == nil:
		return sb, secondary, nil
	}

	primarySeq, primarySeqErr := peekSequenceNumber(src, ioctx, sb.PrimaryCheckpointBlockNumber)
	secondarySeq, secondarySeqErr := peekSequenceNumber(src, ioctx, sb.SecondaryCheckpointBlockNumber)
	if primarySeqErr == nil && secondarySeqErr == nil && secondarySeq > primarySeq {
		return nil, nil, secondaryErr
	}
	return nil, nil, primaryErr
}

// ReadSuperblockWithFallback reads the first superblock copy, falling back
// to the second if the first fails to decode.
func ReadSuperblockWithFallback(src blocksource.Source, ioctx *types.IOContext) (*types.Superblock, error) {
	sb, err := ReadSuperblock(src, ioctx, SuperblockBlockNumbers[0])
	if err == nil {
		return sb, nil
	}
	return ReadSuperblock(src, ioctx, SuperblockBlockNumbers[1])
}

// peekSequenceNumber decodes just enough of a checkpoint block to read its
// sequence number, without validating the full tree-reference array. Used
// only to choose which error to report when both checkpoints failed to decode.
func peekSequenceNumber(src blocksource.Source, ioctx *types.IOContext, blockNumber uint64) (uint64, error) {
	data, err := blocksource.Read(src, blockNumber*uint64(ioctx.MetadataBlockSize), uint64(ioctx.MetadataBlockSize))
	if err != nil {
		return 0, err
	}
	headerSize := types.MetadataBlockHeaderSizeV1
	if ioctx.Version.IsV3() {
		headerSize = types.MetadataBlockHeaderSizeV3
	}
	if _, err := metadata.DecodeHeader(data, ioctx.Version, types.SignatureCheckpoint); err != nil {
		return 0, err
	}
	post := data[headerSize:]
	if len(post) < 8 {
		return 0, &refserrors.BoundsError{Field: "checkpoint sequence number", Value: uint64(len(post)), Limit: 8}
	}
	return binary.LittleEndian.Uint64(post[0:8]), nil
}
