// Package checkpoint resolves the authoritative checkpoint for a volume:
// reading the first superblock copy (the second only when the first fails to
// decode), following its checkpoint block references, and picking the
// checkpoint with the higher sequence number.
// Grounded in shape on the teacher's apfs/pkg/container/nxsuperblock.go
// (a single fixed-layout struct decoded field-by-field, then validated).
package checkpoint

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-refs/internal/blocksource"
	"github.com/deploymenttheory/go-refs/internal/metadata"
	"github.com/deploymenttheory/go-refs/internal/refserrors"
	"github.com/deploymenttheory/go-refs/internal/types"
)

// SuperblockBlockNumbers are the two well-known metadata-block numbers that
// carry a copy of the volume superblock.
var SuperblockBlockNumbers = [2]uint64{30, 31}

// ReadSuperblock reads and decodes the superblock at blockNumber.
func ReadSuperblock(src blocksource.Source, ioctx *types.IOContext, blockNumber uint64) (*types.Superblock, error) {
	data, err := blocksource.Read(src, blockNumber*uint64(ioctx.MetadataBlockSize), uint64(ioctx.MetadataBlockSize))
	if err != nil {
		return nil, err
	}

	headerSize := types.MetadataBlockHeaderSizeV1
	if ioctx.Version.IsV3() {
		headerSize = types.MetadataBlockHeaderSizeV3
	}

	if _, err := metadata.DecodeHeader(data, ioctx.Version, types.SignatureSuperblock); err != nil {
		return nil, err
	}
	post := data[headerSize:]

	sb := &types.Superblock{Version: ioctx.Version}
	if len(post) < 16 {
		return nil, &refserrors.BoundsError{Field: "superblock identifier", Value: uint64(len(post)), Limit: 16}
	}
	copy(sb.Identifier[:], post[0:16])

	if ioctx.Version.IsV1() {
		if len(post) < 32 {
			return nil, &refserrors.BoundsError{Field: "superblock checkpoint numbers", Value: uint64(len(post)), Limit: 32}
		}
		sb.PrimaryCheckpointBlockNumber = binary.LittleEndian.Uint64(post[16:24])
		sb.SecondaryCheckpointBlockNumber = binary.LittleEndian.Uint64(post[24:32])
		return sb, nil
	}

	if len(post) < 24 {
		return nil, &refserrors.BoundsError{Field: "superblock v3 header fields", Value: uint64(len(post)), Limit: 24}
	}
	checkpointReferencesDataOffset := binary.LittleEndian.Uint32(post[16:20])
	selfReferenceDataOffset := binary.LittleEndian.Uint32(post[20:24])

	// These offsets are expressed inclusive of the metadata-block header
	// and must be re-based by subtracting the header size before use.
	cpRefRebased := int(checkpointReferencesDataOffset) - headerSize
	selfRefRebased := int(selfReferenceDataOffset) - headerSize
	if cpRefRebased < 0 || selfRefRebased < 0 {
		return nil, &refserrors.FormatError{Context: "superblock header-relative offsets precede the metadata block header"}
	}

	primaryRef, n, err := decodeBlockReferenceAt(post, cpRefRebased)
	if err != nil {
		return nil, err
	}
	secondaryRef, _, err := decodeBlockReferenceAt(post, cpRefRebased+n)
	if err != nil {
		return nil, err
	}
	selfRef, _, err := decodeBlockReferenceAt(post, selfRefRebased)
	if err != nil {
		return nil, err
	}

	sb.PrimaryCheckpointBlockNumber = primaryRef.Primary()
	sb.SecondaryCheckpointBlockNumber = secondaryRef.Primary()
	sb.SelfReference = *selfRef

	return sb, nil
}

func decodeBlockReferenceAt(post []byte, at int) (*types.BlockReference, int, error) {
	if at < 0 || at > len(post) {
		return nil, 0, &refserrors.BoundsError{Field: "block reference offset", Value: uint64(at), Limit: uint64(len(post))}
	}
	ref, err := metadata.DecodeBlockReference(post[at:], types.FormatVersion{Major: 3})
	if err != nil {
		return nil, 0, err
	}
	return ref, ref.EncodedSize(), nil
}
