// Package volume decodes the ReFS volume header (boot sector) and builds the
// IOContext every other layer depends on.
package volume

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-refs/internal/blocksource"
	"github.com/deploymenttheory/go-refs/internal/refserrors"
	"github.com/deploymenttheory/go-refs/internal/types"
)

// VolumeHeaderSize is the size of the fixed boot-sector region this library
// reads. Real boot sectors are sector-sized (512 bytes); everything past the
// fields below is unused by the core traversal.
const VolumeHeaderSize = 512

// Byte offsets within the volume header. The jump instruction at [0:3) and
// the padding after the container size are read (to keep this a single,
// bounds-checked decode) but never interpreted.
const (
	offSignature        = 3  // 8 bytes, first 4 must equal types.VolumeHeaderSignature
	offVolumeSize        = 16 // u64
	offBytesPerSector    = 28 // u32
	offMetadataBlockSize = 32 // u32
	offMajorVersion      = 36 // u8
	offMinorVersion      = 37 // u8
	offIdentifier        = 40 // 16 bytes
	offContainerSize     = 56 // u64, v3 only
)

// ReadVolumeHeader reads and decodes the volume header at the start of the
// volume image.
func ReadVolumeHeader(src blocksource.Source) (*types.VolumeHeader, error) {
	data, err := blocksource.Read(src, 0, VolumeHeaderSize)
	if err != nil {
		return nil, err
	}

	sig := string(data[offSignature : offSignature+4])
	if sig != types.VolumeHeaderSignature {
		return nil, &refserrors.SignatureError{
			Offset:   offSignature,
			Expected: types.VolumeHeaderSignature,
			Got:      sig,
		}
	}

	h := &types.VolumeHeader{
		VolumeSize:        binary.LittleEndian.Uint64(data[offVolumeSize : offVolumeSize+8]),
		BytesPerSector:    binary.LittleEndian.Uint32(data[offBytesPerSector : offBytesPerSector+4]),
		MetadataBlockSize: binary.LittleEndian.Uint32(data[offMetadataBlockSize : offMetadataBlockSize+4]),
		Version: types.FormatVersion{
			Major: data[offMajorVersion],
			Minor: data[offMinorVersion],
		},
	}
	copy(h.Identifier[:], data[offIdentifier:offIdentifier+16])

	if !h.Version.Supported() {
		return nil, &refserrors.VersionError{Major: h.Version.Major, Minor: h.Version.Minor}
	}

	if h.Version.IsV3() {
		h.ContainerSize = binary.LittleEndian.Uint64(data[offContainerSize : offContainerSize+8])
	}

	if err := validateMetadataBlockSize(h); err != nil {
		return nil, err
	}

	return h, nil
}

func validateMetadataBlockSize(h *types.VolumeHeader) error {
	if h.BytesPerSector == 0 || h.MetadataBlockSize == 0 {
		return &refserrors.FormatError{Context: "zero bytes-per-sector or metadata-block-size"}
	}
	if h.MetadataBlockSize%h.BytesPerSector != 0 {
		return &refserrors.FormatError{Context: "metadata-block-size is not a multiple of bytes-per-sector"}
	}
	if h.Version.IsV1() && h.MetadataBlockSize != types.MetadataBlockSizeV1 {
		return &refserrors.FormatError{Context: "unrecognized v1 metadata-block-size"}
	}
	if h.Version.IsV3() && h.MetadataBlockSize != types.MetadataBlockSizeV3 {
		return &refserrors.FormatError{Context: "unrecognized v3 metadata-block-size"}
	}
	return nil
}
