package volume

import (
	"github.com/deploymenttheory/go-refs/internal/blocksource"
	"github.com/deploymenttheory/go-refs/internal/types"
)

// NewIOContext builds the IOContext from a decoded volume header. It is
// built once when a volume is opened and lives for the lifetime of the open
// handle.
func NewIOContext(h *types.VolumeHeader) *types.IOContext {
	aborted := false
	return &types.IOContext{
		BytesPerSector:    h.BytesPerSector,
		MetadataBlockSize: h.MetadataBlockSize,
		VolumeSize:        h.VolumeSize,
		Version:           h.Version,
		ContainerSize:     h.ContainerSize,
		Aborted:           &aborted,
	}
}

// Open reads the volume header from src and builds the resulting IOContext.
func Open(src blocksource.Source) (*types.IOContext, error) {
	h, err := ReadVolumeHeader(src)
	if err != nil {
		return nil, err
	}
	return NewIOContext(h), nil
}
