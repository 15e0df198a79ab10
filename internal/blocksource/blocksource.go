// Package blocksource implements the Block Source layer: a positioned byte
// reader over a volume image, with no filesystem knowledge. It is the only
// layer that performs I/O; every decoder above it consumes bytes already in
// memory.
package blocksource

import "github.com/deploymenttheory/go-refs/internal/refserrors"

// Source is a positioned byte reader over a volume image. ReadAt must be
// reentrancy-safe with respect to offset (no implicit cursor), so that
// multiple decoders may read concurrently without external synchronization.
type Source interface {
	// ReadAt reads len(buf) bytes starting at offset into buf. A short read
	// is always an error: either refserrors.ErrEndOfMedia when the read
	// would run past the end of the image, or a wrapped *refserrors.IOError
	// for any other failure.
	ReadAt(offset uint64, buf []byte) error

	// Size returns the total size of the volume image in bytes.
	Size() uint64

	// Close releases any resources (file handles, mappings) held by the source.
	Close() error
}

// Read is a convenience wrapper that allocates and returns a buffer of the
// requested length.
func Read(s Source, offset uint64, length uint64) ([]byte, error) {
	buf := make([]byte, length)
	if err := s.ReadAt(offset, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func checkBounds(s Source, offset uint64, length uint64) error {
	if length == 0 {
		return nil
	}
	if offset > s.Size() || s.Size()-offset < length {
		return refserrors.ErrEndOfMedia
	}
	return nil
}
