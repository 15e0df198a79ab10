package blocksource

import (
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/deploymenttheory/go-refs/internal/refserrors"
)

// MMapSource is a Block Source backed by a read-only memory mapping of the
// volume image. Grounded on saferwall/pe's file.go, which maps its input
// with mmap.Map(f, mmap.RDONLY, 0) for random-access reads. ReadAt copies
// the requested range out of the shared read-only mapping into the caller's
// buffer, with no file offset state and no read system call per block.
type MMapSource struct {
	file *os.File
	data mmap.MMap
}

// OpenMMap memory-maps path for read-only, positioned access.
func OpenMMap(path string) (*MMapSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("refs: open volume image: %w", err)
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("refs: mmap volume image: %w", err)
	}
	return &MMapSource{file: f, data: data}, nil
}

func (s *MMapSource) Size() uint64 { return uint64(len(s.data)) }

func (s *MMapSource) ReadAt(offset uint64, buf []byte) error {
	if err := checkBounds(s, offset, uint64(len(buf))); err != nil {
		return err
	}
	copy(buf, s.data[offset:offset+uint64(len(buf))])
	return nil
}

func (s *MMapSource) Close() error {
	if err := s.data.Unmap(); err != nil {
		s.file.Close()
		return &refserrors.IOError{Err: err}
	}
	return s.file.Close()
}
