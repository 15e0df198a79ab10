package blocksource

import (
	"fmt"
	"io"
	"os"

	"github.com/deploymenttheory/go-refs/internal/refserrors"
)

// FileSource is a Block Source backed by a plain os.File, read with
// os.File.ReadAt. Grounded on the teacher's
// internal/services/container_reader.go NewContainerReader, which opens the
// image, stats it for size, and reads positioned blocks without an implicit
// cursor. The image size is taken once at open: bytes appended to the image
// afterwards are not readable through this source (reads past the recorded
// size fail with ErrEndOfMedia). Use this over MMapSource when the
// underlying path isn't mmap-able (a pipe or remote mount proxied through a
// local fd).
type FileSource struct {
	file *os.File
	size uint64
}

// OpenFile opens path for read-only, positioned access.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("refs: open volume image: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("refs: stat volume image: %w", err)
	}
	return &FileSource{file: f, size: uint64(info.Size())}, nil
}

func (s *FileSource) Size() uint64 { return s.size }

func (s *FileSource) ReadAt(offset uint64, buf []byte) error {
	if err := checkBounds(s, offset, uint64(len(buf))); err != nil {
		return err
	}
	n, err := s.file.ReadAt(buf, int64(offset))
	if err != nil && err != io.EOF {
		return &refserrors.IOError{Offset: offset, Err: err}
	}
	if n < len(buf) {
		return refserrors.ErrEndOfMedia
	}
	return nil
}

func (s *FileSource) Close() error {
	return s.file.Close()
}
