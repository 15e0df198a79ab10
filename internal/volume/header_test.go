package volume

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-refs/internal/blocksource"
	"github.com/deploymenttheory/go-refs/internal/types"
)

func buildV1Header(volumeSize uint64) []byte {
	data := make([]byte, VolumeHeaderSize)
	copy(data[offSignature:offSignature+4], types.VolumeHeaderSignature)
	binary.LittleEndian.PutUint64(data[offVolumeSize:offVolumeSize+8], volumeSize)
	binary.LittleEndian.PutUint32(data[offBytesPerSector:offBytesPerSector+4], 512)
	binary.LittleEndian.PutUint32(data[offMetadataBlockSize:offMetadataBlockSize+4], types.MetadataBlockSizeV1)
	data[offMajorVersion] = 1
	data[offMinorVersion] = 2
	return data
}

func TestReadVolumeHeaderV1(t *testing.T) {
	data := buildV1Header(2080374784)
	src := blocksource.NewMemorySource(data)

	h, err := ReadVolumeHeader(src)
	require.NoError(t, err)
	assert.EqualValues(t, 2080374784, h.VolumeSize)
	assert.EqualValues(t, 512, h.BytesPerSector)
	assert.EqualValues(t, types.MetadataBlockSizeV1, h.MetadataBlockSize)
	assert.Equal(t, types.FormatVersion{Major: 1, Minor: 2}, h.Version)
}

func TestReadVolumeHeaderRejectsBadSignature(t *testing.T) {
	data := buildV1Header(1024)
	copy(data[offSignature:offSignature+4], "XXXX")
	src := blocksource.NewMemorySource(data)

	_, err := ReadVolumeHeader(src)
	assert.Error(t, err)
}

func TestReadVolumeHeaderRejectsUnsupportedVersion(t *testing.T) {
	data := buildV1Header(1024)
	data[offMajorVersion] = 9
	src := blocksource.NewMemorySource(data)

	_, err := ReadVolumeHeader(src)
	assert.Error(t, err)
}

func TestReadVolumeHeaderRejectsMismatchedBlockSize(t *testing.T) {
	data := buildV1Header(1024)
	binary.LittleEndian.PutUint32(data[offMetadataBlockSize:offMetadataBlockSize+4], 8192)
	src := blocksource.NewMemorySource(data)

	_, err := ReadVolumeHeader(src)
	assert.Error(t, err)
}

func TestOpenBuildsIOContext(t *testing.T) {
	data := buildV1Header(2080374784)
	src := blocksource.NewMemorySource(data)

	ioctx, err := Open(src)
	require.NoError(t, err)
	assert.EqualValues(t, 2080374784, ioctx.VolumeSize)
	assert.False(t, *ioctx.Aborted)
}
