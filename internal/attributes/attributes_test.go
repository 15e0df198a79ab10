package attributes

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-refs/internal/ministore"
	"github.com/deploymenttheory/go-refs/internal/types"
)

var testVersion = types.FormatVersion{Major: 3}

func attributeKeyBytes(attributeType uint32, name string) []byte {
	key := make([]byte, types.AttributeKeyHeaderSize)
	binary.LittleEndian.PutUint32(key[8:12], attributeType)
	binary.LittleEndian.PutUint16(key[12:14], uint16(len(name)*2))
	return append(key, utf16le(name)...)
}

func utf16le(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		out = append(out, byte(r), byte(r>>8))
	}
	return out
}

func residentValueBytes(payload []byte) []byte {
	v := make([]byte, types.ResidentAttributeHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(v[4:8], types.ResidentAttributeHeaderSize)
	binary.LittleEndian.PutUint32(v[8:12], uint32(len(payload)))
	copy(v[types.ResidentAttributeHeaderSize:], payload)
	return v
}

// dataRunBytes encodes one data run as the flat 32-byte struct carried
// directly as a nested-node record value.
func dataRunBytes(r types.DataRun) []byte {
	raw := make([]byte, types.DataRunSize)
	binary.LittleEndian.PutUint64(raw[0:8], r.LogicalOffset)
	binary.LittleEndian.PutUint64(raw[8:16], r.Size)
	binary.LittleEndian.PutUint64(raw[16:24], r.PhysicalOffset)
	return raw
}

// buildRecord writes one node record (header, key, value) at offset within
// buf, matching the layout internal/ministore decodes, and returns the
// position just past it.
func buildRecord(buf []byte, offset uint32, key, value []byte) uint32 {
	size := uint32(types.NodeRecordHeaderSize) + uint32(len(key)) + uint32(len(value))
	keyOffset := uint16(types.NodeRecordHeaderSize)
	keySize := uint16(len(key))
	valueOffset := keyOffset + keySize
	valueSize := uint16(len(value))

	rec := buf[offset:]
	binary.LittleEndian.PutUint32(rec[0:4], size)
	binary.LittleEndian.PutUint16(rec[4:6], keyOffset)
	binary.LittleEndian.PutUint16(rec[6:8], keySize)
	binary.LittleEndian.PutUint16(rec[8:10], 0)
	binary.LittleEndian.PutUint16(rec[10:12], valueOffset)
	binary.LittleEndian.PutUint16(rec[12:14], valueSize)
	copy(rec[keyOffset:uint32(keyOffset)+uint32(keySize)], key)
	copy(rec[valueOffset:uint32(valueOffset)+uint32(valueSize)], value)

	return offset + size
}

// nonResidentValueBytes builds a non-resident attribute's value: a nested
// ministore node whose header data is the allocated/data/valid size triple
// and whose records are data runs, keyed by run index.
func nonResidentValueBytes(runs []types.DataRun) []byte {
	const nodeHeaderOffset = 4 + types.NonResidentAttributeHeaderSize

	header := make([]byte, types.NonResidentAttributeHeaderSize)
	var dataSize uint64
	for _, r := range runs {
		dataSize += r.Size
	}
	binary.LittleEndian.PutUint64(header[12:20], dataSize)
	binary.LittleEndian.PutUint64(header[20:28], dataSize)
	binary.LittleEndian.PutUint64(header[28:36], dataSize)

	recordSize := uint32(types.NodeRecordHeaderSize) + 4 + types.DataRunSize
	dataAreaSize := recordSize * uint32(len(runs))
	nodeBase := make([]byte, ministore.NodeHeaderSize+dataAreaSize+4*uint32(len(runs)))

	pos := uint32(ministore.NodeHeaderSize)
	offsetsStart := pos + dataAreaSize
	for i, r := range runs {
		key := make([]byte, 4)
		binary.LittleEndian.PutUint32(key, uint32(i))
		pos = buildRecord(nodeBase, pos, key, dataRunBytes(r))
		binary.LittleEndian.PutUint32(nodeBase[offsetsStart+uint32(i)*4:], uint32(ministore.NodeHeaderSize)+uint32(i)*recordSize)
	}

	binary.LittleEndian.PutUint32(nodeBase[0:4], uint32(ministore.NodeHeaderSize))      // data_area_start
	binary.LittleEndian.PutUint32(nodeBase[4:8], offsetsStart)                          // data_area_end
	nodeBase[13] = types.NodeTypeLeaf
	binary.LittleEndian.PutUint32(nodeBase[16:20], offsetsStart)                        // record_offsets_start
	binary.LittleEndian.PutUint32(nodeBase[20:24], uint32(len(runs)))                   // record_offsets_count
	binary.LittleEndian.PutUint32(nodeBase[24:28], offsetsStart+4*uint32(len(runs)))    // record_offsets_end

	buf := make([]byte, nodeHeaderOffset+len(nodeBase))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(nodeHeaderOffset))
	copy(buf[4:nodeHeaderOffset], header)
	copy(buf[nodeHeaderOffset:], nodeBase)
	return buf
}

func TestListResidentAttribute(t *testing.T) {
	payload := []byte("hello refs")
	node := &types.Node{
		Records: []types.NodeRecord{
			{Key: attributeKeyBytes(0x80, ""), Value: residentValueBytes(payload)},
		},
	}

	values, err := List(node, testVersion)
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.NotNil(t, values[0].Resident)
	assert.Equal(t, payload, values[0].Resident.InlineData)
	assert.True(t, values[0].Key.IsUnnamed())
}

func TestListNonResidentAttributeWithDataRuns(t *testing.T) {
	runs := []types.DataRun{
		{LogicalOffset: 0, Size: 4, PhysicalOffset: 1000},
		{LogicalOffset: 4, Size: 8, PhysicalOffset: 2000},
	}
	node := &types.Node{
		Records: []types.NodeRecord{
			{
				Key:   attributeKeyBytes(0x80, ""),
				Flags: types.NodeRecordFlagNonResident,
				Value: nonResidentValueBytes(runs),
			},
		},
	}

	values, err := List(node, testVersion)
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.NotNil(t, values[0].NonResident)
	assert.Equal(t, runs, values[0].NonResident.Runs)
}

func TestFindUnnamedStream(t *testing.T) {
	node := &types.Node{
		Records: []types.NodeRecord{
			{Key: attributeKeyBytes(0x80, "named"), Value: residentValueBytes([]byte("x"))},
			{Key: attributeKeyBytes(0x80, ""), Value: residentValueBytes([]byte("unnamed"))},
		},
	}

	values, err := List(node, testVersion)
	require.NoError(t, err)

	found, ok := Find(values, 0x80)
	require.True(t, ok)
	assert.Equal(t, []byte("unnamed"), found.Resident.InlineData)
}

func TestDataRunByteRange(t *testing.T) {
	run := types.DataRun{LogicalOffset: 2, Size: 3, PhysicalOffset: 100}
	offset, length := run.ByteRange(4096)
	assert.EqualValues(t, 100*4096, offset)
	assert.EqualValues(t, 3*4096, length)
}
