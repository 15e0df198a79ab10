package types

// DataRunSize is the fixed on-disk size of one data run.
const DataRunSize = 32

// DataRun locates one contiguous extent of a stream's logical data on disk.
// All three numeric fields are expressed in blocks of the volume's
// metadata-block (cluster) size.
type DataRun struct {
	LogicalOffset  uint64
	Size           uint64
	PhysicalOffset uint64
}

// ByteRange returns the byte offset and length this run covers within the
// volume image, given the volume's block size. It does not account for
// container remapping.
func (r DataRun) ByteRange(blockSize uint32) (offset uint64, length uint64) {
	return r.PhysicalOffset * uint64(blockSize), r.Size * uint64(blockSize)
}

// LogicalByteRange returns the byte offset and length this run covers within
// the stream's logical extent.
func (r DataRun) LogicalByteRange(blockSize uint32) (offset uint64, length uint64) {
	return r.LogicalOffset * uint64(blockSize), r.Size * uint64(blockSize)
}
