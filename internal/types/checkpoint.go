package types

// VolumeHeaderSignature is the magic value at the start of the ReFS boot
// sector identifying the volume as ReFS.
const VolumeHeaderSignature = "ReFS"

// Recognized metadata block sizes. v1 volumes use 16 KiB blocks; v3 volumes
// use 4 KiB physical blocks, four of which back one logical metadata block.
const (
	MetadataBlockSizeV1     = 16 * 1024
	PhysicalBlockSizeV3     = 4 * 1024
	MetadataBlockSizeV3     = 4 * PhysicalBlockSizeV3
)

// VolumeHeader is decoded once per volume image, from a fixed offset, and
// used to build the IOContext.
type VolumeHeader struct {
	Identifier UUID
	Version    FormatVersion

	BytesPerSector     uint32
	MetadataBlockSize  uint32
	VolumeSize         uint64

	// ContainerSize is populated for v3 volumes only; it is recorded for
	// future container-table remapping and does not gate core traversal.
	ContainerSize uint64
}

// IOContext carries the format-wide invariants every layer above the Block
// Source needs. It is built once when a volume is opened and lives for the
// lifetime of the open handle.
type IOContext struct {
	BytesPerSector    uint32
	MetadataBlockSize uint32
	VolumeSize        uint64
	Version           FormatVersion
	ContainerSize     uint64

	// Aborted is an abort flag carried with the context. No read path in
	// this module polls it, so setting it does not interrupt an operation
	// and nothing returns ErrAborted.
	Aborted *bool
}

// Superblock carries the volume identifier and the two checkpoint block
// references used to locate the authoritative checkpoint.
type Superblock struct {
	Version    FormatVersion
	Identifier UUID

	PrimaryCheckpointBlockNumber   uint64
	SecondaryCheckpointBlockNumber uint64

	// SelfReference is populated for v3 superblocks only.
	SelfReference BlockReference
}

// TreeSlot names the well-known checkpoint slots this library interprets.
// Other slots are implementation-reserved and may be skipped.
type TreeSlot int

const (
	TreeSlotObjects      TreeSlot = 0
	TreeSlotContainerA   TreeSlot = 7
	TreeSlotContainerB   TreeSlot = 8
)

// Checkpoint names the roots of every top-level ministore tree at a
// consistent point in time.
type Checkpoint struct {
	SequenceNumber uint64

	// TreeReferences is indexed by TreeSlot; slots not present on this
	// volume are left as the zero BlockReference.
	TreeReferences map[TreeSlot]BlockReference
}

// ObjectsTreeReference returns the block reference for the objects tree,
// and whether it was present in this checkpoint.
func (c Checkpoint) ObjectsTreeReference() (BlockReference, bool) {
	ref, ok := c.TreeReferences[TreeSlotObjects]
	return ref, ok
}
