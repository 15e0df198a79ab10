package types

// RootDirectoryObjectID is the well-known object identifier of the volume's
// root directory.
const RootDirectoryObjectID uint64 = 0x600

// VolumeInformationObjectID is the well-known object identifier of the
// pseudo-object carrying volume-wide metadata, including the volume label.
// Supplemental to spec.md: grounded on libfsrefs' handling of the "$Volume"
// object in original_source/libfsrefs_file_system.c.
const VolumeInformationObjectID uint64 = 0x10

// VolumeLabelAttributeType is the attribute_type of the resident attribute
// carrying the UTF-16LE volume label on the volume-information object.
const VolumeLabelAttributeType uint32 = 0x00000002

// ObjectKeySize is the size of an objects-tree record key: 8 zero bytes
// followed by the 8-byte little-endian object identifier.
const ObjectKeySize = 16

// ObjectKey builds the 16-byte key used to look up an object in the objects
// tree: the low 8 bytes are zero, the high 8 bytes are the LE object
// identifier.
func ObjectKey(id uint64) []byte {
	key := make([]byte, ObjectKeySize)
	putUint64LE(key[8:16], id)
	return key
}

// ObjectIdentifierFromKey extracts the object identifier from a 16-byte
// objects-tree key.
func ObjectIdentifierFromKey(key []byte) uint64 {
	if len(key) < ObjectKeySize {
		return 0
	}
	return getUint64LE(key[8:16])
}

func putUint64LE(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getUint64LE(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
