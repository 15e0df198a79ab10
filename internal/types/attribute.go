package types

// AttributeKeyHeaderSize is the fixed portion of an attribute record's key
// preceding the UTF-16LE name bytes: 8 unknown bytes, a 4-byte
// attribute_type, and a 2-byte name length.
const AttributeKeyHeaderSize = 8 + 4 + 2

// AttributeKey is the decoded key of one attribute-stream record.
type AttributeKey struct {
	AttributeType uint32

	// NameUTF16 is the raw UTF-16LE name bytes; empty for the unnamed
	// ("$DATA") stream.
	NameUTF16 []byte
}

// IsUnnamed reports whether this is the file's unnamed data stream.
func (k AttributeKey) IsUnnamed() bool { return len(k.NameUTF16) == 0 }

// ResidentAttributeHeaderSize is the fixed size of a resident attribute's
// value: an unknown leading u32, the inline_data_offset/inline_data_size
// pair, and a run of further unknown fields padding it out to 60 bytes.
const ResidentAttributeHeaderSize = 60

// ResidentAttributeValue is a stream whose payload bytes are stored inline
// in the attribute record.
type ResidentAttributeValue struct {
	InlineDataOffset uint32
	InlineDataSize   uint32
	InlineData       []byte
}

// NonResidentAttributeHeaderSize is the fixed size of the header data
// carried by a non-resident attribute's nested ministore node: an unknown
// leading field, the allocated/data/valid size triple, and trailing unknown
// bytes.
const NonResidentAttributeHeaderSize = 96

// NonResidentAttributeValue is a stream whose payload is stored elsewhere on
// the volume, located via a list of data runs.
type NonResidentAttributeValue struct {
	AllocatedDataSize uint64
	DataSize          uint64
	ValidDataSize     uint64

	Runs []DataRun
}

// AttributeValue is a fully decoded attribute-stream record: its key plus
// exactly one of a resident or non-resident value.
type AttributeValue struct {
	Key AttributeKey

	Resident    *ResidentAttributeValue
	NonResident *NonResidentAttributeValue
}
