package types

// Ministore B+-tree node layout. A metadata block carrying a node begins
// with a MetadataBlockHeader, followed by a 4-byte node_header_offset, an
// optional tree header, the NodeHeader itself, and finally the records and
// record-offsets array described by the header.

// NodeTypeLeaf, masked with NodeTypeMask, marks a node as a leaf.
const (
	NodeTypeMask  = 0x03
	NodeTypeLeaf  = 0x02
	NodeFlagRoot  = 0x02
)

// NodeHeader is the fixed-layout header of a ministore B+-tree node. All
// offsets are relative to the node header's own start.
type NodeHeader struct {
	DataAreaStart uint32
	DataAreaEnd   uint32
	UnusedDataSize uint32

	NodeLevel     uint8
	NodeTypeFlags uint8

	RecordOffsetsStart uint32
	RecordOffsetsCount uint32
	RecordOffsetsEnd   uint32
}

// IsLeaf reports whether this node is a leaf (as opposed to a branch/index node).
func (h NodeHeader) IsLeaf() bool { return h.NodeTypeFlags&NodeTypeMask == NodeTypeLeaf }

// IsRoot reports whether this node is marked as the root of its tree.
func (h NodeHeader) IsRoot() bool { return h.NodeTypeFlags&NodeFlagRoot != 0 }

// TreeHeader is an optional, tree-specific header present between the
// node_header_offset field and the node header itself, when
// node_header_offset leaves room for it.
type TreeHeader struct {
	Present bool
	Raw     []byte
}

// NodeRecordFlagNonResident marks a record's value as itself a sub-node or
// data-run list rather than inline bytes.
const NodeRecordFlagNonResident = 0x0008

// NodeRecord is one (key, value, flags) entry in a ministore node.
type NodeRecord struct {
	// Size is the total on-disk length of this record, header plus key plus
	// value plus any padding.
	Size uint32

	Flags uint16

	KeyOffset   uint16
	KeySize     uint16
	ValueOffset uint16
	ValueSize   uint16

	Key   []byte
	Value []byte
}

// NodeRecordHeaderSize is the fixed size of a node record's header: the u32
// size field plus five u16 fields.
const NodeRecordHeaderSize = 4 + 2*5

// IsNonResident reports whether this record's value is a sub-node or
// data-run list rather than inline bytes.
func (r NodeRecord) IsNonResident() bool { return r.Flags&NodeRecordFlagNonResident != 0 }

// Node is a fully decoded ministore B+-tree node: its header plus an ordered
// array of records. Records are kept in key-sorted (ascending,
// right-to-left byte comparison) order as stored on disk.
type Node struct {
	Header     NodeHeader
	TreeHeader TreeHeader
	Records    []NodeRecord

	// BlockReference is the reference this node was loaded through, kept so
	// branch-node traversal can report which child it descended into.
	BlockReference BlockReference
}

func (n Node) IsLeaf() bool { return n.Header.IsLeaf() }
func (n Node) IsRoot() bool { return n.Header.IsRoot() }
