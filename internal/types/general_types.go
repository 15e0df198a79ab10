// Package types defines the on-disk structures of the ReFS metadata format,
// versions 1 and 3. Every multi-byte scalar is little-endian.
//
// Field names follow the terminology used throughout the component design:
// "unknown" fields are read and bounds-checked where they gate downstream
// offsets, but their semantics are not interpreted.
package types

import (
	"fmt"
	"time"
)

// FormatVersion identifies which on-disk shape a decoder must use for
// headers, block references, and metadata blocks. It is threaded through
// decoders as a single tag, resolved once per block, rather than branched on
// per field.
type FormatVersion struct {
	Major uint8
	Minor uint8
}

func (v FormatVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// IsV1 reports whether the format uses the compact v1 header/reference shapes.
func (v FormatVersion) IsV1() bool { return v.Major == 1 }

// IsV3 reports whether the format uses the mirrored v3 header/reference shapes.
func (v FormatVersion) IsV3() bool { return v.Major == 3 }

// Supported reports whether the major version is one this library understands.
func (v FormatVersion) Supported() bool { return v.Major == 1 || v.Major == 3 }

// UUID is a 16-byte volume identifier, stored verbatim on disk.
type UUID [16]byte

// FileTime is a Windows FILETIME: a 64-bit count of 100-nanosecond intervals
// since 1601-01-01 00:00:00 UTC.
type FileTime uint64

// epochOffset100ns is the number of 100ns intervals between the FILETIME
// epoch (1601-01-01) and the Unix epoch (1970-01-01).
const epochOffset100ns = 116444736000000000

// Time converts a FILETIME into a UTC time.Time.
func (ft FileTime) Time() time.Time {
	unix100ns := int64(ft) - epochOffset100ns
	return time.Unix(0, unix100ns*100).UTC()
}

// FileAttributeFlags mirrors the Windows FILE_ATTRIBUTE_* bit field stored
// with directory entries and file records.
type FileAttributeFlags uint32

const (
	FileAttributeReadOnly  FileAttributeFlags = 0x00000001
	FileAttributeHidden    FileAttributeFlags = 0x00000002
	FileAttributeSystem    FileAttributeFlags = 0x00000004
	FileAttributeDirectory FileAttributeFlags = 0x00000010
	FileAttributeArchive   FileAttributeFlags = 0x00000020
	FileAttributeReparse   FileAttributeFlags = 0x00000400
	FileAttributeCompress  FileAttributeFlags = 0x00000800
)

func (f FileAttributeFlags) IsDirectory() bool { return f&FileAttributeDirectory != 0 }
func (f FileAttributeFlags) IsReadOnly() bool  { return f&FileAttributeReadOnly != 0 }
func (f FileAttributeFlags) IsHidden() bool    { return f&FileAttributeHidden != 0 }
func (f FileAttributeFlags) IsSystem() bool    { return f&FileAttributeSystem != 0 }
