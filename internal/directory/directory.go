// Package directory decodes ReFS directory-entry records: the key
// (record-type marker, entry type, UTF-16LE name) and the type-dependent
// value (subdirectory metadata or a file's value header), and walks a
// directory object's ministore node in key order.
package directory

import (
	"encoding/binary"
	"sort"

	"github.com/deploymenttheory/go-refs/internal/ministore"
	"github.com/deploymenttheory/go-refs/internal/refserrors"
	"github.com/deploymenttheory/go-refs/internal/textconv"
	"github.com/deploymenttheory/go-refs/internal/types"
)

// directoryEntryRecordType is the record_type_marker value carried by every
// directory-entry key; records with any other marker (e.g. the directory's
// own self-descriptor record) are skipped during enumeration.
const directoryEntryRecordType = 0x0010

// List decodes every directory-entry record in node's leaf records and
// returns them ordered the way a directory listing is presented: by name,
// ascending. The underlying ministore ordering is ministore.CompareKeys over
// the raw key bytes (key length, then bytes compared from the last one
// down), not by name, so entries are re-sorted here.
func List(node *types.Node, version types.FormatVersion) ([]types.DirectoryEntry, error) {
	entries := make([]types.DirectoryEntry, 0, len(node.Records))

	for i := range node.Records {
		rec := &node.Records[i]

		key, err := decodeKey(rec.Key)
		if err != nil {
			return nil, err
		}
		if key.RecordTypeMarker != directoryEntryRecordType {
			continue
		}

		entry := types.DirectoryEntry{Key: *key}
		switch key.EntryType {
		case types.DirectoryEntryTypeDirectory:
			values, err := decodeDirectoryValues(rec.Value)
			if err != nil {
				return nil, err
			}
			entry.Directory = values
		case types.DirectoryEntryTypeFile:
			values, err := decodeFileValues(rec.Value, version)
			if err != nil {
				return nil, err
			}
			entry.File = values
		default:
			return nil, &refserrors.FormatError{Context: "unrecognized directory entry type"}
		}

		entries = append(entries, entry)
	}

	names := make([]string, len(entries))
	for i := range entries {
		name, err := textconv.UTF16LEToUTF8(entries[i].Key.NameUTF16)
		if err != nil {
			return nil, err
		}
		names[i] = name
	}

	sort.SliceStable(entries, func(i, j int) bool { return names[i] < names[j] })

	return entries, nil
}

func decodeKey(raw []byte) (*types.DirectoryEntryKey, error) {
	if len(raw) < types.DirectoryEntryKeyHeaderSize {
		return nil, &refserrors.BoundsError{Field: "directory entry key", Value: uint64(len(raw)), Limit: types.DirectoryEntryKeyHeaderSize}
	}
	return &types.DirectoryEntryKey{
		RecordTypeMarker: binary.LittleEndian.Uint16(raw[0:2]),
		EntryType:        types.DirectoryEntryType(binary.LittleEndian.Uint16(raw[2:4])),
		NameUTF16:        append([]byte(nil), raw[types.DirectoryEntryKeyHeaderSize:]...),
	}, nil
}

// decodeDirectoryValues reads a subdirectory entry's value directly: the
// target object_identifier, an 8-byte unknown, the four FILETIME fields, a
// 16-byte unknown, and file_attribute_flags.
func decodeDirectoryValues(raw []byte) (*types.DirectoryValues, error) {
	if len(raw) < types.DirectoryValuesSize {
		return nil, &refserrors.BoundsError{Field: "directory values", Value: uint64(len(raw)), Limit: types.DirectoryValuesSize}
	}
	return &types.DirectoryValues{
		TargetObjectIdentifier: binary.LittleEndian.Uint64(raw[0:8]),
		CreationTime:           types.FileTime(binary.LittleEndian.Uint64(raw[16:24])),
		ModificationTime:       types.FileTime(binary.LittleEndian.Uint64(raw[24:32])),
		EntryModificationTime:  types.FileTime(binary.LittleEndian.Uint64(raw[32:40])),
		AccessTime:             types.FileTime(binary.LittleEndian.Uint64(raw[40:48])),
		FileAttributeFlags:     types.FileAttributeFlags(binary.LittleEndian.Uint32(raw[64:68])),
	}, nil
}

// decodeFileValues reads a type-1 entry's value as a nested ministore node:
// its header data is the file_values struct (the four FILETIME fields,
// file_attribute_flags, the file-system identifier, and the data sizes),
// and its records are the file's attribute-stream records.
func decodeFileValues(raw []byte, version types.FormatVersion) (*types.FileValues, error) {
	node, err := ministore.ReadNestedNode(raw, version)
	if err != nil {
		return nil, err
	}
	if !node.TreeHeader.Present || len(node.TreeHeader.Raw) < types.FileValuesHeaderSize {
		return nil, &refserrors.BoundsError{Field: "file values header", Value: uint64(len(node.TreeHeader.Raw)), Limit: types.FileValuesHeaderSize}
	}
	h := node.TreeHeader.Raw

	fv := &types.FileValues{
		CreationTime:          types.FileTime(binary.LittleEndian.Uint64(h[0:8])),
		ModificationTime:      types.FileTime(binary.LittleEndian.Uint64(h[8:16])),
		EntryModificationTime: types.FileTime(binary.LittleEndian.Uint64(h[16:24])),
		AccessTime:            types.FileTime(binary.LittleEndian.Uint64(h[24:32])),
		FileAttributeFlags:    types.FileAttributeFlags(binary.LittleEndian.Uint32(h[32:36])),
		DataSize:              binary.LittleEndian.Uint64(h[64:72]),
		AllocatedDataSize:     binary.LittleEndian.Uint64(h[72:80]),
		AttributesNode:        node,
	}
	copy(fv.FileSystemIdentifier[:], h[40:56])
	return fv, nil
}
