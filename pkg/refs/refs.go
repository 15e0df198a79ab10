// Package refs is the public, read-only interface to a ReFS volume image: a
// thin facade over the internal volume, checkpoint, object-tree, directory,
// and attribute decoders. Grounded in shape on the teacher's
// pkg/services/interfaces.go, which exposes a small set of handle types
// (ContainerInfo, VolumeInfo, FileInfo) over the same kind of layered
// internal decoders.
package refs

import (
	"github.com/deploymenttheory/go-refs/internal/attributes"
	"github.com/deploymenttheory/go-refs/internal/blocksource"
	"github.com/deploymenttheory/go-refs/internal/checkpoint"
	"github.com/deploymenttheory/go-refs/internal/directory"
	"github.com/deploymenttheory/go-refs/internal/objects"
	"github.com/deploymenttheory/go-refs/internal/refserrors"
	"github.com/deploymenttheory/go-refs/internal/textconv"
	"github.com/deploymenttheory/go-refs/internal/types"
	"github.com/deploymenttheory/go-refs/internal/volume"
)

// Open opens src as a ReFS volume: it reads the volume header, resolves the
// authoritative checkpoint, and loads the objects tree's root node. The
// returned Volume retains src for the lifetime of the handle; callers are
// responsible for closing it.
func Open(src blocksource.Source) (*Volume, error) {
	ioctx, err := volume.Open(src)
	if err != nil {
		return nil, err
	}

	sb, cp, err := checkpoint.Resolve(src, ioctx)
	if err != nil {
		return nil, err
	}

	ref, ok := cp.ObjectsTreeReference()
	if !ok {
		return nil, &refserrors.FormatError{Context: "checkpoint carries no objects tree reference"}
	}
	tree, err := objects.Open(src, ioctx, ref)
	if err != nil {
		return nil, err
	}

	return &Volume{
		src:        src,
		ioctx:      ioctx,
		superblock: sb,
		checkpoint: cp,
		tree:       tree,
	}, nil
}

// Volume is an open handle onto a ReFS volume image.
type Volume struct {
	src        blocksource.Source
	ioctx      *types.IOContext
	superblock *types.Superblock
	checkpoint *types.Checkpoint
	tree       *objects.Tree
}

// Identifier returns the volume's on-disk UUID.
func (v *Volume) Identifier() types.UUID { return v.superblock.Identifier }

// Version returns the ReFS major.minor format version.
func (v *Volume) Version() types.FormatVersion { return v.ioctx.Version }

// BytesPerSector returns the volume's sector size.
func (v *Volume) BytesPerSector() uint32 { return v.ioctx.BytesPerSector }

// MetadataBlockSize returns the volume's logical metadata block size.
func (v *Volume) MetadataBlockSize() uint32 { return v.ioctx.MetadataBlockSize }

// Label returns the volume label, read from the volume-information object's
// resident label attribute. It returns ("", false) if the object or the
// attribute is absent.
func (v *Volume) Label() (string, bool) {
	node, err := v.tree.GetObjectTree(types.VolumeInformationObjectID)
	if err != nil {
		return "", false
	}
	values, err := attributes.List(node, v.ioctx.Version)
	if err != nil {
		return "", false
	}
	attr, ok := attributes.Find(values, types.VolumeLabelAttributeType)
	if !ok || attr.Resident == nil {
		return "", false
	}
	name, err := textconv.UTF16LEToUTF8(attr.Resident.InlineData)
	if err != nil {
		return "", false
	}
	return name, true
}

// RootDirectory resolves the volume's root directory.
func (v *Volume) RootDirectory() (*Directory, error) {
	return v.Directory(types.RootDirectoryObjectID)
}

// Directory resolves the directory identified by objectID.
func (v *Volume) Directory(objectID uint64) (*Directory, error) {
	node, err := v.tree.GetObjectTree(objectID)
	if err != nil {
		return nil, err
	}
	return &Directory{volume: v, objectID: objectID, node: node}, nil
}

// Close releases the underlying Block Source.
func (v *Volume) Close() error { return v.src.Close() }

// Directory is a handle onto one resolved directory object.
type Directory struct {
	volume   *Volume
	objectID uint64
	node     *types.Node
}

// ObjectIdentifier returns the directory's object identifier.
func (d *Directory) ObjectIdentifier() uint64 { return d.objectID }

// DebugNode exposes the directory's underlying ministore node, for use by
// debug tooling only.
func (d *Directory) DebugNode() *types.Node { return d.node }

// Entries decodes the directory's entries, sorted by name.
func (d *Directory) Entries() ([]Entry, error) {
	decoded, err := directory.List(d.node, d.volume.ioctx.Version)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(decoded))
	for i := range decoded {
		name, err := textconv.UTF16LEToUTF8(decoded[i].Key.NameUTF16)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{name: name, raw: decoded[i]})
	}
	return entries, nil
}

// Entry is one decoded directory entry: a named file or subdirectory.
type Entry struct {
	name string
	raw  types.DirectoryEntry
}

// Name returns the entry's UTF-8 decoded name.
func (e Entry) Name() string { return e.name }

// IsDirectory reports whether this entry names a subdirectory.
func (e Entry) IsDirectory() bool { return e.raw.Directory != nil }

// FileAttributeFlags returns the entry's Windows file attribute bits.
func (e Entry) FileAttributeFlags() types.FileAttributeFlags {
	if e.raw.Directory != nil {
		return e.raw.Directory.FileAttributeFlags
	}
	return e.raw.File.FileAttributeFlags
}

// TargetObjectIdentifier returns the subdirectory object a directory entry
// resolves to. Valid only when e.IsDirectory(); a file entry's attribute
// data is embedded in the entry itself, not addressed by object identifier.
func (e Entry) TargetObjectIdentifier() uint64 {
	return e.raw.Directory.TargetObjectIdentifier
}

// OpenDirectory resolves a subdirectory entry to its Directory. It returns
// an error if e does not name a subdirectory.
func (v *Volume) OpenDirectory(e Entry) (*Directory, error) {
	if !e.IsDirectory() {
		return nil, &refserrors.FormatError{Context: "entry is not a subdirectory"}
	}
	return v.Directory(e.TargetObjectIdentifier())
}

// OpenFile resolves a file entry to its File. It returns an error if e
// names a subdirectory. A file's attribute streams are carried directly in
// its directory-entry value, as a nested ministore node; there is no
// separate object-tree lookup.
func (v *Volume) OpenFile(e Entry) (*File, error) {
	if e.IsDirectory() {
		return nil, &refserrors.FormatError{Context: "entry is not a file"}
	}
	return &File{volume: v, values: e.raw.File}, nil
}

// File is a handle onto one resolved file directory-entry.
type File struct {
	volume *Volume
	values *types.FileValues
}

// AttributeStreams decodes the file's attribute-stream records: the unnamed
// $DATA stream plus any named alternate streams.
func (f *File) AttributeStreams() ([]types.AttributeValue, error) {
	return attributes.List(f.values.AttributesNode, f.volume.ioctx.Version)
}
