// Package objects implements the objects tree: a B+-tree keyed by 64-bit
// object identifier whose leaf values are block references to the root
// ministore node of each object's own tree.
package objects

import (
	"github.com/deploymenttheory/go-refs/internal/blocksource"
	"github.com/deploymenttheory/go-refs/internal/metadata"
	"github.com/deploymenttheory/go-refs/internal/ministore"
	"github.com/deploymenttheory/go-refs/internal/refserrors"
	"github.com/deploymenttheory/go-refs/internal/types"
)

// Tree wraps an open objects tree: the Block Source, IO context, and the
// tree's root node, ready for GetObjectTree lookups.
type Tree struct {
	src   blocksource.Source
	ioctx *types.IOContext
	root  *types.Node
}

// Open loads the objects tree's root node via ref, as named by checkpoint
// slot 0.
func Open(src blocksource.Source, ioctx *types.IOContext, ref types.BlockReference) (*Tree, error) {
	root, err := LoadNode(src, ioctx, ref)
	if err != nil {
		return nil, err
	}
	return &Tree{src: src, ioctx: ioctx, root: root}, nil
}

// GetObjectTree resolves the root ministore node of the object identified by
// id: it builds the object's 16-byte key, searches the objects tree, and
// loads the block reference found as the matching record's value.
func (t *Tree) GetObjectTree(id uint64) (*types.Node, error) {
	key := types.ObjectKey(id)

	rec, err := ministore.Lookup(t.root, key, t.ioctx.Version, t.loader())
	if err != nil {
		if err == refserrors.ErrKeyNotFound {
			return nil, refserrors.ErrObjectNotFound
		}
		return nil, err
	}

	ref, err := metadata.DecodeBlockReference(rec.Value, t.ioctx.Version)
	if err != nil {
		return nil, err
	}
	return LoadNode(t.src, t.ioctx, *ref)
}

func (t *Tree) loader() ministore.NodeLoader {
	return func(ref types.BlockReference) (*types.Node, error) {
		return LoadNode(t.src, t.ioctx, ref)
	}
}

// LoadNode reads the metadata block ref points to and decodes it as a
// ministore node. If the primary copy fails to read or decode and ref
// carries mirror copies (v3 only), each mirror is tried in turn before the
// primary's error is returned.
func LoadNode(src blocksource.Source, ioctx *types.IOContext, ref types.BlockReference) (*types.Node, error) {
	count := ref.MirrorBlockCount()
	var firstErr error
	for i := 0; i < count; i++ {
		blockNumber := ref.BlockNumbers[i]
		node, err := readNodeAt(src, ioctx, blockNumber, ref)
		if err == nil {
			return node, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func readNodeAt(src blocksource.Source, ioctx *types.IOContext, blockNumber uint64, ref types.BlockReference) (*types.Node, error) {
	data, err := blocksource.Read(src, blockNumber*uint64(ioctx.MetadataBlockSize), uint64(ioctx.MetadataBlockSize))
	if err != nil {
		return nil, err
	}
	return ministore.ReadNode(data, ioctx.Version, ref)
}
