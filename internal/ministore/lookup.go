package ministore

import (
	"github.com/deploymenttheory/go-refs/internal/metadata"
	"github.com/deploymenttheory/go-refs/internal/refserrors"
	"github.com/deploymenttheory/go-refs/internal/types"
)

// NodeLoader loads the node a block reference points to. Implementations
// read the referenced metadata block from the Block Source and decode it
// with ReadNode.
type NodeLoader func(ref types.BlockReference) (*types.Node, error)

// Lookup searches node for key, descending through branch (non-leaf) nodes
// via loader until a leaf is reached. It returns the leaf record whose key
// equals key, or refserrors.ErrKeyNotFound if no such record exists.
func Lookup(node *types.Node, key []byte, version types.FormatVersion, loader NodeLoader) (*types.NodeRecord, error) {
	for {
		if node.IsLeaf() {
			return lookupLeaf(node, key)
		}

		child, err := descendBranch(node, key, version, loader)
		if err != nil {
			return nil, err
		}
		node = child
	}
}

// lookupLeaf implements the required leaf-node lookup: scan records in
// order; the first record whose key compares >= target terminates the scan.
func lookupLeaf(node *types.Node, key []byte) (*types.NodeRecord, error) {
	for i := range node.Records {
		cmp := CompareKeys(node.Records[i].Key, key)
		if cmp == 0 {
			return &node.Records[i], nil
		}
		if cmp > 0 {
			break
		}
	}
	return nil, refserrors.ErrKeyNotFound
}

// descendBranch implements the optional branch-node traversal: the value of
// the largest record whose key <= target is a block reference to the child
// to descend into.
func descendBranch(node *types.Node, key []byte, version types.FormatVersion, loader NodeLoader) (*types.Node, error) {
	var best *types.NodeRecord
	for i := range node.Records {
		if CompareKeys(node.Records[i].Key, key) <= 0 {
			best = &node.Records[i]
			continue
		}
		break
	}
	if best == nil {
		if len(node.Records) == 0 {
			return nil, refserrors.ErrKeyNotFound
		}
		best = &node.Records[0]
	}

	ref, err := metadata.DecodeBlockReference(best.Value, version)
	if err != nil {
		return nil, err
	}
	return loader(*ref)
}
