// Package container decodes the v3 container table: the optional tree,
// rooted at checkpoint slots 7 and 8, that records the physical-block
// ranges backing each container. Parsing it keeps the dependency this
// library's design anticipates; remapping through it during traversal is
// left to a future extension (SPEC_FULL.md §3).
package container

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-refs/internal/refserrors"
	"github.com/deploymenttheory/go-refs/internal/types"
)

// containerTableEntrySize is the fixed on-disk size of one container table
// leaf record's value.
const containerTableEntrySize = 24

// List decodes every container table entry in node's leaf records.
func List(node *types.Node) ([]types.ContainerTableEntry, error) {
	entries := make([]types.ContainerTableEntry, 0, len(node.Records))
	for i := range node.Records {
		entry, err := decodeEntry(node.Records[i].Value)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

func decodeEntry(raw []byte) (*types.ContainerTableEntry, error) {
	if len(raw) < containerTableEntrySize {
		return nil, &refserrors.BoundsError{Field: "container table entry", Value: uint64(len(raw)), Limit: containerTableEntrySize}
	}
	return &types.ContainerTableEntry{
		ContainerID:       binary.LittleEndian.Uint64(raw[0:8]),
		PhysicalBlockBase: binary.LittleEndian.Uint64(raw[8:16]),
		BlockCount:        binary.LittleEndian.Uint64(raw[16:24]),
	}, nil
}
