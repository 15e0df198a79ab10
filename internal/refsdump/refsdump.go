// Package refsdump is a minimal debug pretty-printer for decoded ministore
// nodes and checkpoints, used only behind refsls's --debug flag.
package refsdump

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/go-refs/internal/types"
)

// Node writes a one-line-per-record summary of node to w.
func Node(w io.Writer, node *types.Node) {
	kind := "branch"
	if node.IsLeaf() {
		kind = "leaf"
	}
	fmt.Fprintf(w, "node: level=%d kind=%s root=%t records=%d\n",
		node.Header.NodeLevel, kind, node.IsRoot(), len(node.Records))
	for i, rec := range node.Records {
		fmt.Fprintf(w, "  [%d] key=%x value=%d-bytes non_resident=%t\n",
			i, rec.Key, len(rec.Value), rec.IsNonResident())
	}
}

// Checkpoint writes a one-line-per-tree-reference summary of cp to w.
func Checkpoint(w io.Writer, cp *types.Checkpoint) {
	fmt.Fprintf(w, "checkpoint: sequence_number=%d tree_references=%d\n",
		cp.SequenceNumber, len(cp.TreeReferences))
	for slot, ref := range cp.TreeReferences {
		fmt.Fprintf(w, "  slot=%d primary_block=%d\n", slot, ref.Primary())
	}
}
