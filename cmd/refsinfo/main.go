// Command refsinfo prints a ReFS volume's header-level identity: its UUID,
// label, format version, sector size, and metadata block size.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-refs/internal/config"
	"github.com/deploymenttheory/go-refs/internal/refscli"
)

var rootCmd = &cobra.Command{
	Use:   "refsinfo <image>",
	Short: "Print ReFS volume identity and layout information",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(args[0])
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		refscli.Fail(err)
	}
}

func runInfo(path string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	vol, err := refscli.OpenVolume(path, cfg)
	if err != nil {
		return err
	}
	defer vol.Close()

	id := vol.Identifier()
	fmt.Printf("identifier:          %x\n", id)
	if label, ok := vol.Label(); ok {
		fmt.Printf("label:               %s\n", label)
	} else {
		fmt.Printf("label:               (none)\n")
	}
	fmt.Printf("version:             %s\n", vol.Version())
	fmt.Printf("bytes per sector:    %d\n", vol.BytesPerSector())
	fmt.Printf("metadata block size: %d\n", vol.MetadataBlockSize())

	return nil
}
