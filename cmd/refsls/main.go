// Command refsls lists the entries of a ReFS directory.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-refs/internal/config"
	"github.com/deploymenttheory/go-refs/internal/refscli"
	"github.com/deploymenttheory/go-refs/internal/refsdump"
)

var (
	listPath string
	debug    bool
)

var rootCmd = &cobra.Command{
	Use:   "refsls <image>",
	Short: "List the entries of a ReFS directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(args[0])
	},
}

func init() {
	rootCmd.Flags().StringVarP(&listPath, "path", "p", "/", "directory path to list, relative to the volume root")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "print the underlying ministore node before the listing")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		refscli.Fail(err)
	}
}

func runList(imagePath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	vol, err := refscli.OpenVolume(imagePath, cfg)
	if err != nil {
		return err
	}
	defer vol.Close()

	dir, err := refscli.ResolveDirectory(vol, listPath)
	if err != nil {
		return err
	}

	if debug {
		refsdump.Node(os.Stderr, dir.DebugNode())
	}

	entries, err := dir.Entries()
	if err != nil {
		return err
	}

	for _, e := range entries {
		marker := "-"
		if e.IsDirectory() {
			marker = "d"
		}
		fmt.Printf("%s %s\n", marker, e.Name())
	}

	return nil
}
