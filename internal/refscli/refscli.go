// Package refscli holds the plumbing shared by the refsinfo and refsls
// commands: opening a volume image through the preferred Block Source, and
// mapping library errors onto exit codes. Grounded on the teacher's
// cmd/root.go, which centralizes global flags and the Execute/exit wrapper
// every subcommand shares.
package refscli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/deploymenttheory/go-refs/internal/blocksource"
	"github.com/deploymenttheory/go-refs/internal/config"
	"github.com/deploymenttheory/go-refs/internal/refserrors"
	"github.com/deploymenttheory/go-refs/pkg/refs"
)

// OpenVolume memory-maps path and opens it as a ReFS volume, wrapping the
// mapping in a metadata block cache when cfg.CacheEnabled says to. The
// caller owns the returned Volume and must Close it.
func OpenVolume(path string, cfg *config.Config) (*refs.Volume, error) {
	src, err := blocksource.OpenMMap(path)
	if err != nil {
		return nil, err
	}

	var opened blocksource.Source = src
	if cfg.CacheEnabled {
		cached, cacheErr := blocksource.NewCachingSource(src, cfg.CacheBlocks)
		if cacheErr == nil {
			opened = cached
		}
	}

	vol, err := refs.Open(opened)
	if err != nil {
		src.Close()
		return nil, err
	}
	return vol, nil
}

// ExitCode maps a returned error onto the process exit code this library's
// CLI tools use: 0 for success, 1 for a recognized not-found condition, 2
// for any other decode or I/O failure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, refserrors.ErrObjectNotFound) || errors.Is(err, refserrors.ErrKeyNotFound) {
		return 1
	}
	return 2
}

// Fail prints err to stderr and exits the process with the code ExitCode
// assigns it.
func Fail(err error) {
	fmt.Fprintf(os.Stderr, "refs: %v\n", err)
	os.Exit(ExitCode(err))
}

// ResolveDirectory walks path, a "/"-separated sequence of directory names
// relative to the volume's root, returning the Directory named by its last
// component. An empty or "/" path returns the root directory.
func ResolveDirectory(vol *refs.Volume, path string) (*refs.Directory, error) {
	dir, err := vol.RootDirectory()
	if err != nil {
		return nil, err
	}

	for _, name := range splitPath(path) {
		entries, err := dir.Entries()
		if err != nil {
			return nil, err
		}
		entry, ok := findEntry(entries, name)
		if !ok {
			return nil, fmt.Errorf("%s: %w", name, refserrors.ErrObjectNotFound)
		}
		dir, err = vol.OpenDirectory(entry)
		if err != nil {
			return nil, err
		}
	}

	return dir, nil
}

func findEntry(entries []refs.Entry, name string) (refs.Entry, bool) {
	for _, e := range entries {
		if e.Name() == name {
			return e, true
		}
	}
	return refs.Entry{}, false
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
