// Package shellenv is the single place this shell reads PATH, HOME, and
// HISTFILE from the process environment. No other package may read these
// variables directly: ambient configuration (internal/config) governs
// everything else, but these three stay exclusively process-environment
// controlled, matching how every POSIX shell treats them.
package shellenv

import (
	"os"
	"path/filepath"

	"github.com/arvalan/poshell/internal/pathresolver"
)

const defaultHistFile = ".poshell_history"

// Path returns the raw PATH environment variable.
func Path() string {
	return os.Getenv("PATH")
}

// PathDirs splits PATH into its ordered, non-empty directories.
func PathDirs() []string {
	return pathresolver.Split(Path())
}

// Home returns the user's home directory, falling back to "." if HOME is
// unset (matching the degraded behaviour of a non-login shell).
func Home() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	return "."
}

// HistFile returns the path to the history file: HISTFILE if set, else
// ~/.poshell_history.
func HistFile() string {
	if hist := os.Getenv("HISTFILE"); hist != "" {
		return hist
	}
	return filepath.Join(Home(), defaultHistFile)
}
