// Package pathresolver resolves command names against PATH and enumerates
// executable names for completion.
package pathresolver

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Resolver resolves command names to absolute executable paths using a
// fixed, ordered list of directories (normally PATH, split by the caller).
type Resolver struct {
	dirs []string
}

// New creates a Resolver over dirs, in search order.
func New(dirs []string) *Resolver {
	return &Resolver{dirs: dirs}
}

// Split breaks a PATH-style string into its non-empty directory entries.
func Split(path string) []string {
	var dirs []string
	for _, d := range strings.Split(path, string(os.PathListSeparator)) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Resolve looks up cmd. If cmd contains a '/', it is treated as a direct
// path and returned only if it names a regular executable file. Otherwise
// each PATH directory is tried in order; the first regular executable
// match is returned. ok is false if nothing matched.
func (r *Resolver) Resolve(cmd string) (path string, ok bool) {
	if strings.ContainsRune(cmd, '/') {
		if isRegularExecutable(cmd) {
			return cmd, true
		}
		return "", false
	}

	for _, dir := range r.dirs {
		candidate := filepath.Join(dir, cmd)
		if isRegularExecutable(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// Completions enumerates executable names across every PATH directory
// whose name starts with prefix, deduplicated (first occurrence wins).
// Order is unspecified; callers that need a stable order should sort.
func (r *Resolver) Completions(prefix string) []string {
	seen := make(map[string]bool)
	var names []string

	for _, dir := range r.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasPrefix(name, prefix) || seen[name] {
				continue
			}
			if !isRegularExecutable(filepath.Join(dir, name)) {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// SortedCompletions is Completions with a stable lexical order, the shape
// the line editor displays candidates in.
func (r *Resolver) SortedCompletions(prefix string) []string {
	names := r.Completions(prefix)
	sort.Strings(names)
	return names
}

func isRegularExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return isExecutableMode(info.Mode())
}

func isExecutableMode(mode os.FileMode) bool {
	return mode&0111 != 0
}
