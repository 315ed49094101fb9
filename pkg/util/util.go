// Package util holds file system helpers and diff rendering shared by the
// document loader and the CLI.
package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// IsFileExist reports whether path exists.
func IsFileExist(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// IsDirectory reports whether path, after following symlinks, is a
// directory.
func IsDirectory(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return fi.IsDir(), nil
}

// RecursiveFilesLookup returns the files under root whose base name matches
// pattern, with symlinks resolved, in lexical order. A root naming a file
// yields that file.
func RecursiveFilesLookup(root, pattern string) ([]string, error) {
	return lookup(root, pattern, false)
}

// RecursiveDirsLookup returns the directories under root, root included,
// whose base name matches pattern.
func RecursiveDirsLookup(root, pattern string) ([]string, error) {
	return lookup(root, pattern, true)
}

// lookup walks root without descending into symlinked directories. Matching
// entries are resolved and kept when their kind is the one asked for.
func lookup(root, pattern string, dirs bool) ([]string, error) {
	root, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, err
	}
	isDir, err := IsDirectory(root)
	if err != nil {
		return nil, err
	}
	if !isDir {
		if dirs {
			return nil, nil
		}
		return []string{root}, nil
	}

	seen := make(map[string]bool)
	var result []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		match, err := filepath.Match(pattern, d.Name())
		if err != nil || !match {
			return err
		}
		target, err := filepath.EvalSymlinks(path)
		if err != nil {
			return err
		}
		targetIsDir, err := IsDirectory(target)
		if err != nil {
			return err
		}
		if targetIsDir == dirs && !seen[target] {
			seen[target] = true
			result = append(result, target)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(result)
	return result, nil
}
