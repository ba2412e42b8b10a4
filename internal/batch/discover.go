package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"bennypowers.dev/decomment/internal/collections"
)

// shouldSkipDirectory reports hidden directories and dependency directories,
// which never hold build output
func shouldSkipDirectory(name string) bool {
	if name != "." && strings.HasPrefix(name, ".") {
		return true
	}
	return name == "node_modules"
}

// matchesAnyPattern reports whether relPath matches at least one pattern.
// Paths are compared with forward slashes on every platform.
func matchesAnyPattern(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, normalized); err == nil && matched {
			return true
		}
	}
	return false
}

// excludesDirectory reports whether an exclude pattern covers everything under relDir
func excludesDirectory(relDir string, patterns []string) bool {
	return matchesAnyPattern(relDir, patterns) || matchesAnyPattern(relDir+"/", patterns)
}

// Discover walks each root and returns the files matching include and not
// matching exclude, in lexical order without duplicates. A root that is a
// file is returned as is. Roots that cannot be read are reported together.
func Discover(roots []string, include, exclude []string) ([]string, error) {
	files := collections.NewSet[string]()
	var errs []error

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to read %s: %w", root, err))
			continue
		}
		if !info.IsDir() {
			files.Add(filepath.Clean(root))
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // Skip unreadable entries, continue walking
			}

			relPath, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}

			if d.IsDir() {
				if path != root && (shouldSkipDirectory(d.Name()) || excludesDirectory(relPath, exclude)) {
					return filepath.SkipDir
				}
				return nil
			}

			if matchesAnyPattern(relPath, include) && !matchesAnyPattern(relPath, exclude) {
				files.Add(path)
			}
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to walk %s: %w", root, err))
		}
	}

	return collections.Sorted(files), errors.Join(errs...)
}
