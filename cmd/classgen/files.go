package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/grindlemire/go-classes/internal/config"
)

const sourceExt = ".classes"

// collectFiles finds all .classes files from the given paths.
// Supports:
//   - Direct file paths: "button.classes"
//   - Directory paths: "./ui" (non-recursive)
//   - Recursive pattern: "./..."
//
// Directory and recursive lookups apply the configured include and exclude
// patterns; files named explicitly only need the .classes extension.
func collectFiles(cfg *config.Config, paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, path := range paths {
		if root, ok := strings.CutSuffix(path, "..."); ok {
			root = strings.TrimSuffix(root, "/")
			if root == "" {
				root = "."
			}

			err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					if p != root && (strings.HasPrefix(d.Name(), ".") || cfg.Excluded(p)) {
						return filepath.SkipDir
					}
					return nil
				}
				if cfg.Match(p) {
					add(p)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("walking %s: %w", root, err)
			}
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if info.IsDir() {
			entries, err := os.ReadDir(path)
			if err != nil {
				return nil, fmt.Errorf("reading directory %s: %w", path, err)
			}
			for _, entry := range entries {
				p := filepath.Join(path, entry.Name())
				if !entry.IsDir() && cfg.Match(p) {
					add(p)
				}
			}
		} else if strings.HasSuffix(path, sourceExt) {
			add(path)
		}
	}

	return files, nil
}
