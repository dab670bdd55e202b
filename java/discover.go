package java

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	ignore "github.com/sabhiram/go-gitignore"
)

var skipDirs = map[string]struct{}{
	"node_modules": {},
	"target":       {},
	"build":        {},
	"out":          {},
}

// IsInputFile reports whether path names a file Load understands.
func IsInputFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".java", ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Discover lists the input files under paths in lexical order. Directories
// are walked honoring their .gitignore and the exclude patterns, which use
// gitignore syntax. Files named directly are always included.
func Discover(paths []string, exclude []string) ([]string, error) {
	var excluded *ignore.GitIgnore
	if len(exclude) > 0 {
		excluded = ignore.CompileIgnoreLines(exclude...)
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, "discover %s", root)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		gi := loadGitignore(root)
		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			name := d.Name()
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil || rel == "." {
				return nil
			}
			if d.IsDir() {
				if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				if matches(gi, rel+"/") || matches(excluded, rel+"/") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(name, ".") || d.Type()&os.ModeSymlink != 0 || !IsInputFile(name) {
				return nil
			}
			if matches(gi, rel) || matches(excluded, rel) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walk %s", root)
		}
	}
	sort.Strings(files)
	return files, nil
}

func matches(gi *ignore.GitIgnore, rel string) bool {
	return gi != nil && gi.MatchesPath(filepath.ToSlash(rel))
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
