package utils

import (
	"path/filepath"
	"strings"
)

// RelativeSpecifier returns the import specifier for target as seen from
// fromFile's directory, always dot-prefixed the way module resolvers expect.
func RelativeSpecifier(fromFile, target string) string {
	rel, err := filepath.Rel(filepath.Dir(fromFile), target)
	if err != nil {
		return "./" + filepath.ToSlash(target)
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

// MirrorPath maps a file under srcRoot to the same relative location under
// outRoot. Files outside srcRoot land at outRoot's top level.
func MirrorPath(srcRoot, outRoot, path string) string {
	rel, err := filepath.Rel(srcRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	return filepath.Join(outRoot, rel)
}
