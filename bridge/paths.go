package bridge

import (
	"path/filepath"
	"strings"

	"codemux/lspmux/utils"

	"github.com/cockroachdb/errors"
)

// AbsolutePath resolves a project-relative path (absolute paths are
// accepted too) and confines the result to the project root.
func (b *Bridge) AbsolutePath(relPath string) (string, error) {
	if relPath == "" {
		return "", errors.New("path cannot be empty")
	}

	path := relPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.projectRoot, path)
	}
	path = filepath.Clean(path)

	if !withinRoot(path, b.projectRoot) {
		return "", errors.Newf("path %q escapes the project root", relPath)
	}

	return path, nil
}

// RelativePath converts an absolute path or file:// URI into a path
// relative to the project root. Paths outside the root come back as plain
// paths (a file:// prefix is stripped) without being made relative.
func (b *Bridge) RelativePath(path string) string {
	path = utils.URIToFilePath(path)

	if !filepath.IsAbs(path) {
		return path
	}

	rel, err := filepath.Rel(b.projectRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}

	return rel
}

// FileURI returns the file:// URI for a project-relative path.
func (b *Bridge) FileURI(relPath string) (string, error) {
	abs, err := b.AbsolutePath(relPath)
	if err != nil {
		return "", err
	}
	return utils.FilePathToURI(abs), nil
}

// withinRoot reports whether a cleaned absolute path sits inside root.
func withinRoot(path, root string) bool {
	root = filepath.Clean(root)

	if path == root {
		return true
	}

	return strings.HasPrefix(path, root+string(filepath.Separator))
}
