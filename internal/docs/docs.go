// Package docs manages uploaded-document metadata in the user record and
// the stored files themselves.
//
// The document store only persists [document.FileRef] metadata; the bytes
// live under an upload root owned by [Files], laid out as
// <userKey>/<filename>.
package docs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"studyhub/internal/document"
)

// DefaultCategory groups documents uploaded without a category.
const DefaultCategory = "Others"

// seedCategories are always present in a grouped listing, even when empty.
var seedCategories = []string{"Notes", "Assignments", "Modules", DefaultCategory} //nolint:gochecknoglobals // package-level constant

// Upload errors.
var (
	// ErrFileType rejects uploads whose extension is not allowed.
	ErrFileType = errors.New("file type not allowed")

	// ErrBlankFilename rejects uploads without a usable filename.
	ErrBlankFilename = errors.New("no file selected")

	errPathOutsideRoot = errors.New("path escapes upload root")
)

// allowedExtensions are the upload types accepted, lower-cased without dot.
var allowedExtensions = map[string]bool{ //nolint:gochecknoglobals // package-level constant
	"pdf":  true,
	"png":  true,
	"jpg":  true,
	"jpeg": true,
}

// Add appends a document reference. A blank category defaults to
// [DefaultCategory].
func Add(doc *document.UserDocument, name, relPath, category string) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}

	doc.Documents = append(doc.Documents, document.FileRef{
		Name:     name,
		Path:     relPath,
		Category: category,
	})
}

// DeleteByPath removes every reference whose storage path matches relPath.
// An unknown path mutates nothing.
func DeleteByPath(doc *document.UserDocument, relPath string) {
	kept := doc.Documents[:0]

	for _, ref := range doc.Documents {
		if ref.Path != relPath {
			kept = append(kept, ref)
		}
	}

	doc.Documents = kept
}

// GroupByCategory buckets references for display. The four seed categories
// are always present; categories found only in the data are added as
// encountered.
func GroupByCategory(doc *document.UserDocument) map[string][]document.FileRef {
	groups := make(map[string][]document.FileRef, len(seedCategories))
	for _, category := range seedCategories {
		groups[category] = []document.FileRef{}
	}

	for _, ref := range doc.Documents {
		category := ref.Category
		if category == "" {
			category = DefaultCategory
		}

		groups[category] = append(groups[category], ref)
	}

	return groups
}

// Files stores uploaded bytes under a root directory, one folder per user
// key. It is the file-handling collaborator: callers persist the returned
// relative path as [document.FileRef] metadata.
type Files struct {
	root string
}

// NewFiles creates the upload root if needed.
func NewFiles(root string) (*Files, error) {
	if root == "" {
		return nil, errors.New("open uploads: root directory is empty")
	}

	err := os.MkdirAll(root, 0o750)
	if err != nil {
		return nil, fmt.Errorf("open uploads: create root: %w", err)
	}

	return &Files{root: filepath.Clean(root)}, nil
}

// Store writes an upload under the user's folder and returns its
// storage-relative path ("<userKey>/<name>"). The filename is sanitized
// and its extension checked against the allowed set.
func (f *Files) Store(userKey, filename string, src io.Reader) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return "", ErrBlankFilename
	}

	if !allowedExtension(name) {
		return "", fmt.Errorf("%w: %s", ErrFileType, filename)
	}

	dir := filepath.Join(f.root, userKey)

	err := os.MkdirAll(dir, 0o750)
	if err != nil {
		return "", fmt.Errorf("creating upload folder: %w", err)
	}

	path := filepath.Join(dir, name)

	err = atomic.WriteFile(path, src)
	if err != nil {
		return "", fmt.Errorf("storing upload: %w", err)
	}

	return userKey + "/" + name, nil
}

// Remove deletes the stored file at a storage-relative path. A missing
// file is not an error; the metadata may outlive the bytes.
func (f *Files) Remove(relPath string) error {
	full, err := f.Resolve(relPath)
	if err != nil {
		return err
	}

	rmErr := os.Remove(full)
	if rmErr != nil && !os.IsNotExist(rmErr) {
		return fmt.Errorf("removing upload: %w", rmErr)
	}

	return nil
}

// Resolve maps a storage-relative path to an absolute one, rejecting paths
// that traverse outside the upload root.
func (f *Files) Resolve(relPath string) (string, error) {
	full := filepath.Join(f.root, filepath.FromSlash(relPath))
	if !strings.HasPrefix(full, f.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", errPathOutsideRoot, relPath)
	}

	return full, nil
}

// SanitizeFilename strips path components and replaces anything outside
// [A-Za-z0-9._-] with underscores.
func SanitizeFilename(filename string) string {
	base := filepath.Base(filepath.FromSlash(filename))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}

	var builder strings.Builder

	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			builder.WriteRune(r)
		default:
			builder.WriteRune('_')
		}
	}

	name := strings.Trim(builder.String(), "._")
	if name == "" {
		return ""
	}

	return name
}

func allowedExtension(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))

	return allowedExtensions[ext]
}
