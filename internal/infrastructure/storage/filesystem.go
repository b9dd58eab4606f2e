package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SavedBlob describes a stored upload: Path is the storage-local
// location, URL the public-relative address it is served from.
type SavedBlob struct {
	Path string
	URL  string
}

// Store is the blob-storage collaborator for tenant-owned uploads.
// Blobs live under a per-slug directory; their lifetime is owned by the
// calendar record.
type Store interface {
	Save(slug, filename string, r io.Reader) (SavedBlob, error)
	Remove(path string) error
}

// FilesystemStore keeps blobs on local disk under a base directory and
// serves them from a URL prefix (mounted by the HTTP layer).
type FilesystemStore struct {
	baseDir   string
	urlPrefix string
}

// NewFilesystemStore creates a store rooted at baseDir. Blobs are
// addressed publicly as {urlPrefix}/{slug}/{filename}.
func NewFilesystemStore(baseDir, urlPrefix string) *FilesystemStore {
	return &FilesystemStore{
		baseDir:   baseDir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}
}

// BaseDir returns the directory blobs are stored under.
func (s *FilesystemStore) BaseDir() string { return s.baseDir }

func (s *FilesystemStore) Save(slug, filename string, r io.Reader) (SavedBlob, error) {
	// Strip any path components from the client-supplied filename.
	filename = filepath.Base(filename)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return SavedBlob{}, errors.New("invalid filename")
	}

	dir := filepath.Join(s.baseDir, slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return SavedBlob{}, fmt.Errorf("create upload dir: %w", err)
	}

	dest := filepath.Join(dir, filename)
	f, err := os.Create(dest)
	if err != nil {
		return SavedBlob{}, fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dest)
		return SavedBlob{}, fmt.Errorf("write upload: %w", err)
	}

	return SavedBlob{
		Path: dest,
		URL:  fmt.Sprintf("%s/%s/%s", s.urlPrefix, slug, filename),
	}, nil
}

// Remove deletes a previously saved blob. A missing file is not an
// error: cleanup is best-effort.
func (s *FilesystemStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
