package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFileType is returned when an upload's extension is not on
// the allow-list. It is raised before any filesystem or database write.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// ErrFileNotFound is returned when a stored file cannot be opened by name.
var ErrFileNotFound = errors.New("file not found")

var allowedUploadExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".pdf":  {},
	".txt":  {},
	".mp3":  {},
	".mp4":  {},
	".wav":  {},
	".doc":  {},
	".docx": {},
}

// UploadExtension extracts the lower-cased extension of name and reports
// whether it is on the allow-list.
func UploadExtension(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(SanitizeFilename(name)))
	_, ok := allowedUploadExtensions[ext]
	return ext, ok
}

// SanitizeFilename strips any directory components and path-traversal
// characters from a client-supplied filename.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "." || name == "/" {
		return ""
	}
	return name
}

type FileStore interface {
	// Save writes the contents of r to a file with the given name.
	Save(name string, r io.Reader) error

	// Remove deletes the file with the given name.
	Remove(name string) error

	// Open opens the file with the given name for reading. It returns
	// ErrFileNotFound when the name fails sanitization or no such file
	// exists.
	Open(name string) (*os.File, error)
}

// LocalFileStore stores uploads as sanitized filenames in a single flat
// directory.
type LocalFileStore struct {
	dir string
}

func NewLocalFileStore(dir string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("MkdirAll: %w", err)
	}
	return &LocalFileStore{dir: dir}, nil
}

func (s *LocalFileStore) Save(name string, r io.Reader) error {
	name = SanitizeFilename(name)
	if name == "" {
		return ErrFileNotFound
	}

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("OpenFile: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("Copy: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("Close: %w", err)
	}

	return nil
}

func (s *LocalFileStore) Remove(name string) error {
	name = SanitizeFilename(name)
	if name == "" {
		return ErrFileNotFound
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("Remove: %w", err)
	}
	return nil
}

func (s *LocalFileStore) Open(name string) (*os.File, error) {
	sanitized := SanitizeFilename(name)
	if sanitized == "" || sanitized != name {
		return nil, ErrFileNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, sanitized))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("Open: %w", err)
	}
	return f, nil
}
