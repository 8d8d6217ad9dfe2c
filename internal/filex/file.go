package filex

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// MaxAttachmentSize bounds files picked from disk for upload.
const MaxAttachmentSize = 20 << 20

var ErrTooLarge = errors.New("file too large")

// File is a local file read into memory for upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReadAttachment reads the file at path and sniffs its content type.
func ReadAttachment(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > MaxAttachmentSize {
		return nil, fmt.Errorf("%s: %w", path, ErrTooLarge)
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxAttachmentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > MaxAttachmentSize {
		return nil, fmt.Errorf("%s: %w", path, ErrTooLarge)
	}

	return &File{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

// EnsureParentDir creates the directory holding path with owner-only permissions.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
