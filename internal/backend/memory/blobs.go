package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/friendszone/internal/backend"
)

// URLScheme prefixes locators handed out by Blobs.
const URLScheme = "memory://"

type blob struct {
	data        []byte
	contentType string
}

// Blobs implements backend.Blobs in memory.
type Blobs struct {
	mu    sync.RWMutex
	blobs map[string]blob
}

func NewBlobs() *Blobs {
	return &Blobs{blobs: map[string]blob{}}
}

func (b *Blobs) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("upload %s: got %d bytes, want %d", path, len(data), size)
	}
	b.mu.Lock()
	b.blobs[path] = blob{data: data, contentType: contentType}
	b.mu.Unlock()
	return nil
}

func (b *Blobs) DownloadURL(ctx context.Context, path string) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if _, ok := b.blobs[path]; !ok {
		return "", fmt.Errorf("%s: %w", path, backend.ErrNotFound)
	}
	return URLScheme + path, nil
}

// Object returns a stored blob.
func (b *Blobs) Object(path string) ([]byte, string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.blobs[path]
	return o.data, o.contentType, ok
}

// Len reports the number of stored blobs.
func (b *Blobs) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.blobs)
}
