package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"sync"

	"studynotes/internal/domain"
	wsrepo "studynotes/internal/domain/repositories/workspace"
)

// BlobStore is an in-memory wsrepo.BlobStore. Fault ops are "blobs.upload",
// "blobs.url" and "blobs.delete", keyed by path.
type BlobStore struct {
	baseURL string
	mu      sync.RWMutex
	objects map[string]blob

	Faults *Faults
}

type blob struct {
	data        []byte
	contentType string
}

var _ wsrepo.BlobStore = (*BlobStore)(nil)

// NewBlobStore creates an empty blob store whose public URLs start with
// baseURL.
func NewBlobStore(baseURL string) *BlobStore {
	return &BlobStore{
		baseURL: baseURL,
		objects: make(map[string]blob),
		Faults:  newFaults(),
	}
}

func (b *BlobStore) Upload(ctx context.Context, path string, body io.Reader, size int64, contentType string) (wsrepo.BlobRef, error) {
	if err := b.Faults.hit("blobs.upload", path); err != nil {
		return wsrepo.BlobRef{}, err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return wsrepo.BlobRef{}, fmt.Errorf("failed to read content: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return wsrepo.BlobRef{}, fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[path] = blob{data: data, contentType: contentType}
	return wsrepo.BlobRef{Path: path}, nil
}

func (b *BlobStore) PublicURL(ctx context.Context, ref wsrepo.BlobRef) (string, error) {
	if err := b.Faults.hit("blobs.url", ref.Path); err != nil {
		return "", err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if _, ok := b.objects[ref.Path]; !ok {
		return "", &domain.NotFoundError{Message: "blob not found: " + ref.Path}
	}
	u, err := url.JoinPath(b.baseURL, ref.Path)
	if err != nil {
		return "", fmt.Errorf("build blob url: %w", err)
	}
	return u, nil
}

func (b *BlobStore) Delete(ctx context.Context, path string) error {
	if err := b.Faults.hit("blobs.delete", path); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[path]; !ok {
		return &domain.NotFoundError{Message: "blob not found: " + path}
	}
	delete(b.objects, path)
	return nil
}

// Get returns a copy of the stored bytes.
func (b *BlobStore) Get(path string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	obj, ok := b.objects[path]
	if !ok {
		return nil, false
	}
	return bytes.Clone(obj.data), true
}

// Paths lists every stored path in sorted order.
func (b *BlobStore) Paths() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.objects))
	for p := range b.objects {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Object returns a copy of the stored bytes together with their content
// type.
func (b *BlobStore) Object(path string) (data []byte, contentType string, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	obj, ok := b.objects[path]
	if !ok {
		return nil, "", false
	}
	return bytes.Clone(obj.data), obj.contentType, true
}
