package workspace

import (
	"context"
	"io"
)

// BlobRef identifies an uploaded object
type BlobRef struct {
	Path string
}

// BlobStore stores attachment bytes under hierarchical paths
type BlobStore interface {
	// Upload writes body to path, replacing any existing object
	Upload(ctx context.Context, path string, body io.Reader, size int64, contentType string) (BlobRef, error)

	// PublicURL returns a URL the client can fetch the object from
	PublicURL(ctx context.Context, ref BlobRef) (string, error)

	// Delete removes the object at path
	Delete(ctx context.Context, path string) error
}
