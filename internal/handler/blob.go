package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"studynotes/internal/httputil"
	"studynotes/internal/repository/memory"
)

// URLSigner issues short-lived download URLs for stored objects.
type URLSigner interface {
	SignedURL(ctx context.Context, path string) (string, error)
}

// BlobHandler serves the stable attachment URLs stored on notes. With the
// in-memory blob store it writes the bytes; with a signer it redirects to a
// freshly signed URL.
type BlobHandler struct {
	objects *memory.BlobStore
	signer  URLSigner
	logger  *slog.Logger
}

// NewBlobHandler serves objects kept by the in-memory blob store
func NewBlobHandler(blobs *memory.BlobStore) *BlobHandler {
	return &BlobHandler{objects: blobs}
}

// NewSignedBlobHandler redirects every request to a signed URL
func NewSignedBlobHandler(signer URLSigner, logger *slog.Logger) *BlobHandler {
	return &BlobHandler{signer: signer, logger: logger}
}

// GetBlob serves one attachment
// GET /blobs/{path...}
func (h *BlobHandler) GetBlob(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.PathValue("path"), "/")
	if path == "" {
		httputil.RespondError(w, http.StatusNotFound, "blob not found")
		return
	}
	if h.signer != nil {
		h.redirect(w, r, path)
		return
	}

	data, contentType, ok := h.objects.Object(path)
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "blob not found")
		return
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *BlobHandler) redirect(w http.ResponseWriter, r *http.Request, path string) {
	signed, err := h.signer.SignedURL(r.Context(), path)
	if err != nil {
		h.logger.Error("failed to sign blob url", "path", path, "error", err)
		httputil.RespondError(w, http.StatusBadGateway, "blob storage unavailable")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, signed, http.StatusFound)
}
