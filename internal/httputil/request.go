package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"studynotes/internal/config"
	wsmodels "studynotes/internal/domain/models/workspace"
)

// maxJSONBody limits JSON request bodies
const maxJSONBody = 1 << 20

// ParseJSON decodes JSON from the request body into the given destination.
// It limits the request body size to prevent abuse and provides clear error messages.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// ParseMultipart reads a multipart form of at most config.MaxUploadBytes.
func ParseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit)
		}
		return fmt.Errorf("invalid multipart form: %w", err)
	}
	return nil
}

// FormUploads opens every file sent under field. The caller closes the
// returned closers once the uploads have been consumed.
func FormUploads(r *http.Request, field string) ([]wsmodels.AttachmentUpload, func(), error) {
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}
	if r.MultipartForm == nil {
		return nil, closeAll, nil
	}

	headers := r.MultipartForm.File[field]
	uploads := make([]wsmodels.AttachmentUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("open upload %q: %w", fh.Filename, err)
		}
		closers = append(closers, f.Close)
		uploads = append(uploads, wsmodels.AttachmentUpload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return uploads, closeAll, nil
}

// FormJSON decodes a JSON-encoded multipart field into dest. A missing
// field leaves dest untouched.
func FormJSON(r *http.Request, field string, dest interface{}) error {
	raw := r.FormValue(field)
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	return nil
}
