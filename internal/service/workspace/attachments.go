package workspace

import (
	"context"
	"path"
	"strings"

	"studynotes/internal/config"
	"studynotes/internal/domain"
	wsmodels "studynotes/internal/domain/models/workspace"
)

// attachmentName reduces a client-supplied file name to a single path
// segment. Returns "" when nothing usable is left.
func attachmentName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == ".." || len(name) > config.MaxAttachmentNameLength {
		return ""
	}
	return name
}

// uploadAttachments uploads files one after another under the note's blob
// prefix. A failed upload is logged and skipped; the rest still run. The
// successfully uploaded attachments are returned in input order.
func (s *Session) uploadAttachments(ctx context.Context, userID, noteID string, files []wsmodels.AttachmentUpload) []wsmodels.Attachment {
	if len(files) == 0 {
		return nil
	}
	if s.blobs == nil {
		s.logger.Warn("blob store not configured, skipping attachments",
			"note_id", noteID,
			"count", len(files),
		)
		return nil
	}

	uploaded := make([]wsmodels.Attachment, 0, len(files))
	for _, file := range files {
		att, err := s.uploadAttachment(ctx, userID, noteID, file)
		if err != nil {
			s.logger.Warn("attachment upload failed",
				"note_id", noteID,
				"name", file.Name,
				"error", err,
			)
			continue
		}
		uploaded = append(uploaded, att)
	}

	s.logger.Debug("attachments uploaded",
		"note_id", noteID,
		"uploaded", len(uploaded),
		"requested", len(files),
	)
	return uploaded
}

func (s *Session) uploadAttachment(ctx context.Context, userID, noteID string, file wsmodels.AttachmentUpload) (wsmodels.Attachment, error) {
	name := attachmentName(file.Name)
	if name == "" {
		return wsmodels.Attachment{}, domain.NewValidationError("invalid attachment name %q", file.Name)
	}
	if file.Body == nil {
		return wsmodels.Attachment{}, domain.NewValidationError("attachment %q has no content", name)
	}

	ref, err := s.blobs.Upload(ctx, wsmodels.AttachmentPath(userID, noteID, name), file.Body, file.Size, file.ContentType)
	if err != nil {
		return wsmodels.Attachment{}, domain.Transient("upload attachment", err)
	}
	url, err := s.blobs.PublicURL(ctx, ref)
	if err != nil {
		return wsmodels.Attachment{}, domain.Transient("resolve attachment url", err)
	}

	return wsmodels.Attachment{
		Name:        name,
		URL:         url,
		ContentType: file.ContentType,
		Size:        file.Size,
		UploadedAt:  s.now().UTC(),
	}, nil
}

// deleteAttachments removes each attachment's blob. Failures are logged and
// never stop the remaining deletes.
func (s *Session) deleteAttachments(ctx context.Context, userID, noteID string, attachments []wsmodels.Attachment) {
	if len(attachments) == 0 || s.blobs == nil {
		return
	}
	for _, att := range attachments {
		p := wsmodels.AttachmentPath(userID, noteID, att.Name)
		if err := s.blobs.Delete(ctx, p); err != nil {
			s.logger.Warn("attachment delete failed",
				"note_id", noteID,
				"name", att.Name,
				"error", err,
			)
			continue
		}
		s.logger.Debug("attachment deleted", "note_id", noteID, "path", p)
	}
}
