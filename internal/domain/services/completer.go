package services

import "context"

// Image is an optional picture sent along with a prompt
type Image struct {
	URL      string `json:"url"`
	MIMEType string `json:"mime_type"`
}

// Completer sends a single prompt to a generative model and returns the
// text of the reply. Implementations do not retry.
type Completer interface {
	Complete(ctx context.Context, prompt string, image *Image) (string, error)
}
