package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	llmprovider "github.com/haowjy/meridian-llm-go"

	"studynotes/internal/domain/services"
)

// Block types understood by the providers
const (
	blockTypeText  = "text"
	blockTypeImage = "image"
)

// generator is the part of llmprovider.Provider the completer needs.
type generator interface {
	GenerateResponse(ctx context.Context, req *llmprovider.GenerateRequest) (*llmprovider.GenerateResponse, error)
}

// Completer sends one user message to a provider and returns the text of
// the reply. It implements services.Completer.
type Completer struct {
	provider generator
	model    string
	vision   bool
	logger   *slog.Logger
}

var _ services.Completer = (*Completer)(nil)

// NewCompleter creates a completer for model on provider. Images are sent
// until WithoutVision is called.
func NewCompleter(provider generator, model string, logger *slog.Logger) *Completer {
	return &Completer{
		provider: provider,
		model:    model,
		vision:   true,
		logger:   logger,
	}
}

// WithoutVision makes the completer drop images for a text-only model.
func (c *Completer) WithoutVision() *Completer {
	c.vision = false
	return c
}

// Complete sends prompt (and image, when given) as a single user turn.
func (c *Completer) Complete(ctx context.Context, prompt string, image *services.Image) (string, error) {
	if image != nil && !c.vision {
		c.logger.Debug("model has no vision, image dropped", "model", c.model)
		image = nil
	}
	req := buildRequest(c.model, prompt, image)

	resp, err := c.provider.GenerateResponse(ctx, req)
	if err != nil {
		c.logger.Error("completion failed", "model", c.model, "error", err)
		return "", fmt.Errorf("generate response: %w", err)
	}

	reply := replyText(resp)
	if reply == "" {
		return "", fmt.Errorf("generate response: empty reply from %s", c.model)
	}

	c.logger.Debug("completion done",
		"model", c.model,
		"prompt_chars", len(prompt),
		"reply_chars", len(reply),
		"image", image != nil,
	)
	return reply, nil
}

// buildRequest puts the image (if any) before the text in one user message.
func buildRequest(model, prompt string, image *services.Image) *llmprovider.GenerateRequest {
	blocks := make([]*llmprovider.Block, 0, 2)
	if image != nil && image.URL != "" {
		blocks = append(blocks, &llmprovider.Block{
			BlockType: blockTypeImage,
			Sequence:  len(blocks),
			Content: map[string]interface{}{
				"url":       image.URL,
				"mime_type": image.MIMEType,
			},
		})
	}
	text := prompt
	blocks = append(blocks, &llmprovider.Block{
		BlockType:   blockTypeText,
		Sequence:    len(blocks),
		TextContent: &text,
	})

	return &llmprovider.GenerateRequest{
		Messages: []llmprovider.Message{{Role: "user", Blocks: blocks}},
		Model:    model,
	}
}

// replyText joins the text blocks of a response.
func replyText(resp *llmprovider.GenerateResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, b := range resp.Blocks {
		if b == nil || b.BlockType != blockTypeText || b.TextContent == nil {
			continue
		}
		parts = append(parts, *b.TextContent)
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}
