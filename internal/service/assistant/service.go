package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"studynotes/internal/domain"
	wsmodels "studynotes/internal/domain/models/workspace"
	"studynotes/internal/domain/services"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultTimeout bounds one completion.
const DefaultTimeout = 60 * time.Second

// Message is one line of an assistant conversation.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Service answers questions about notes through a Completer. It never
// returns completion failures as errors: they become a reply text.
type Service struct {
	completer services.Completer
	prompts   *Prompts
	timeout   time.Duration
	logger    *slog.Logger
}

// NewService creates an assistant. completer may be nil, in which case
// every reply says the assistant is not configured.
func NewService(completer services.Completer, logger *slog.Logger) (*Service, error) {
	prompts, err := LoadPrompts()
	if err != nil {
		return nil, err
	}
	return &Service{
		completer: completer,
		prompts:   prompts,
		timeout:   DefaultTimeout,
		logger:    logger,
	}, nil
}

// Intro is the first message shown in a review conversation.
func (s *Service) Intro() Message {
	return Message{Role: RoleAssistant, Text: s.prompts.Intro}
}

// Review answers input in the context of note (optional) and the earlier
// conversation. The first image attachment of the note is sent along.
func (s *Service) Review(ctx context.Context, note *wsmodels.Note, history []Message, input string) (Message, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Message{}, domain.NewValidationError("message is required")
	}
	prompt := s.reviewPrompt(note, history, input)
	return s.reply(ctx, prompt, noteImage(note), s.prompts.ReviewUnavailable), nil
}

// Chat sends input as-is.
func (s *Service) Chat(ctx context.Context, input string) (Message, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Message{}, domain.NewValidationError("message is required")
	}
	return s.reply(ctx, input, nil, s.prompts.ChatUnavailable), nil
}

// reply runs one completion. A timeout or cancellation yields unavailable;
// any other failure yields the model error text.
func (s *Service) reply(ctx context.Context, prompt string, image *services.Image, unavailable string) Message {
	if s.completer == nil {
		return Message{Role: RoleAssistant, Text: s.prompts.NotConfigured}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.completer.Complete(ctx, prompt, image)
	if err != nil {
		s.logger.Warn("assistant completion failed", "error", err)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Message{Role: RoleAssistant, Text: unavailable}
		}
		return Message{Role: RoleAssistant, Text: s.prompts.ModelError}
	}
	return Message{Role: RoleAssistant, Text: text}
}

// reviewPrompt lays out the note, the conversation including the new input
// and the reply instruction.
func (s *Service) reviewPrompt(note *wsmodels.Note, history []Message, input string) string {
	l := s.prompts.Review
	var b strings.Builder

	if note != nil {
		b.WriteString(l.ContextHeader + "\n")
		b.WriteString(l.Question + " " + note.Question + "\n")
		b.WriteString(l.Answer + " " + note.Answer)
		if len(note.Attachments) > 0 {
			names := make([]string, len(note.Attachments))
			for i, a := range note.Attachments {
				names[i] = a.Name
			}
			b.WriteString("\n" + l.Attachments + " " + strings.Join(names, ", "))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(l.HistoryHeader + "\n")
	lines := append(append([]Message(nil), history...), Message{Role: RoleUser, Text: input})
	for i, m := range lines {
		speaker := l.Assistant
		if m.Role == RoleUser {
			speaker = l.User
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(speaker + ": " + m.Text)
	}

	b.WriteString("\n\n" + l.NewInput + " " + input + "\n" + l.Instruction)
	return b.String()
}

// noteImage returns the first image attachment of note as a completion
// image.
func noteImage(note *wsmodels.Note) *services.Image {
	if note == nil {
		return nil
	}
	for _, a := range note.Attachments {
		if strings.HasPrefix(a.ContentType, "image/") && a.URL != "" {
			return &services.Image{URL: a.URL, MIMEType: a.ContentType}
		}
	}
	return nil
}
