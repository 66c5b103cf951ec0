package assistant

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsYAML []byte

// Prompts holds the fixed texts of the assistant.
type Prompts struct {
	Intro             string `yaml:"intro"`
	NotConfigured     string `yaml:"not_configured"`
	ModelError        string `yaml:"model_error"`
	ReviewUnavailable string `yaml:"review_unavailable"`
	ChatUnavailable   string `yaml:"chat_unavailable"`

	Review ReviewLabels `yaml:"review"`
}

// ReviewLabels are the section labels of a note review prompt.
type ReviewLabels struct {
	ContextHeader string `yaml:"context_header"`
	Question      string `yaml:"question"`
	Answer        string `yaml:"answer"`
	Attachments   string `yaml:"attachments"`
	HistoryHeader string `yaml:"history_header"`
	User          string `yaml:"user"`
	Assistant     string `yaml:"assistant"`
	NewInput      string `yaml:"new_input"`
	Instruction   string `yaml:"instruction"`
}

// LoadPrompts parses the embedded prompt file.
func LoadPrompts() (*Prompts, error) {
	return ParsePrompts(promptsYAML)
}

// ParsePrompts parses a prompt file. Every text must be present.
func ParsePrompts(data []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}

	required := map[string]string{
		"intro":              p.Intro,
		"not_configured":     p.NotConfigured,
		"model_error":        p.ModelError,
		"review_unavailable": p.ReviewUnavailable,
		"chat_unavailable":   p.ChatUnavailable,
		"review.instruction": p.Review.Instruction,
		"review.new_input":   p.Review.NewInput,
	}
	for key, v := range required {
		if v == "" {
			return nil, fmt.Errorf("parse prompts: %s is missing", key)
		}
	}
	return &p, nil
}
