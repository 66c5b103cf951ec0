package llm

import (
	"fmt"
	"log/slog"

	llmprovider "github.com/haowjy/meridian-llm-go"
	"github.com/haowjy/meridian-llm-go/providers/anthropic"
	"github.com/haowjy/meridian-llm-go/providers/lorem"

	"studynotes/internal/capabilities"
	"studynotes/internal/config"
	"studynotes/internal/domain"
)

// ProviderFactory creates LLM provider instances from configuration
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// GetProvider returns a provider instance for the given provider name
//
// Supported providers:
//   - "anthropic" - Claude models via Anthropic API
//   - "lorem" - Mock provider for local runs (no API key required)
func (f *ProviderFactory) GetProvider(providerName string) (llmprovider.Provider, error) {
	switch providerName {
	case config.ProviderAnthropic:
		return f.createAnthropicProvider()
	case config.ProviderLorem:
		return lorem.NewProvider(), nil
	default:
		return nil, &domain.ConfigurationError{
			Setting: "AI_PROVIDER",
			Message: fmt.Sprintf("unsupported provider: %s", providerName),
		}
	}
}

func (f *ProviderFactory) createAnthropicProvider() (llmprovider.Provider, error) {
	if f.config.AnthropicAPIKey == "" {
		return nil, &domain.ConfigurationError{
			Setting: "ANTHROPIC_API_KEY",
			Message: "environment variable not set",
		}
	}

	provider, err := anthropic.NewProvider(f.config.AnthropicAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}
	return provider, nil
}

// NewCompleterFromConfig resolves the configured provider and model and
// returns a Completer for them.
func NewCompleterFromConfig(cfg *config.Config, logger *slog.Logger) (*Completer, error) {
	info, err := ResolveModel(cfg.AIProvider, cfg.AIModel)
	if err != nil {
		return nil, &domain.ConfigurationError{Setting: "AI_MODEL", Message: err.Error()}
	}

	provider, err := NewProviderFactory(cfg).GetProvider(info.Provider)
	if err != nil {
		return nil, err
	}

	completer := NewCompleter(provider, info.Model, logger)

	vision := true
	registry, err := capabilities.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("load model capabilities: %w", err)
	}
	if caps, err := registry.GetModelCapabilities(info.Provider, info.Model); err == nil {
		vision = caps.SupportsVision
	} else {
		logger.Warn("model not in capability registry, assuming vision support",
			"provider", info.Provider,
			"model", info.Model,
		)
	}
	if !vision {
		completer.WithoutVision()
	}

	logger.Info("ai provider ready",
		"provider", provider.Name().String(),
		"model", info.Model,
		"vision", vision,
	)
	return completer, nil
}
