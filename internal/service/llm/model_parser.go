package llm

import (
	"fmt"
	"strings"

	"studynotes/internal/config"
)

// defaultLoremModel is used when the lorem provider is configured with a
// model name it would not recognize.
const defaultLoremModel = "lorem-fast"

// ModelInfo contains parsed provider and model information
type ModelInfo struct {
	Provider string // "anthropic" or "lorem"
	Model    string // Model identifier for that provider
}

// ParseModel extracts provider information from a model string
//
// Supported formats:
//   - "claude-haiku-4-5" → {Provider: "anthropic", Model: "claude-haiku-4-5"}
//   - "lorem-fast" → {Provider: "lorem", Model: "lorem-fast"}
//   - "anthropic/claude-haiku-4-5" → {Provider: "anthropic", Model: "claude-haiku-4-5"}
//
// Rules:
//   - If model contains "/" → split on first "/" to extract provider
//   - Else → infer provider from model prefix
func ParseModel(modelStr string) (*ModelInfo, error) {
	if modelStr == "" {
		return nil, fmt.Errorf("model string cannot be empty")
	}

	if provider, model, ok := strings.Cut(modelStr, "/"); ok {
		if provider == "" {
			return nil, fmt.Errorf("provider cannot be empty in model string: %s", modelStr)
		}
		if model == "" {
			return nil, fmt.Errorf("model cannot be empty in model string: %s", modelStr)
		}
		return &ModelInfo{Provider: provider, Model: model}, nil
	}

	provider := inferProvider(modelStr)
	if provider == "" {
		return nil, fmt.Errorf("unable to infer provider from model: %s", modelStr)
	}
	return &ModelInfo{Provider: provider, Model: modelStr}, nil
}

// ResolveModel combines AI_PROVIDER and AI_MODEL. An explicit "provider/"
// prefix on the model wins; otherwise the configured provider is used and
// the lorem provider gets its own default model.
func ResolveModel(provider, model string) (*ModelInfo, error) {
	model = strings.TrimSpace(model)
	if strings.Contains(model, "/") {
		return ParseModel(model)
	}

	if provider == "" {
		if model == "" {
			return nil, fmt.Errorf("no provider or model configured")
		}
		return ParseModel(model)
	}

	if provider == config.ProviderLorem && inferProvider(model) != config.ProviderLorem {
		model = defaultLoremModel
	}
	if model == "" {
		return nil, fmt.Errorf("model cannot be empty for provider %s", provider)
	}
	return &ModelInfo{Provider: provider, Model: model}, nil
}

// inferProvider infers the provider from model name prefix
func inferProvider(model string) string {
	modelLower := strings.ToLower(model)

	if strings.HasPrefix(modelLower, "claude-") {
		return config.ProviderAnthropic
	}
	if strings.HasPrefix(modelLower, "lorem-") {
		return config.ProviderLorem
	}
	return ""
}
