package llm

import (
	"testing"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		name         string
		modelStr     string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{
			name:         "claude-haiku with version",
			modelStr:     "claude-haiku-4-5",
			wantProvider: "anthropic",
			wantModel:    "claude-haiku-4-5",
		},
		{
			name:         "explicit provider",
			modelStr:     "anthropic/claude-sonnet-4-5",
			wantProvider: "anthropic",
			wantModel:    "claude-sonnet-4-5",
		},
		{
			name:         "lorem-fast model",
			modelStr:     "lorem-fast",
			wantProvider: "lorem",
			wantModel:    "lorem-fast",
		},
		{
			name:     "empty string",
			modelStr: "",
			wantErr:  true,
		},
		{
			name:     "unknown prefix",
			modelStr: "mystery-model",
			wantErr:  true,
		},
		{
			name:     "empty provider",
			modelStr: "/claude-haiku-4-5",
			wantErr:  true,
		},
		{
			name:     "empty model",
			modelStr: "anthropic/",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModel(tt.modelStr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseModel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Provider != tt.wantProvider {
				t.Errorf("Provider = %v, want %v", got.Provider, tt.wantProvider)
			}
			if got.Model != tt.wantModel {
				t.Errorf("Model = %v, want %v", got.Model, tt.wantModel)
			}
		})
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name         string
		provider     string
		model        string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{"configured anthropic", "anthropic", "claude-haiku-4-5-20251001", "anthropic", "claude-haiku-4-5-20251001", false},
		{"lorem replaces claude model", "lorem", "claude-haiku-4-5", "lorem", "lorem-fast", false},
		{"lorem keeps lorem model", "lorem", "lorem-slow", "lorem", "lorem-slow", false},
		{"prefix overrides provider", "anthropic", "lorem/lorem-slow", "lorem", "lorem-slow", false},
		{"no provider infers", "", "claude-haiku-4-5", "anthropic", "claude-haiku-4-5", false},
		{"nothing configured", "", "", "", "", true},
		{"anthropic without model", "anthropic", " ", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveModel(tt.provider, tt.model)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveModel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Provider != tt.wantProvider || got.Model != tt.wantModel {
				t.Errorf("got %+v, want %s/%s", got, tt.wantProvider, tt.wantModel)
			}
		})
	}
}
