package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"studynotes/internal/domain"
)

// Backend names accepted by STORE_BACKEND, BLOB_BACKEND and AI_PROVIDER.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
	BackendNone     = "none"

	ProviderAnthropic = "anthropic"
	ProviderLorem     = "lorem"
)

type Config struct {
	Port        string
	Environment string
	TablePrefix string

	// Document store
	StoreBackend string
	DatabaseURL  string

	// Attachment storage
	BlobBackend       string
	BlobBaseURL       string // the server's own /blobs/ route
	S3PublicBaseURL   string // public bucket or CDN origin; empty routes through BlobBaseURL
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	URLTTL            time.Duration

	// Auth
	SupabaseURL     string
	SupabaseKey     string // service role key, seeding only
	SupabaseJWKSURL string // SupabaseURL + /auth/v1/.well-known/jwks.json

	CORSOrigins string

	// AI assistant
	AIProvider      string
	AIModel         string
	AnthropicAPIKey string

	LogDir string
	Debug  bool

	loadErrs []error
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	port := getEnv("PORT", "8080")
	supabaseURL := strings.TrimRight(getEnv("SUPABASE_URL", ""), "/")

	cfg := &Config{
		Port:        port,
		Environment: env,
		TablePrefix: getTablePrefix(env),

		StoreBackend: getEnv("STORE_BACKEND", BackendPostgres),
		DatabaseURL:  getEnv("DATABASE_URL", os.Getenv("SUPABASE_DB_URL")),

		BlobBackend:       getEnv("BLOB_BACKEND", BackendS3),
		BlobBaseURL:       getEnv("BLOB_BASE_URL", fmt.Sprintf("http://localhost:%s/blobs/", port)),
		S3PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Region:          getEnv("S3_REGION", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),

		SupabaseURL: supabaseURL,
		SupabaseKey: getEnv("SUPABASE_KEY", ""),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		AIProvider:      getEnv("AI_PROVIDER", ProviderAnthropic),
		AIModel:         getEnv("AI_MODEL", "claude-haiku-4-5-20251001"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),

		LogDir: getEnv("LOG_DIR", ""),
		// Default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
	if supabaseURL != "" {
		cfg.SupabaseJWKSURL = supabaseURL + "/auth/v1/.well-known/jwks.json"
	}

	ttl, err := time.ParseDuration(getEnv("URL_TTL", "15m"))
	if err != nil {
		cfg.loadErrs = append(cfg.loadErrs, &domain.ConfigurationError{Setting: "URL_TTL", Message: err.Error()})
	}
	cfg.URLTTL = ttl

	return cfg
}

var prefixPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Validate reports every missing or inconsistent setting as a
// ConfigurationError, joined.
func (c *Config) Validate() error {
	errs := append([]error(nil), c.loadErrs...)
	bad := func(setting, format string, args ...any) {
		errs = append(errs, &domain.ConfigurationError{Setting: setting, Message: fmt.Sprintf(format, args...)})
	}

	if !prefixPattern.MatchString(c.TablePrefix) {
		bad("TABLE_PREFIX", "must be lower-case letters, digits and underscores, got %q", c.TablePrefix)
	}

	switch c.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			bad("DATABASE_URL", "required when STORE_BACKEND=postgres")
		}
	default:
		bad("STORE_BACKEND", "unknown backend %q", c.StoreBackend)
	}

	switch c.BlobBackend {
	case BackendMemory, BackendNone:
	case BackendS3:
		if c.S3Bucket == "" {
			bad("S3_BUCKET", "required when BLOB_BACKEND=s3")
		}
	default:
		bad("BLOB_BACKEND", "unknown backend %q", c.BlobBackend)
	}

	if c.SupabaseJWKSURL == "" {
		bad("SUPABASE_URL", "required to verify access tokens")
	}

	switch c.AIProvider {
	case ProviderLorem, BackendNone:
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			bad("ANTHROPIC_API_KEY", "required when AI_PROVIDER=anthropic")
		}
	default:
		bad("AI_PROVIDER", "unknown provider %q", c.AIProvider)
	}

	if c.Environment == "prod" && c.StoreBackend == BackendMemory {
		bad("STORE_BACKEND", "memory store is not allowed in prod")
	}

	return errors.Join(errs...)
}

// Origins splits CORSOrigins on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
