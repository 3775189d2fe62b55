package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all configuration for the HuggingFace MCP service
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"hf-mcp"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// MCP transport: stdio for locally launched servers, http for the streamable endpoint
	Transport string `env:"MCP_TRANSPORT" envDefault:"stdio"`

	// HTTP Server - using HF_MCP_ prefix to avoid collisions
	HTTPPort        string        `env:"HF_MCP_HTTP_PORT" envDefault:"8093"`
	LogLevel        string        `env:"HF_MCP_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"HF_MCP_LOG_FORMAT" envDefault:"json"` // json or console
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// HuggingFace upstream
	TokenFile        string        `env:"HF_TOKEN_FILE" envDefault:"docs/Hf_token"`
	AllowAnonymous   bool          `env:"HF_ALLOW_ANONYMOUS" envDefault:"false"`
	InferenceBaseURL string        `env:"HF_INFERENCE_BASE_URL" envDefault:"https://api-inference.huggingface.co/models"`
	HubBaseURL       string        `env:"HF_HUB_BASE_URL" envDefault:"https://huggingface.co/api"`
	HTTPTimeout      time.Duration `env:"HF_HTTP_TIMEOUT" envDefault:"60s"`

	// OpenTelemetry
	EnableTracing      bool          `env:"ENABLE_TRACING" envDefault:"false"`
	EnableOTLPMetrics  bool          `env:"ENABLE_OTLP_METRICS" envDefault:"false"`
	OTLPEndpoint       string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTLPMetricInterval time.Duration `env:"OTEL_METRIC_INTERVAL" envDefault:"30s"`
	PIILevel           string        `env:"OTEL_PII_LEVEL" envDefault:"hashed"`

	// Authentication (http transport only)
	AuthEnabled  bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer   string `env:"AUTH_ISSUER"`
	AuthAudience string `env:"AUTH_AUDIENCE"`
	AuthJWKSURL  string `env:"AUTH_JWKS_URL"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if strings.TrimSpace(os.Getenv("HF_MCP_LOG_LEVEL")) == "" {
		if global := strings.TrimSpace(os.Getenv("LOG_LEVEL")); global != "" {
			cfg.LogLevel = global
		}
	}
	if strings.TrimSpace(os.Getenv("HF_MCP_LOG_FORMAT")) == "" {
		if global := strings.TrimSpace(os.Getenv("LOG_FORMAT")); global != "" {
			cfg.LogFormat = global
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that env tags cannot express.
func (c *Config) Validate() error {
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("MCP_TRANSPORT must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Transport)
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HF_HTTP_TIMEOUT must be positive")
	}
	if strings.TrimSpace(c.InferenceBaseURL) == "" {
		return fmt.Errorf("HF_INFERENCE_BASE_URL is required")
	}
	if c.EnableOTLPMetrics && c.OTLPMetricInterval <= 0 {
		return fmt.Errorf("OTEL_METRIC_INTERVAL must be positive")
	}
	if strings.TrimSpace(c.HubBaseURL) == "" {
		return fmt.Errorf("HF_HUB_BASE_URL is required")
	}

	if c.AuthEnabled {
		if strings.TrimSpace(c.AuthIssuer) == "" {
			return fmt.Errorf("AUTH_ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(c.AuthJWKSURL) == "" {
			return fmt.Errorf("AUTH_JWKS_URL is required when AUTH_ENABLED is true")
		}
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

// IsStdio reports whether MCP is served over stdin/stdout.
func (c *Config) IsStdio() bool {
	return c.Transport == TransportStdio
}
