package infrastructure

import (
	"context"
	"fmt"

	"github.com/google/wire"
	"github.com/rs/zerolog/log"

	"github.com/janhq/hf-mcp/internal/config"
	domain "github.com/janhq/hf-mcp/internal/domain/huggingface"
	"github.com/janhq/hf-mcp/internal/domain/prompt"
	"github.com/janhq/hf-mcp/internal/infrastructure/auth"
	"github.com/janhq/hf-mcp/internal/infrastructure/credential"
	hfclient "github.com/janhq/hf-mcp/internal/infrastructure/huggingface"
	"github.com/janhq/hf-mcp/internal/infrastructure/observability"
)

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// HuggingFace token
	ProvideCredential,

	// Tracing and span sanitizer
	ProvideObservability,

	// HuggingFace HTTP client
	ProvideRequestBuilder,
	ProvideHuggingFaceClient,
	wire.Bind(new(domain.Transport), new(*hfclient.Client)),

	// Prompt templates
	prompt.LoadCatalog,

	// Auth validator
	ProvideAuthValidator,
)

// ProvideCredential loads the token once at startup. A missing token is not fatal: the
// server starts in degraded mode and every upstream call reports the credential error.
func ProvideCredential(cfg *config.Config) credential.Credential {
	cred, err := credential.LoadCredential(cfg.TokenFile)
	if err != nil {
		event := log.Warn().Err(err).Str("token_file", cfg.TokenFile)
		if cfg.AllowAnonymous {
			event.Msg("HuggingFace token unavailable, calling upstream anonymously")
		} else {
			event.Msg("HuggingFace token unavailable, tools will report an error")
		}
		return credential.Credential{}
	}
	log.Info().Str("credential", cred.String()).Str("source", cred.Source()).Msg("HuggingFace token loaded")
	return cred
}

// ProvideObservability sets up tracing according to the config
func ProvideObservability(ctx context.Context, cfg *config.Config) (*observability.Provider, error) {
	return observability.Setup(ctx, cfg, log.Logger)
}

// ProvideRequestBuilder provides the pure request builder
func ProvideRequestBuilder(cfg *config.Config, cred credential.Credential) *hfclient.RequestBuilder {
	return hfclient.NewRequestBuilder(cred, cfg.AllowAnonymous, cfg.InferenceBaseURL, cfg.HubBaseURL)
}

// ProvideHuggingFaceClient provides the instrumented HuggingFace client
func ProvideHuggingFaceClient(cfg *config.Config, builder *hfclient.RequestBuilder, obs *observability.Provider) *hfclient.Client {
	return hfclient.NewClient(builder, cfg.HTTPTimeout, obs.Tracer, obs.Sanitizer)
}

// ProvideAuthValidator provides the auth validator
func ProvideAuthValidator(ctx context.Context, cfg *config.Config) (*auth.Validator, error) {
	v, err := auth.NewValidator(ctx, cfg, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("initialize JWKS validator: %w", err)
	}
	return v, nil
}
