package domain

import (
	"github.com/google/wire"

	"github.com/janhq/hf-mcp/internal/domain/huggingface"
)

// DomainProvider provides all domain services
var DomainProvider = wire.NewSet(
	huggingface.NewHubService,
	huggingface.NewInferenceService,
)
