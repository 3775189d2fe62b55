package routes

import (
	"github.com/google/wire"

	"github.com/janhq/hf-mcp/internal/interfaces/httpserver/routes/mcp"
)

// RoutesProvider provides all route dependencies
var RoutesProvider = wire.NewSet(
	mcp.NewHubMCP,
	mcp.NewInferenceMCP,
	mcp.NewResourceMCP,
	mcp.NewPromptMCP,
	mcp.NewMCPRoute,
)
