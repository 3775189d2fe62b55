package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	domain "github.com/janhq/hf-mcp/internal/domain/huggingface"
)

// SearchModelsArgs defines the arguments for the search_models tool
type SearchModelsArgs struct {
	Query string `json:"query" jsonschema:"required,description=Free-text search over HuggingFace Hub model ids and descriptions"`
	Limit *int   `json:"limit,omitempty" jsonschema:"description=Maximum number of models to return,default=10,minimum=1"`
}

// RecommendedModelsArgs defines the arguments for the get_recommended_models tool
type RecommendedModelsArgs struct {
	Task string `json:"task" jsonschema:"required,description=Pipeline task such as text-generation or image-classification"`
}

// HubMCP registers the model discovery tools.
type HubMCP struct {
	service *domain.HubService
}

// NewHubMCP creates the hub tool handlers.
func NewHubMCP(service *domain.HubService) *HubMCP {
	return &HubMCP{service: service}
}

func (h *HubMCP) RegisterTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_models",
		Description: "Search for models on HuggingFace Hub",
		InputSchema: inputSchema[SearchModelsArgs](),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SearchModelsArgs) (*mcp.CallToolResult, any, error) {
		return runTextTool(ctx, "search_models", "", func(ctx context.Context) (string, error) {
			return h.service.SearchModels(ctx, domain.SearchModelsRequest{
				Query: input.Query,
				Limit: input.Limit,
			})
		})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_recommended_models",
		Description: "Get recommended models for a specific task",
		InputSchema: inputSchema[RecommendedModelsArgs](),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input RecommendedModelsArgs) (*mcp.CallToolResult, any, error) {
		return runTextTool(ctx, "get_recommended_models", "", func(ctx context.Context) (string, error) {
			return h.service.RecommendedModels(ctx, domain.RecommendedModelsRequest{Task: input.Task})
		})
	})
}
