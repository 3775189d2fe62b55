package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/janhq/hf-mcp/internal/domain/prompt"
)

// PromptMCP registers the static prompt templates.
type PromptMCP struct {
	catalog *prompt.Catalog
}

// NewPromptMCP creates the prompt handlers.
func NewPromptMCP(catalog *prompt.Catalog) *PromptMCP {
	return &PromptMCP{catalog: catalog}
}

func (p *PromptMCP) RegisterPrompts(server *mcp.Server) {
	for _, tmpl := range p.catalog.Prompts {
		server.AddPrompt(&mcp.Prompt{
			Name:        tmpl.Name,
			Description: tmpl.Description,
		}, p.getPrompt)
	}
}

func (p *PromptMCP) getPrompt(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := req.Params.Name
	tmpl, ok := p.catalog.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown prompt %q", name)
	}
	log.Debug().Str("prompt", name).Msg("MCP prompt requested")
	return &mcp.GetPromptResult{
		Description: tmpl.Description,
		Messages: []*mcp.PromptMessage{{
			Role:    "user",
			Content: &mcp.TextContent{Text: tmpl.Text},
		}},
	}, nil
}
