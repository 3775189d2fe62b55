package mcp

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"github.com/yosida95/uritemplate/v3"

	domain "github.com/janhq/hf-mcp/internal/domain/huggingface"
	"github.com/janhq/hf-mcp/internal/infrastructure/metrics"
)

const (
	modelsByTypeTemplate = "hf://models/{model_type}"
	// Reserved expansion so "org/name" ids match without escaping.
	modelInfoTemplate = "hf://model/{+model_id}/info"

	markdownMIMEType = "text/markdown"
)

var (
	modelsByTypeURI = uritemplate.MustNew(modelsByTypeTemplate)
	modelInfoURI    = uritemplate.MustNew(modelInfoTemplate)
)

// ResourceMCP registers the read-only hub resources.
type ResourceMCP struct {
	service *domain.HubService
}

// NewResourceMCP creates the resource handlers.
func NewResourceMCP(service *domain.HubService) *ResourceMCP {
	return &ResourceMCP{service: service}
}

func (r *ResourceMCP) RegisterResources(server *mcp.Server) {
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        "models_by_type",
		Title:       "Models by type",
		Description: "List HuggingFace models by type (text-generation, image-classification, etc.)",
		URITemplate: modelsByTypeTemplate,
		MIMEType:    markdownMIMEType,
	}, r.readModelsByType)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        "model_info",
		Title:       "Model info",
		Description: "Get detailed information about a specific HuggingFace model",
		URITemplate: modelInfoTemplate,
		MIMEType:    markdownMIMEType,
	}, r.readModelInfo)
}

func (r *ResourceMCP) readModelsByType(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	modelType, err := matchParam(modelsByTypeURI, uri, "model_type")
	if err != nil {
		return nil, err
	}
	return readResource(ctx, "models_by_type", uri, func(ctx context.Context) (string, error) {
		return r.service.ListModelsByType(ctx, domain.ListModelsByTypeRequest{ModelType: modelType})
	}), nil
}

func (r *ResourceMCP) readModelInfo(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	modelID, err := matchParam(modelInfoURI, uri, "model_id")
	if err != nil {
		return nil, err
	}
	return readResource(ctx, "model_info", uri, func(ctx context.Context) (string, error) {
		return r.service.ModelInfo(ctx, modelID)
	}), nil
}

// readResource renders a hub lookup as Markdown text. Lookup failures are rendered
// with the same "Error: ..." convention as text tools.
func readResource(ctx context.Context, name, uri string, read func(context.Context) (string, error)) *mcp.ReadResourceResult {
	start := time.Now()
	text, err := read(ctx)
	status := statusOK
	if err != nil {
		status = statusError
		text = domain.ErrorText(err)
		log.Warn().Err(err).Str("resource", name).Str("uri", uri).Msg("MCP resource read failed")
	}
	metrics.RecordToolCall("resource:"+name, status, time.Since(start).Seconds())
	log.Info().
		Str("resource", name).
		Str("uri", uri).
		Str("status", status).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("MCP resource read completed")

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: markdownMIMEType,
			Text:     text,
		}},
	}
}

// matchParam extracts a path parameter from a resource URI. Percent-encoded values
// ("org%2Fname") are decoded.
func matchParam(tmpl *uritemplate.Template, uri, name string) (string, error) {
	values := tmpl.Match(uri)
	if values == nil {
		return "", mcp.ResourceNotFoundError(uri)
	}
	raw := values.Get(name).String()
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s in %s: %w", name, uri, err)
	}
	if decoded == "" {
		return "", mcp.ResourceNotFoundError(uri)
	}
	return decoded, nil
}
