package mcp

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/janhq/hf-mcp/internal/interfaces/httpserver/responses"
	"github.com/janhq/hf-mcp/internal/utils/platformerrors"
)

// Implementation advertised during initialize.
const (
	ServerName    = "HuggingFace MCP"
	ServerVersion = "1.0.0"
)

var allowedMCPMethods = map[string]bool{
	// Initialization / handshake
	"initialize":                true,
	"notifications/initialized": true,
	"ping":                      true,

	// Tools
	"tools/list": true,
	"tools/call": true,

	// Prompts
	"prompts/list": true,
	"prompts/get":  true,

	// Resources
	"resources/list":           true,
	"resources/templates/list": true,
	"resources/read":           true,
}

type MCPRoute struct {
	mcpServer   *mcp.Server
	httpHandler http.Handler
}

func NewMCPRoute(
	hubMCP *HubMCP,
	inferenceMCP *InferenceMCP,
	resourceMCP *ResourceMCP,
	promptMCP *PromptMCP,
) *MCPRoute {
	impl := &mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}
	server := mcp.NewServer(impl, nil)

	hubMCP.RegisterTools(server)
	inferenceMCP.RegisterTools(server)
	resourceMCP.RegisterResources(server)
	promptMCP.RegisterPrompts(server)

	return &MCPRoute{
		mcpServer: server,
		httpHandler: mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
			return server
		}, &mcp.StreamableHTTPOptions{Stateless: true}),
	}
}

// Server exposes the MCP server for non-HTTP transports.
func (route *MCPRoute) Server() *mcp.Server {
	return route.mcpServer
}

func (route *MCPRoute) RegisterRouter(router *gin.RouterGroup) {
	router.POST("/mcp",
		MCPMethodGuard(allowedMCPMethods),
		route.serveMCP,
	)
}

// serveMCP streams Model Context Protocol responses using the underlying MCP server.
// @Summary MCP endpoint for HuggingFace tools
// @Description Handles Model Context Protocol (MCP) requests over HTTP. Supports MCP methods: initialize, ping, tools/list, tools/call, prompts/list, prompts/get, resources/list, resources/templates/list, resources/read.
// @Description
// @Description **Available Tools:**
// @Description - `search_models`: Search HuggingFace Hub models (params: query, limit).
// @Description - `get_recommended_models`: Top five models by downloads for a task (params: task).
// @Description - `text_generation`: Run a text generation model (params: model_id, prompt, max_length, temperature).
// @Description - `image_classification`: Classify an image by URL (params: model_id, image_url).
// @Description - `image_generation`: Generate an image from a prompt, returned as image content (params: model_id, prompt).
// @Description - `question_answering`: Extractive QA over a context (params: model_id, question, context).
// @Description - `summarization`: Summarize text (params: model_id, text, max_length, min_length).
// @Description - `translation`: Translate text (params: model_id, text, source_lang, target_lang).
// @Description
// @Description **Resources:** `hf://models/{model_type}`, `hf://model/{model_id}/info`
// @Description
// @Description **Prompts:** `text_generation_prompt`, `image_generation_prompt`
// @Description
// @Description **MCP Protocol:**
// @Description - Request format: JSON-RPC 2.0 with method and params
// @Description - Response format: Server-Sent Events (SSE) stream
// @Description - Stateless mode (no session management)
// @Tags MCP API
// @Accept json
// @Produce text/event-stream
// @Param request body object true "MCP JSON-RPC request payload (e.g., {\"jsonrpc\":\"2.0\",\"method\":\"tools/list\",\"id\":1})"
// @Success 200 {string} string "Streamed MCP response in SSE format"
// @Failure 400 {object} responses.ErrorResponse "Invalid MCP request payload or unsupported method"
// @Failure 401 {object} responses.ErrorResponse "Missing or invalid bearer token"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/mcp [post]
func (route *MCPRoute) serveMCP(reqCtx *gin.Context) {
	// Force acceptable content types for go-sdk streamable handler even if client omits Accept.
	reqCtx.Request.Header.Set("Accept", "application/json, text/event-stream")
	route.httpHandler.ServeHTTP(reqCtx.Writer, reqCtx.Request)
}

func MCPMethodGuard(allowedMethods map[string]bool) gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		bodyBytes, err := io.ReadAll(reqCtx.Request.Body)
		if err != nil {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeInternal, "failed to read MCP request body", "3f8a2c41-7d0e-4b6a-9c1f-52e8d7a04b13")
			return
		}
		_ = reqCtx.Request.Body.Close()

		if len(bodyBytes) == 0 {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "empty MCP request body", "a91d5e07-2b3c-4f8e-8d6a-0c7b4e19f2d5")
			return
		}

		reqCtx.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var payload struct {
			Method string `json:"method"`
		}

		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid MCP request payload", "c5b7f2e9-8a41-4d3c-b06e-1f9a2d84c7e0")
			return
		}

		if payload.Method == "" {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "missing method field in MCP request", "0d4e6a8b-c2f1-4e97-a53b-7b1c9e2f6d48")
			return
		}

		if !allowedMethods[payload.Method] {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "unsupported MCP method: "+payload.Method, "e7c3a1f5-4b9d-4a2e-86f0-d5b8c2e17a39")
			return
		}

		reqCtx.Next()
	}
}
