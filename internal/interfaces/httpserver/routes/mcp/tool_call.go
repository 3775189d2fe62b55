package mcp

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	domain "github.com/janhq/hf-mcp/internal/domain/huggingface"
	"github.com/janhq/hf-mcp/internal/infrastructure/metrics"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// runTextTool executes a text tool. Failures never leave the handler as errors: they
// become a text result starting with "Error" so callers can detect them by prefix.
func runTextTool(ctx context.Context, tool, modelID string, call func(context.Context) (string, error)) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	log.Info().Str("tool", tool).Str("model_id", modelID).Msg("MCP tool call received")

	text, err := call(ctx)
	status := statusOK
	if err != nil {
		status = statusError
		text = domain.ErrorText(err)
		log.Warn().Err(err).Str("tool", tool).Str("model_id", modelID).Msg("MCP tool call failed")
	}

	elapsed := time.Since(start)
	metrics.RecordToolCall(tool, status, elapsed.Seconds())
	metrics.RecordToolOutput(tool, utf8.RuneCountInString(text))
	log.Info().
		Str("tool", tool).
		Str("model_id", modelID).
		Str("status", status).
		Int64("duration_ms", elapsed.Milliseconds()).
		Msg("MCP tool call completed")

	return textResult(text), nil, nil
}
