// Package huggingface holds the HuggingFace request/response semantics exposed as MCP tools:
// default parameters, response-shape decoding and Markdown rendering.
package huggingface

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// Tool defaults.
const (
	DefaultSearchLimit          = 10
	DefaultListByTypeLimit      = 20
	DefaultRecommendedLimit     = 5
	DefaultMaxLength            = 100
	DefaultTemperature          = 0.7
	DefaultSummaryMaxLength     = 130
	DefaultSummaryMinLength     = 30
	DescriptionPreviewCharCount = 100
)

// Parameters is the optional "parameters" object of an inference request.
// Entries with nil values are never sent.
type Parameters map[string]any

// Response is a raw upstream HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport builds and executes authenticated upstream requests.
type Transport interface {
	// Infer posts {"inputs": inputs, "parameters": parameters} to the model endpoint.
	Infer(ctx context.Context, modelID string, inputs any, parameters Parameters) (*Response, error)
	// Hub issues a GET against the hub API, path relative to the API root.
	Hub(ctx context.Context, path string, query url.Values) (*Response, error)
}

// UpstreamError is a non-2xx response from either endpoint.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%d - %s", e.StatusCode, e.Body)
}

func upstreamError(resp *Response) *UpstreamError {
	return &UpstreamError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
}

var (
	// ErrInvalidArgument marks a missing or malformed tool parameter.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotAnImage is returned when an image endpoint answers with non-image bytes.
	ErrNotAnImage = errors.New("response is not an image")
)

// ErrorText renders any failure using the text-tool convention: the result always
// starts with "Error" so clients can detect failures by prefix.
func ErrorText(err error) string {
	return "Error: " + err.Error()
}

func required(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidArgument, name)
	}
	return nil
}

// Image is a generated image payload.
type Image struct {
	Data     []byte
	Format   string // lower-case format name, e.g. "png"
	MIMEType string
}
