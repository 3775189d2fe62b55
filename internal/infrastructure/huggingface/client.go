package huggingface

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	domain "github.com/janhq/hf-mcp/internal/domain/huggingface"
	"github.com/janhq/hf-mcp/internal/infrastructure/metrics"
	"github.com/janhq/hf-mcp/internal/infrastructure/telemetry"
)

const (
	endpointInference = "inference"
	endpointHub       = "hub"
)

// Client executes HuggingFace requests. It implements domain.Transport.
type Client struct {
	builder    *RequestBuilder
	httpClient *resty.Client
	tracer     trace.Tracer
	sanitizer  *telemetry.Sanitizer
}

var _ domain.Transport = (*Client)(nil)

// NewClient creates a client. A nil tracer disables spans; a nil sanitizer redacts
// every input preview.
func NewClient(builder *RequestBuilder, timeout time.Duration, tracer trace.Tracer, sanitizer *telemetry.Sanitizer) *Client {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	httpClient := resty.New().
		SetHeader("User-Agent", "HF-MCP/1.0").
		SetTimeout(timeout).
		SetRetryCount(0).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	return &Client{
		builder:    builder,
		httpClient: httpClient,
		tracer:     tracer,
		sanitizer:  sanitizer,
	}
}

// Infer posts inputs and parameters to the model's inference endpoint.
func (c *Client) Infer(ctx context.Context, modelID string, inputs any, params domain.Parameters) (*domain.Response, error) {
	spec, err := c.builder.BuildInferenceRequest(modelID, inputs, params)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "huggingface.inference", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("hf.model_id", modelID),
		attribute.String("hf.input_preview", c.sanitizer.Preview(inputs, telemetry.DefaultPreviewLength)),
	)
	return c.do(ctx, span, endpointInference, spec)
}

// Hub issues a GET against the hub API.
func (c *Client) Hub(ctx context.Context, path string, query url.Values) (*domain.Response, error) {
	spec, err := c.builder.BuildHubRequest(path, query)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "huggingface.hub", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("hf.hub_path", path))
	return c.do(ctx, span, endpointHub, spec)
}

// do executes a request description. Non-2xx responses are returned, not treated as errors.
func (c *Client) do(ctx context.Context, span trace.Span, endpoint string, spec RequestSpec) (*domain.Response, error) {
	req := c.httpClient.R().SetContext(ctx)
	for key, values := range spec.Header {
		if len(values) > 0 {
			req.SetHeader(key, values[0])
		}
	}
	if len(spec.Query) > 0 {
		req.SetQueryParamsFromValues(spec.Query)
	}
	if spec.Body != nil {
		req.SetBody(spec.Body)
	}

	start := time.Now()
	resp, err := req.Execute(spec.Method, spec.URL)
	elapsed := time.Since(start)
	span.SetAttributes(attribute.String("http.method", spec.Method))

	if err != nil {
		metrics.RecordUpstream(endpoint, 0, elapsed.Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		log.Warn().Err(err).Str("endpoint", endpoint).Str("method", spec.Method).Msg("HuggingFace request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}

	metrics.RecordUpstream(endpoint, resp.StatusCode(), elapsed.Seconds())
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
	if resp.IsError() {
		span.SetStatus(codes.Error, resp.Status())
	}
	log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode()).
		Int64("duration_ms", elapsed.Milliseconds()).
		Msg("HuggingFace request completed")

	return &domain.Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}
