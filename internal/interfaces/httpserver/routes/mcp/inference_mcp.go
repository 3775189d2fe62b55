package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	domain "github.com/janhq/hf-mcp/internal/domain/huggingface"
	"github.com/janhq/hf-mcp/internal/infrastructure/metrics"
)

// TextGenerationArgs defines the arguments for the text_generation tool
type TextGenerationArgs struct {
	ModelID     string   `json:"model_id" jsonschema:"required,description=HuggingFace model id (e.g. gpt2 or EleutherAI/gpt-neo-1.3B)"`
	Prompt      string   `json:"prompt" jsonschema:"required,description=Prompt text to continue"`
	MaxLength   *int     `json:"max_length,omitempty" jsonschema:"description=Maximum length of the generated text,default=100"`
	Temperature *float64 `json:"temperature,omitempty" jsonschema:"description=Sampling temperature,default=0.7"`
}

// ImageClassificationArgs defines the arguments for the image_classification tool
type ImageClassificationArgs struct {
	ModelID  string `json:"model_id" jsonschema:"required,description=HuggingFace image classification model id"`
	ImageURL string `json:"image_url" jsonschema:"required,description=Publicly reachable URL of the image to classify"`
}

// ImageGenerationArgs defines the arguments for the image_generation tool
type ImageGenerationArgs struct {
	ModelID string `json:"model_id" jsonschema:"required,description=HuggingFace text-to-image model id (e.g. stabilityai/stable-diffusion-2)"`
	Prompt  string `json:"prompt" jsonschema:"required,description=Description of the image to generate"`
}

// QuestionAnsweringArgs defines the arguments for the question_answering tool
type QuestionAnsweringArgs struct {
	ModelID  string `json:"model_id" jsonschema:"required,description=HuggingFace extractive question answering model id"`
	Question string `json:"question" jsonschema:"required,description=Question to answer"`
	Context  string `json:"context" jsonschema:"required,description=Text that contains the answer"`
}

// SummarizationArgs defines the arguments for the summarization tool
type SummarizationArgs struct {
	ModelID   string `json:"model_id" jsonschema:"required,description=HuggingFace summarization model id"`
	Text      string `json:"text" jsonschema:"required,description=Text to summarize"`
	MaxLength *int   `json:"max_length,omitempty" jsonschema:"description=Maximum summary length,default=130"`
	MinLength *int   `json:"min_length,omitempty" jsonschema:"description=Minimum summary length,default=30"`
}

// TranslationArgs defines the arguments for the translation tool
type TranslationArgs struct {
	ModelID    string `json:"model_id" jsonschema:"required,description=HuggingFace translation model id"`
	Text       string `json:"text" jsonschema:"required,description=Text to translate"`
	SourceLang string `json:"source_lang,omitempty" jsonschema:"description=Source language code; sent only when set"`
	TargetLang string `json:"target_lang,omitempty" jsonschema:"description=Target language code; sent only when set"`
}

// InferenceMCP registers the hosted inference tools.
type InferenceMCP struct {
	service *domain.InferenceService
}

// NewInferenceMCP creates the inference tool handlers.
func NewInferenceMCP(service *domain.InferenceService) *InferenceMCP {
	return &InferenceMCP{service: service}
}

func (i *InferenceMCP) RegisterTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "text_generation",
		Description: "Generate text using a HuggingFace text generation model",
		InputSchema: inputSchema[TextGenerationArgs](),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input TextGenerationArgs) (*mcp.CallToolResult, any, error) {
		return runTextTool(ctx, "text_generation", input.ModelID, func(ctx context.Context) (string, error) {
			return i.service.TextGeneration(ctx, domain.TextGenerationRequest{
				ModelID:     input.ModelID,
				Prompt:      input.Prompt,
				MaxLength:   input.MaxLength,
				Temperature: input.Temperature,
			})
		})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "image_classification",
		Description: "Classify an image using a HuggingFace image classification model",
		InputSchema: inputSchema[ImageClassificationArgs](),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ImageClassificationArgs) (*mcp.CallToolResult, any, error) {
		return runTextTool(ctx, "image_classification", input.ModelID, func(ctx context.Context) (string, error) {
			return i.service.ImageClassification(ctx, domain.ImageClassificationRequest{
				ModelID:  input.ModelID,
				ImageURL: input.ImageURL,
			})
		})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "image_generation",
		Description: "Generate an image using a HuggingFace text-to-image model",
		InputSchema: inputSchema[ImageGenerationArgs](),
	}, i.imageGeneration)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "question_answering",
		Description: "Answer a question based on the provided context using a HuggingFace QA model",
		InputSchema: inputSchema[QuestionAnsweringArgs](),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input QuestionAnsweringArgs) (*mcp.CallToolResult, any, error) {
		return runTextTool(ctx, "question_answering", input.ModelID, func(ctx context.Context) (string, error) {
			return i.service.QuestionAnswering(ctx, domain.QuestionAnsweringRequest{
				ModelID:  input.ModelID,
				Question: input.Question,
				Context:  input.Context,
			})
		})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarization",
		Description: "Summarize text using a HuggingFace summarization model",
		InputSchema: inputSchema[SummarizationArgs](),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SummarizationArgs) (*mcp.CallToolResult, any, error) {
		return runTextTool(ctx, "summarization", input.ModelID, func(ctx context.Context) (string, error) {
			return i.service.Summarization(ctx, domain.SummarizationRequest{
				ModelID:   input.ModelID,
				Text:      input.Text,
				MaxLength: input.MaxLength,
				MinLength: input.MinLength,
			})
		})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "translation",
		Description: "Translate text using a HuggingFace translation model",
		InputSchema: inputSchema[TranslationArgs](),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input TranslationArgs) (*mcp.CallToolResult, any, error) {
		return runTextTool(ctx, "translation", input.ModelID, func(ctx context.Context) (string, error) {
			return i.service.Translation(ctx, domain.TranslationRequest{
				ModelID:    input.ModelID,
				Text:       input.Text,
				SourceLang: input.SourceLang,
				TargetLang: input.TargetLang,
			})
		})
	})
}

// imageGeneration returns image content. Failures are reported as tool errors,
// never as text.
func (i *InferenceMCP) imageGeneration(ctx context.Context, _ *mcp.CallToolRequest, input ImageGenerationArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	log.Info().Str("tool", "image_generation").Str("model_id", input.ModelID).Msg("MCP tool call received")

	img, err := i.service.ImageGeneration(ctx, domain.ImageGenerationRequest{
		ModelID: input.ModelID,
		Prompt:  input.Prompt,
	})
	if err != nil {
		metrics.RecordToolCall("image_generation", statusError, time.Since(start).Seconds())
		log.Warn().Err(err).Str("tool", "image_generation").Str("model_id", input.ModelID).Msg("MCP tool call failed")
		return nil, nil, errors.New(domain.ErrorText(err))
	}

	metrics.RecordToolCall("image_generation", statusOK, time.Since(start).Seconds())
	log.Info().
		Str("tool", "image_generation").
		Str("model_id", input.ModelID).
		Str("format", img.Format).
		Int("bytes", len(img.Data)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("MCP tool call completed")

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.ImageContent{Data: img.Data, MIMEType: img.MIMEType}},
	}, nil, nil
}
