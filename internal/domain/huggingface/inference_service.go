package huggingface

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// InferenceService runs hosted models through the inference endpoint.
type InferenceService struct {
	transport Transport
}

// NewInferenceService creates a new inference service.
func NewInferenceService(transport Transport) *InferenceService {
	return &InferenceService{transport: transport}
}

// TextGeneration returns the generated continuation of the prompt.
func (s *InferenceService) TextGeneration(ctx context.Context, req TextGenerationRequest) (string, error) {
	if err := requireAll("model_id", req.ModelID, "prompt", req.Prompt); err != nil {
		return "", err
	}

	// Apply defaults
	if req.MaxLength == nil {
		defaultMax := DefaultMaxLength
		req.MaxLength = &defaultMax
	}
	if req.Temperature == nil {
		defaultTemperature := DefaultTemperature
		req.Temperature = &defaultTemperature
	}

	params := Parameters{
		"max_length":       *req.MaxLength,
		"temperature":      *req.Temperature,
		"return_full_text": false,
	}
	body, err := s.infer(ctx, req.ModelID, req.Prompt, params)
	if err != nil {
		return "", err
	}
	return DecodeTextGeneration(body).Render(), nil
}

// ImageClassification labels the image at the given URL.
func (s *InferenceService) ImageClassification(ctx context.Context, req ImageClassificationRequest) (string, error) {
	if err := requireAll("model_id", req.ModelID, "image_url", req.ImageURL); err != nil {
		return "", err
	}

	body, err := s.infer(ctx, req.ModelID, req.ImageURL, nil)
	if err != nil {
		return "", err
	}
	return DecodeClassifications(body).Render(), nil
}

// ImageGeneration returns the generated image. Every failure is returned as an error,
// including non-image response bodies.
func (s *InferenceService) ImageGeneration(ctx context.Context, req ImageGenerationRequest) (*Image, error) {
	if err := requireAll("model_id", req.ModelID, "prompt", req.Prompt); err != nil {
		return nil, err
	}

	body, err := s.infer(ctx, req.ModelID, req.Prompt, nil)
	if err != nil {
		return nil, err
	}
	return DecodeImage(body)
}

// QuestionAnswering extracts the answer to a question from the supplied context.
func (s *InferenceService) QuestionAnswering(ctx context.Context, req QuestionAnsweringRequest) (string, error) {
	if err := requireAll("model_id", req.ModelID, "question", req.Question); err != nil {
		return "", err
	}

	inputs := map[string]string{
		"question": req.Question,
		"context":  req.Context,
	}
	body, err := s.infer(ctx, req.ModelID, inputs, nil)
	if err != nil {
		return "", err
	}
	return DecodeAnswer(body).Render(), nil
}

// Summarization condenses the text.
func (s *InferenceService) Summarization(ctx context.Context, req SummarizationRequest) (string, error) {
	if err := requireAll("model_id", req.ModelID, "text", req.Text); err != nil {
		return "", err
	}

	// Apply defaults
	if req.MaxLength == nil {
		defaultMax := DefaultSummaryMaxLength
		req.MaxLength = &defaultMax
	}
	if req.MinLength == nil {
		defaultMin := DefaultSummaryMinLength
		req.MinLength = &defaultMin
	}

	params := Parameters{
		"max_length": *req.MaxLength,
		"min_length": *req.MinLength,
	}
	body, err := s.infer(ctx, req.ModelID, req.Text, params)
	if err != nil {
		return "", err
	}
	return DecodeFieldText(body, "summary_text").Render(), nil
}

// Translation translates the text with a translation model.
func (s *InferenceService) Translation(ctx context.Context, req TranslationRequest) (string, error) {
	if err := requireAll("model_id", req.ModelID, "text", req.Text); err != nil {
		return "", err
	}

	params := Parameters{}
	if req.SourceLang != "" {
		params["source_lang"] = req.SourceLang
	}
	if req.TargetLang != "" {
		params["target_lang"] = req.TargetLang
	}
	body, err := s.infer(ctx, req.ModelID, req.Text, params)
	if err != nil {
		return "", err
	}
	return DecodeFieldText(body, "translation_text").Render(), nil
}

func (s *InferenceService) infer(ctx context.Context, modelID string, inputs any, params Parameters) ([]byte, error) {
	resp, err := s.transport.Infer(ctx, modelID, inputs, params)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, upstreamError(resp)
	}
	return resp.Body, nil
}

// DecodeImage sniffs the image format from the leading bytes.
func DecodeImage(body []byte) (*Image, error) {
	mtype := mimetype.Detect(body)
	mime, _, _ := strings.Cut(mtype.String(), ";")
	kind, format, ok := strings.Cut(mime, "/")
	if !ok || kind != "image" || len(body) == 0 {
		return nil, fmt.Errorf("%w: detected %s", ErrNotAnImage, mime)
	}
	return &Image{
		Data:     body,
		Format:   strings.ToLower(format),
		MIMEType: mime,
	}, nil
}

func requireAll(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := required(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}
