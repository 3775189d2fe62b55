package huggingface

// SearchModelsRequest searches the hub by free text.
type SearchModelsRequest struct {
	Query string
	Limit *int
}

// ListModelsByTypeRequest lists hub models tagged with a pipeline type.
type ListModelsByTypeRequest struct {
	ModelType string
	Limit     *int
}

// RecommendedModelsRequest asks for the most downloaded models for a task.
type RecommendedModelsRequest struct {
	Task string
}

// TextGenerationRequest runs a text-generation model.
type TextGenerationRequest struct {
	ModelID     string
	Prompt      string
	MaxLength   *int
	Temperature *float64
}

// ImageClassificationRequest classifies the image at ImageURL.
type ImageClassificationRequest struct {
	ModelID  string
	ImageURL string
}

// ImageGenerationRequest runs a text-to-image model.
type ImageGenerationRequest struct {
	ModelID string
	Prompt  string
}

// QuestionAnsweringRequest runs extractive QA over Context.
type QuestionAnsweringRequest struct {
	ModelID  string
	Question string
	Context  string
}

// SummarizationRequest summarizes Text.
type SummarizationRequest struct {
	ModelID   string
	Text      string
	MaxLength *int
	MinLength *int
}

// TranslationRequest translates Text. Empty language fields are not sent.
type TranslationRequest struct {
	ModelID    string
	Text       string
	SourceLang string
	TargetLang string
}
