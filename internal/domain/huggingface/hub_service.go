package huggingface

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// HubService answers model discovery queries against the hub API.
type HubService struct {
	transport Transport
}

// NewHubService creates a new hub service.
func NewHubService(transport Transport) *HubService {
	return &HubService{transport: transport}
}

// SearchModels returns a Markdown list of models matching the query.
func (s *HubService) SearchModels(ctx context.Context, req SearchModelsRequest) (string, error) {
	if err := required("query", req.Query); err != nil {
		return "", err
	}
	if req.Limit == nil {
		defaultLimit := DefaultSearchLimit
		req.Limit = &defaultLimit
	}

	query := url.Values{}
	query.Set("search", req.Query)
	query.Set("limit", strconv.Itoa(*req.Limit))
	return s.list(ctx, fmt.Sprintf("Search Results for '%s'", req.Query), query)
}

// ListModelsByType returns a Markdown list of models tagged with the pipeline type.
func (s *HubService) ListModelsByType(ctx context.Context, req ListModelsByTypeRequest) (string, error) {
	if err := required("model_type", req.ModelType); err != nil {
		return "", err
	}
	if req.Limit == nil {
		defaultLimit := DefaultListByTypeLimit
		req.Limit = &defaultLimit
	}

	query := url.Values{}
	query.Set("filter", req.ModelType)
	query.Set("limit", strconv.Itoa(*req.Limit))
	return s.list(ctx, Capitalize(req.ModelType)+" Models", query)
}

// RecommendedModels returns the most downloaded models for a task.
func (s *HubService) RecommendedModels(ctx context.Context, req RecommendedModelsRequest) (string, error) {
	if err := required("task", req.Task); err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("filter", req.Task)
	query.Set("sort", "downloads")
	query.Set("direction", "-1")
	query.Set("limit", strconv.Itoa(DefaultRecommendedLimit))
	return s.list(ctx, "Recommended Models for "+req.Task, query)
}

// ModelInfo returns the detailed Markdown document for one model.
func (s *HubService) ModelInfo(ctx context.Context, modelID string) (string, error) {
	if err := required("model_id", modelID); err != nil {
		return "", err
	}

	resp, err := s.transport.Hub(ctx, "models/"+modelID, nil)
	if err != nil {
		return "", err
	}
	if !resp.IsSuccess() {
		return "", upstreamError(resp)
	}
	return DecodeModelInfo(resp.Body).Render(), nil
}

func (s *HubService) list(ctx context.Context, title string, query url.Values) (string, error) {
	resp, err := s.transport.Hub(ctx, "models", query)
	if err != nil {
		return "", err
	}
	if !resp.IsSuccess() {
		return "", upstreamError(resp)
	}
	return DecodeModelList(title, resp.Body).Render(), nil
}
