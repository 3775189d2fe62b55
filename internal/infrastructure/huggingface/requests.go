package huggingface

import (
	"net/http"
	"net/url"
	"strings"

	domain "github.com/janhq/hf-mcp/internal/domain/huggingface"
	"github.com/janhq/hf-mcp/internal/infrastructure/credential"
)

// RequestSpec describes one outbound call. Building it performs no I/O.
type RequestSpec struct {
	Method string
	URL    string
	Query  url.Values
	Header http.Header
	Body   any
}

// inferencePayload is the inference endpoint body. Parameters is omitted when empty.
type inferencePayload struct {
	Inputs     any            `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// RequestBuilder turns tool arguments into authenticated request descriptions.
type RequestBuilder struct {
	cred           credential.Credential
	allowAnonymous bool
	inferenceBase  string
	hubBase        string
}

// NewRequestBuilder creates a builder for the given endpoints.
func NewRequestBuilder(cred credential.Credential, allowAnonymous bool, inferenceBase, hubBase string) *RequestBuilder {
	return &RequestBuilder{
		cred:           cred,
		allowAnonymous: allowAnonymous,
		inferenceBase:  strings.TrimRight(inferenceBase, "/"),
		hubBase:        strings.TrimRight(hubBase, "/"),
	}
}

// BuildInferenceRequest describes POST {inference_base}/{model_id}. The model id is
// appended verbatim so "org/name" keeps its path separator.
func (b *RequestBuilder) BuildInferenceRequest(modelID string, inputs any, params domain.Parameters) (RequestSpec, error) {
	header, err := b.header()
	if err != nil {
		return RequestSpec{}, err
	}
	header.Set("Content-Type", "application/json")

	payload := inferencePayload{Inputs: inputs}
	for key, value := range params {
		if value == nil {
			continue
		}
		if payload.Parameters == nil {
			payload.Parameters = make(map[string]any, len(params))
		}
		payload.Parameters[key] = value
	}

	return RequestSpec{
		Method: http.MethodPost,
		URL:    b.inferenceBase + "/" + modelID,
		Header: header,
		Body:   payload,
	}, nil
}

// BuildHubRequest describes GET {hub_base}/{path}?{query}.
func (b *RequestBuilder) BuildHubRequest(path string, query url.Values) (RequestSpec, error) {
	header, err := b.header()
	if err != nil {
		return RequestSpec{}, err
	}

	return RequestSpec{
		Method: http.MethodGet,
		URL:    b.hubBase + "/" + strings.TrimLeft(path, "/"),
		Query:  query,
		Header: header,
	}, nil
}

func (b *RequestBuilder) header() (http.Header, error) {
	header := http.Header{}
	if b.cred.IsZero() {
		if !b.allowAnonymous {
			return nil, credential.ErrCredentialUnavailable
		}
		return header, nil
	}
	header.Set("Authorization", b.cred.AuthorizationHeader())
	return header, nil
}
