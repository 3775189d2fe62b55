package mcp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/janhq/hf-mcp/internal/domain/huggingface"
	"github.com/janhq/hf-mcp/internal/domain/prompt"
	"github.com/janhq/hf-mcp/internal/infrastructure/credential"
	hfclient "github.com/janhq/hf-mcp/internal/infrastructure/huggingface"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R', 0, 0, 0, 1, 0, 0, 0, 1}

type upstreamCall struct {
	method string
	path   string
	query  url.Values
	auth   string
	body   map[string]any
}

type upstreamReply struct {
	status      int
	body        []byte
	contentType string
}

// stubHF is a fake HuggingFace API keyed by request path.
type stubHF struct {
	mu      sync.Mutex
	calls   []upstreamCall
	replies map[string]upstreamReply
}

func (s *stubHF) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	call := upstreamCall{
		method: r.Method,
		path:   r.URL.Path,
		query:  r.URL.Query(),
		auth:   r.Header.Get("Authorization"),
	}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &call.body)
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	reply, ok := s.replies[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.Error(w, "no stub for "+r.URL.Path, http.StatusNotFound)
		return
	}
	if reply.contentType == "" {
		reply.contentType = "application/json"
	}
	w.Header().Set("Content-Type", reply.contentType)
	w.WriteHeader(reply.status)
	_, _ = w.Write(reply.body)
}

func (s *stubHF) reply(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[path] = upstreamReply{status: status, body: []byte(body)}
}

func (s *stubHF) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubHF) lastCall() upstreamCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

func newSession(t *testing.T, cred credential.Credential) (*mcp.ClientSession, *stubHF) {
	t.Helper()

	stub := &stubHF{replies: map[string]upstreamReply{}}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	builder := hfclient.NewRequestBuilder(cred, false, srv.URL+"/models", srv.URL+"/api")
	client := hfclient.NewClient(builder, 5*time.Second, nil, nil)
	hub := domain.NewHubService(client)
	inference := domain.NewInferenceService(client)
	catalog, err := prompt.LoadCatalog()
	require.NoError(t, err)

	route := NewMCPRoute(NewHubMCP(hub), NewInferenceMCP(inference), NewResourceMCP(hub), NewPromptMCP(catalog))

	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := route.Server().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	session, err := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil).Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session, stub
}

func callText(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content from %s", name)
	return text.Text, res.IsError
}

func TestListToolsAdvertisesAllOperations(t *testing.T) {
	session, _ := newSession(t, credential.New("hf_test"))

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"get_recommended_models",
		"image_classification",
		"image_generation",
		"question_answering",
		"search_models",
		"summarization",
		"text_generation",
		"translation",
	}, names)
}

func TestSearchModelsScenario(t *testing.T) {
	session, stub := newSession(t, credential.New("hf_test"))
	stub.reply("/api/models", http.StatusOK, `[
		{"id":"gpt2","description":"OpenAI GPT-2"},
		{"id":"distilgpt2"},
		{"id":"gpt2-medium","description":"`+strings.Repeat("x", 300)+`"}
	]`)

	text, isErr := callText(t, session, "search_models", map[string]any{"query": "gpt2", "limit": 3})
	require.False(t, isErr)

	assert.True(t, strings.HasPrefix(text, "# Search Results for 'gpt2'\n\n"))
	assert.Equal(t, 3, strings.Count(text, "- **"))
	assert.Contains(t, text, "- **distilgpt2**: No description...")
	assert.Contains(t, text, "- **gpt2-medium**: "+strings.Repeat("x", 100)+"...\n")

	call := stub.lastCall()
	assert.Equal(t, "gpt2", call.query.Get("search"))
	assert.Equal(t, "3", call.query.Get("limit"))
	assert.Equal(t, "Bearer hf_test", call.auth)
}

func TestTextToolsRenderNon2xx(t *testing.T) {
	session, stub := newSession(t, credential.New("hf_test"))
	stub.reply("/api/models", http.StatusInternalServerError, "boom")
	stub.reply("/models/gpt2", http.StatusServiceUnavailable, `{"error":"loading"}`)

	text, isErr := callText(t, session, "search_models", map[string]any{"query": "x"})
	assert.False(t, isErr)
	assert.Equal(t, "Error: 500 - boom", text)

	text, isErr = callText(t, session, "text_generation", map[string]any{"model_id": "gpt2", "prompt": "hi"})
	assert.False(t, isErr)
	assert.Equal(t, `Error: 503 - {"error":"loading"}`, text)
}

func TestTextGenerationRequestBody(t *testing.T) {
	session, stub := newSession(t, credential.New("hf_test"))
	stub.reply("/models/EleutherAI/gpt-neo-1.3B", http.StatusOK, `[{"generated_text":" and then"}]`)

	text, isErr := callText(t, session, "text_generation", map[string]any{"model_id": "EleutherAI/gpt-neo-1.3B", "prompt": "Once"})
	require.False(t, isErr)
	assert.Equal(t, " and then", text)

	call := stub.lastCall()
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "Once", call.body["inputs"])
	assert.Equal(t, map[string]any{
		"max_length":       float64(100),
		"temperature":      0.7,
		"return_full_text": false,
	}, call.body["parameters"])
}

func TestTranslationOmitsLanguageKeys(t *testing.T) {
	session, stub := newSession(t, credential.New("hf_test"))
	stub.reply("/models/Helsinki-NLP/opus-mt-en-fr", http.StatusOK, `[{"translation_text":"Bonjour"}]`)

	text, _ := callText(t, session, "translation", map[string]any{"model_id": "Helsinki-NLP/opus-mt-en-fr", "text": "Hello"})
	assert.Equal(t, "Bonjour", text)
	assert.Equal(t, map[string]any{"inputs": "Hello"}, stub.lastCall().body)
}

func TestImageGeneration(t *testing.T) {
	session, stub := newSession(t, credential.New("hf_test"))
	stub.mu.Lock()
	stub.replies["/models/stabilityai/stable-diffusion-2"] = upstreamReply{status: http.StatusOK, body: pngBytes, contentType: "image/png"}
	stub.mu.Unlock()

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "image_generation",
		Arguments: map[string]any{"model_id": "stabilityai/stable-diffusion-2", "prompt": "a red fox"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)

	img, ok := res.Content[0].(*mcp.ImageContent)
	require.True(t, ok)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, pngBytes, img.Data)
	assert.Equal(t, map[string]any{"inputs": "a red fox"}, stub.lastCall().body)
}

func TestImageGenerationUpstreamFailureIsToolError(t *testing.T) {
	session, stub := newSession(t, credential.New("hf_test"))
	stub.reply("/models/m", http.StatusServiceUnavailable, "Model is loading")

	text, isErr := callText(t, session, "image_generation", map[string]any{"model_id": "m", "prompt": "p"})
	assert.True(t, isErr)
	assert.Contains(t, text, "503")
	assert.Contains(t, text, "Model is loading")
}

func TestMissingCredentialFailsEveryCallWithoutNetwork(t *testing.T) {
	session, stub := newSession(t, credential.Credential{})

	textTools := map[string]map[string]any{
		"search_models":          {"query": "gpt2"},
		"get_recommended_models": {"task": "text-generation"},
		"text_generation":        {"model_id": "gpt2", "prompt": "hi"},
		"image_classification":   {"model_id": "m", "image_url": "https://example.com/cat.png"},
		"question_answering":     {"model_id": "m", "question": "q", "context": "c"},
		"summarization":          {"model_id": "m", "text": "t"},
		"translation":            {"model_id": "m", "text": "t"},
	}
	for name, args := range textTools {
		text, isErr := callText(t, session, name, args)
		assert.False(t, isErr, name)
		assert.True(t, strings.HasPrefix(text, "Error"), "%s returned %q", name, text)
		assert.Contains(t, text, "not configured", name)
	}

	_, isErr := callText(t, session, "image_generation", map[string]any{"model_id": "m", "prompt": "p"})
	assert.True(t, isErr)

	res, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "hf://model/gpt2/info"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Contents[0].Text, "Error"))

	assert.Equal(t, 0, stub.callCount())
}

func TestModelInfoResourceWithSlash(t *testing.T) {
	session, stub := newSession(t, credential.New("hf_test"))
	stub.reply("/api/models/EleutherAI/gpt-neo-1.3B", http.StatusOK, `{"id":"EleutherAI/gpt-neo-1.3B","author":"EleutherAI","downloads":10,"likes":3,"tags":["text-generation"]}`)

	ctx := context.Background()
	first, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "hf://model/EleutherAI/gpt-neo-1.3B/info"})
	require.NoError(t, err)
	second, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "hf://model/EleutherAI/gpt-neo-1.3B/info"})
	require.NoError(t, err)

	require.Len(t, first.Contents, 1)
	assert.Equal(t, "text/markdown", first.Contents[0].MIMEType)
	assert.True(t, strings.HasPrefix(first.Contents[0].Text, "# EleutherAI/gpt-neo-1.3B\n\n**Author:** EleutherAI\n"))
	assert.Equal(t, first.Contents[0].Text, second.Contents[0].Text)
	assert.Equal(t, "/api/models/EleutherAI/gpt-neo-1.3B", stub.lastCall().path)
}

func TestModelsByTypeResource(t *testing.T) {
	session, stub := newSession(t, credential.New("hf_test"))
	stub.reply("/api/models", http.StatusOK, `[{"id":"gpt2","description":"GPT-2"}]`)

	res, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "hf://models/text-generation"})
	require.NoError(t, err)
	assert.Equal(t, "# Text-generation Models\n\n- **gpt2**: GPT-2...\n", res.Contents[0].Text)

	call := stub.lastCall()
	assert.Equal(t, "text-generation", call.query.Get("filter"))
	assert.Equal(t, "20", call.query.Get("limit"))
}

func TestPromptsServeExactCatalogText(t *testing.T) {
	session, _ := newSession(t, credential.New("hf_test"))
	ctx := context.Background()

	list, err := session.ListPrompts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list.Prompts, 2)

	res, err := session.GetPrompt(ctx, &mcp.GetPromptParams{Name: "image_generation_prompt"})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, mcp.Role("user"), res.Messages[0].Role)
	text, ok := res.Messages[0].Content.(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "I'll help you generate images using HuggingFace text-to-image models. Please provide:\n"+
		"\n"+
		"1. The model ID (e.g., \"stabilityai/stable-diffusion-2\", \"runwayml/stable-diffusion-v1-5\")\n"+
		"2. Your prompt describing the image\n"+
		"\n"+
		"You can use the search_models tool with \"text-to-image\" to find suitable models.\n", text.Text)

	res, err = session.GetPrompt(ctx, &mcp.GetPromptParams{Name: "text_generation_prompt"})
	require.NoError(t, err)
	text, ok = res.Messages[0].Content.(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "I'll help you generate text using HuggingFace models. Please provide:\n"+
		"\n"+
		"1. The model ID (e.g., \"gpt2\", \"EleutherAI/gpt-neo-1.3B\")\n"+
		"2. Your prompt text\n"+
		"3. Optional parameters like max_length and temperature\n"+
		"\n"+
		"You can use the search_models tool to find suitable models.\n", text.Text)
}

func TestGetPromptUnknownName(t *testing.T) {
	catalog, err := prompt.LoadCatalog()
	require.NoError(t, err)

	_, err = NewPromptMCP(catalog).getPrompt(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Name: "missing_prompt"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_prompt")
}

func TestSearchModelsSchemaRequiresQuery(t *testing.T) {
	schema := inputSchema[SearchModelsArgs]()
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []any{"query"}, schema["required"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	limit, ok := props["limit"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(10), limit["default"])
}

func TestMatchParam(t *testing.T) {
	id, err := matchParam(modelInfoURI, "hf://model/EleutherAI/gpt-neo-1.3B/info", "model_id")
	require.NoError(t, err)
	assert.Equal(t, "EleutherAI/gpt-neo-1.3B", id)

	id, err = matchParam(modelInfoURI, "hf://model/EleutherAI%2Fgpt-neo-1.3B/info", "model_id")
	require.NoError(t, err)
	assert.Equal(t, "EleutherAI/gpt-neo-1.3B", id)

	modelType, err := matchParam(modelsByTypeURI, "hf://models/text-generation", "model_type")
	require.NoError(t, err)
	assert.Equal(t, "text-generation", modelType)

	_, err = matchParam(modelsByTypeURI, "hf://datasets/x", "model_type")
	assert.Error(t, err)
}
