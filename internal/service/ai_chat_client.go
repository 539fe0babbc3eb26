package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// AIProviderOpenAI selects the OpenAI chat completions API.
	AIProviderOpenAI = "openai"
	// AIProviderDeepSeek selects the DeepSeek chat completions API.
	AIProviderDeepSeek = "deepseek"
)

// ErrAIAPIKeyMissing is returned when the configured provider has no key.
var ErrAIAPIKeyMissing = errors.New("api key is required")

// AISettings carries the provider selection and credentials for the AI
// flows, usually filled from the application configuration.
type AISettings struct {
	Provider       string
	OpenAIAPIKey   string
	DeepSeekAPIKey string
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type chatMessage struct {
	Role string `json:"role"`
	// Content is either a plain string or a []chatContentPart for
	// multimodal requests.
	Content any `json:"content"`
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	Temperature    float64             `json:"temperature,omitempty"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type aiChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	// ImageDataURI, when set, is attached as an image part alongside the
	// user prompt.
	ImageDataURI string
	MaxTokens    int
	Temperature  float64
	// ForceJSON asks the provider for a json_object response.
	ForceJSON bool
}

type aiChatResponse struct {
	Content string
}

type aiChatClient struct {
	settings             AISettings
	http                 httpDoer
	openAIBaseURL        string
	deepSeekBaseURL      string
	openAIModel          string
	deepSeekModel        string
	defaultOpenAIModel   string
	defaultDeepSeekModel string
}

func newAIChatClient(settings AISettings, defaultOpenAIModel, defaultDeepSeekModel string) *aiChatClient {
	return &aiChatClient{
		settings:             settings,
		http:                 &http.Client{Timeout: 180 * time.Second},
		openAIBaseURL:        "https://api.openai.com/v1",
		deepSeekBaseURL:      "https://api.deepseek.com/v1",
		openAIModel:          strings.TrimSpace(defaultOpenAIModel),
		deepSeekModel:        strings.TrimSpace(defaultDeepSeekModel),
		defaultOpenAIModel:   strings.TrimSpace(defaultOpenAIModel),
		defaultDeepSeekModel: strings.TrimSpace(defaultDeepSeekModel),
	}
}

func (c *aiChatClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 20 * time.Second}
		return
	}
	c.http = client
}

func (c *aiChatClient) SetOpenAIBaseURL(base string) {
	c.openAIBaseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

func (c *aiChatClient) SetDeepSeekBaseURL(base string) {
	c.deepSeekBaseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

func (c *aiChatClient) SetOpenAIModel(model string) {
	model = strings.TrimSpace(model)
	if model == "" {
		return
	}
	c.openAIModel = model
}

func (c *aiChatClient) SetDeepSeekModel(model string) {
	model = strings.TrimSpace(model)
	if model == "" {
		return
	}
	c.deepSeekModel = model
}

func normalizeAIProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case AIProviderDeepSeek:
		return AIProviderDeepSeek
	case AIProviderOpenAI:
		return AIProviderOpenAI
	}
	return ""
}

func (c *aiChatClient) call(ctx context.Context, req aiChatRequest) (aiChatResponse, error) {
	provider := normalizeAIProvider(c.settings.Provider)
	if provider == "" {
		provider = AIProviderOpenAI
	}

	var (
		apiKey string
		base   string
		model  string
		label  string
	)

	switch provider {
	case AIProviderDeepSeek:
		apiKey = strings.TrimSpace(c.settings.DeepSeekAPIKey)
		base = c.deepSeekBaseURL
		if strings.TrimSpace(base) == "" {
			base = "https://api.deepseek.com/v1"
		}
		model = c.deepSeekModel
		if strings.TrimSpace(model) == "" {
			model = c.defaultDeepSeekModel
		}
		label = "DeepSeek"
	default:
		apiKey = strings.TrimSpace(c.settings.OpenAIAPIKey)
		base = c.openAIBaseURL
		if strings.TrimSpace(base) == "" {
			base = "https://api.openai.com/v1"
		}
		model = c.openAIModel
		if strings.TrimSpace(model) == "" {
			model = c.defaultOpenAIModel
		}
		label = "OpenAI"
	}

	if apiKey == "" {
		return aiChatResponse{}, ErrAIAPIKeyMissing
	}

	client := c.http
	if client == nil {
		client = http.DefaultClient
	}

	maxTokens := req.MaxTokens
	if maxTokens < 0 {
		maxTokens = 0
	}

	var userMessage chatMessage
	if req.ImageDataURI != "" {
		userMessage = chatMessage{
			Role: "user",
			Content: []chatContentPart{
				{Type: "text", Text: req.UserPrompt},
				{Type: "image_url", ImageURL: &chatImageURL{URL: req.ImageDataURI}},
			},
		}
	} else {
		userMessage = chatMessage{Role: "user", Content: req.UserPrompt}
	}

	payload := chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: strings.TrimSpace(req.SystemPrompt)},
			userMessage,
		},
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}
	if req.ForceJSON {
		payload.ResponseFormat = &chatResponseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return aiChatResponse{}, fmt.Errorf("encode chat request: %w", err)
	}

	endpoint := strings.TrimRight(base, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return aiChatResponse{}, fmt.Errorf("create %s request: %w", label, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "lifehub-ai/1.0")

	resp, err := client.Do(httpReq)
	if err != nil {
		return aiChatResponse{}, fmt.Errorf("call %s API: %w", label, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return aiChatResponse{}, fmt.Errorf("read %s response: %w", label, err)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return aiChatResponse{}, fmt.Errorf("decode %s response: %w", label, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		errMsg := strings.TrimSpace(completion.Error.Message)
		if errMsg == "" {
			errMsg = strings.TrimSpace(string(respBody))
		}
		if errMsg == "" {
			errMsg = resp.Status
		}
		return aiChatResponse{}, fmt.Errorf("%s API error: %s", label, errMsg)
	}

	if len(completion.Choices) == 0 {
		return aiChatResponse{}, fmt.Errorf("%s API returned no choices", label)
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	return aiChatResponse{Content: content}, nil
}

// stripCodeFence removes a surrounding markdown code fence that models
// sometimes wrap around JSON payloads.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
