package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	defaultOpenAIOrganizeModel   = "gpt-4o-mini"
	defaultDeepSeekOrganizeModel = "deepseek-chat"
	defaultOrganizeMaxTokens     = 512
	defaultOrganizeTemperature   = 0.4
)

const organizeSystemPrompt = "You are a personal productivity assistant. " +
	"The user gives you their current task titles and note titles. Suggest a short list of " +
	"concrete, actionable ways to organize their day or week. " +
	`Respond with JSON only, in the shape {"suggestions": ["..."]}. ` +
	"Each suggestion is one plain sentence. Do not include markdown or commentary."

// OrganizationSuggester produces organization suggestions from the user's
// tasks and notes, for injection into handlers.
type OrganizationSuggester interface {
	SuggestOrganization(ctx context.Context, tasks, notes []string) ([]string, error)
}

// AIOrganizeService generates organization suggestions with the chat model.
type AIOrganizeService struct {
	client *aiChatClient
}

// NewAIOrganizeService constructs the default AIOrganizeService.
func NewAIOrganizeService(settings AISettings) *AIOrganizeService {
	return &AIOrganizeService{
		client: newAIChatClient(settings, defaultOpenAIOrganizeModel, defaultDeepSeekOrganizeModel),
	}
}

// SetHTTPClient overrides the HTTP client, mainly for tests.
func (s *AIOrganizeService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetOpenAIBaseURL overrides the OpenAI API base URL.
func (s *AIOrganizeService) SetOpenAIBaseURL(base string) {
	s.client.SetOpenAIBaseURL(base)
}

// SetDeepSeekBaseURL overrides the DeepSeek API base URL.
func (s *AIOrganizeService) SetDeepSeekBaseURL(base string) {
	s.client.SetDeepSeekBaseURL(base)
}

type organizeResponse struct {
	Suggestions []string `json:"suggestions"`
}

// SuggestOrganization asks the model for organization suggestions. A
// response that does not match the declared shape fails the request; it is
// never coerced into partial data.
func (s *AIOrganizeService) SuggestOrganization(ctx context.Context, tasks, notes []string) ([]string, error) {
	userPrompt := buildOrganizePrompt(tasks, notes)
	logAIExchange("ORGANIZE", "prompt", userPrompt)

	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: organizeSystemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    defaultOrganizeMaxTokens,
		Temperature:  defaultOrganizeTemperature,
		ForceJSON:    true,
	})
	if err != nil {
		return nil, err
	}
	logAIExchange("ORGANIZE", "response", result.Content)

	var parsed organizeResponse
	if err := json.Unmarshal([]byte(stripCodeFence(result.Content)), &parsed); err != nil {
		return nil, fmt.Errorf("organization suggestions: invalid model response: %w", err)
	}
	if parsed.Suggestions == nil {
		return nil, fmt.Errorf("organization suggestions: model response missing suggestions")
	}

	suggestions := make([]string, 0, len(parsed.Suggestions))
	for _, suggestion := range parsed.Suggestions {
		if trimmed := strings.TrimSpace(suggestion); trimmed != "" {
			suggestions = append(suggestions, trimmed)
		}
	}
	return suggestions, nil
}

func buildOrganizePrompt(tasks, notes []string) string {
	var builder strings.Builder
	builder.WriteString("Tasks:\n")
	if len(tasks) == 0 {
		builder.WriteString("(none)\n")
	}
	for _, task := range tasks {
		builder.WriteString("- ")
		builder.WriteString(strings.TrimSpace(task))
		builder.WriteString("\n")
	}
	builder.WriteString("\nNotes:\n")
	if len(notes) == 0 {
		builder.WriteString("(none)\n")
	}
	for _, note := range notes {
		builder.WriteString("- ")
		builder.WriteString(strings.TrimSpace(note))
		builder.WriteString("\n")
	}
	return builder.String()
}
