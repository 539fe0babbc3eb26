package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	defaultOpenAIRoutineModel   = "gpt-4o-mini"
	defaultDeepSeekRoutineModel = "deepseek-chat"
	defaultRoutineMaxTokens     = 1024
	defaultRoutineTemperature   = 0.6
)

const routineSystemPrompt = "You are a personal productivity coach. The user describes " +
	"their situation or goals in free text. Reply with a single suggested routine as a " +
	"short markdown block: a brief intro line followed by a bulleted or time-blocked plan. " +
	"Do not ask questions and do not add closing remarks."

// ErrRoutineEmpty is returned when the model produces no usable content.
var ErrRoutineEmpty = errors.New("routine suggestion returned empty content")

// RoutineSuggester produces a routine suggestion from a free-text
// description.
type RoutineSuggester interface {
	SuggestRoutine(ctx context.Context, description string) (string, error)
}

// AIRoutineService generates routine suggestions with the chat model.
type AIRoutineService struct {
	client *aiChatClient
}

// NewAIRoutineService constructs the default AIRoutineService.
func NewAIRoutineService(settings AISettings) *AIRoutineService {
	return &AIRoutineService{
		client: newAIChatClient(settings, defaultOpenAIRoutineModel, defaultDeepSeekRoutineModel),
	}
}

// SetHTTPClient overrides the HTTP client, mainly for tests.
func (s *AIRoutineService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetOpenAIBaseURL overrides the OpenAI API base URL.
func (s *AIRoutineService) SetOpenAIBaseURL(base string) {
	s.client.SetOpenAIBaseURL(base)
}

// SetDeepSeekBaseURL overrides the DeepSeek API base URL.
func (s *AIRoutineService) SetDeepSeekBaseURL(base string) {
	s.client.SetDeepSeekBaseURL(base)
}

// SuggestRoutine asks the model for a routine matching the description.
func (s *AIRoutineService) SuggestRoutine(ctx context.Context, description string) (string, error) {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return "", fmt.Errorf("description is required")
	}

	logAIExchange("ROUTINE", "prompt", trimmed)
	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: routineSystemPrompt,
		UserPrompt:   trimmed,
		MaxTokens:    defaultRoutineMaxTokens,
		Temperature:  defaultRoutineTemperature,
	})
	if err != nil {
		return "", err
	}

	suggestion := strings.TrimSpace(result.Content)
	logAIExchange("ROUTINE", "response", suggestion)
	if suggestion == "" {
		return "", ErrRoutineEmpty
	}
	return suggestion, nil
}
