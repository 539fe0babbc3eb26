package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lifehub/internal/domain"
)

const (
	defaultOpenAISmartModel   = "gpt-4o-mini"
	defaultDeepSeekSmartModel = "deepseek-chat"
	defaultSmartMaxTokens     = 1536
	defaultSmartTemperature   = 0.5
)

const smartSystemPrompt = "You are a personal productivity assistant. The user describes " +
	"what they want to achieve. Reply with JSON only, in the shape " +
	`{"suggestion": "...", "createdTasks": [{"title": "...", "priority": "low|medium|high", ` +
	`"dueDate": "YYYY-MM-DD", "project": "..."}], "createdHabits": [{"name": "...", ` +
	`"days": ["monday", ...]}], "createdNotes": [{"title": "...", "content": "..."}]}. ` +
	`"suggestion" is a short paragraph addressed to the user and is always required. ` +
	"The three arrays are optional; include an entry only when creating it would clearly " +
	"help. Priority, dueDate, project and days may be omitted when you have no opinion."

// TaskCreation is a proposed task from the smart-suggestion flow. Missing
// priority defaults to medium at materialization time.
type TaskCreation struct {
	Title    string `json:"title"`
	Priority string `json:"priority,omitempty"`
	DueDate  string `json:"dueDate,omitempty"`
	Project  string `json:"project,omitempty"`
}

// HabitCreation is a proposed habit. Missing days default to all seven.
type HabitCreation struct {
	Name string   `json:"name"`
	Days []string `json:"days,omitempty"`
}

// NoteCreation is a proposed note.
type NoteCreation struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SmartSuggestion is the full smart-suggestion payload. The flow only
// proposes; materializing the creation requests is the caller's job.
type SmartSuggestion struct {
	Suggestion    string          `json:"suggestion"`
	CreatedTasks  []TaskCreation  `json:"createdTasks,omitempty"`
	CreatedHabits []HabitCreation `json:"createdHabits,omitempty"`
	CreatedNotes  []NoteCreation  `json:"createdNotes,omitempty"`
}

// SmartSuggester produces a smart suggestion from a free-text description.
type SmartSuggester interface {
	Suggest(ctx context.Context, description string) (SmartSuggestion, error)
}

// AISmartService generates smart suggestions with the chat model.
type AISmartService struct {
	client *aiChatClient
}

// NewAISmartService constructs the default AISmartService.
func NewAISmartService(settings AISettings) *AISmartService {
	return &AISmartService{
		client: newAIChatClient(settings, defaultOpenAISmartModel, defaultDeepSeekSmartModel),
	}
}

// SetHTTPClient overrides the HTTP client, mainly for tests.
func (s *AISmartService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetOpenAIBaseURL overrides the OpenAI API base URL.
func (s *AISmartService) SetOpenAIBaseURL(base string) {
	s.client.SetOpenAIBaseURL(base)
}

// SetDeepSeekBaseURL overrides the DeepSeek API base URL.
func (s *AISmartService) SetDeepSeekBaseURL(base string) {
	s.client.SetDeepSeekBaseURL(base)
}

// Suggest asks the model for a suggestion plus optional creation requests.
// A response that fails schema validation is a hard error.
func (s *AISmartService) Suggest(ctx context.Context, description string) (SmartSuggestion, error) {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return SmartSuggestion{}, fmt.Errorf("description is required")
	}

	logAIExchange("SMART", "prompt", trimmed)
	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: smartSystemPrompt,
		UserPrompt:   trimmed,
		MaxTokens:    defaultSmartMaxTokens,
		Temperature:  defaultSmartTemperature,
		ForceJSON:    true,
	})
	if err != nil {
		return SmartSuggestion{}, err
	}
	logAIExchange("SMART", "response", result.Content)

	var parsed SmartSuggestion
	if err := json.Unmarshal([]byte(stripCodeFence(result.Content)), &parsed); err != nil {
		return SmartSuggestion{}, fmt.Errorf("smart suggestion: invalid model response: %w", err)
	}
	if err := validateSmartSuggestion(parsed); err != nil {
		return SmartSuggestion{}, fmt.Errorf("smart suggestion: %w", err)
	}
	return parsed, nil
}

func validateSmartSuggestion(s SmartSuggestion) error {
	if strings.TrimSpace(s.Suggestion) == "" {
		return fmt.Errorf("model response missing suggestion")
	}
	for _, task := range s.CreatedTasks {
		if strings.TrimSpace(task.Title) == "" {
			return fmt.Errorf("created task missing title")
		}
		if task.Priority != "" && !domain.ValidTaskPriority(domain.TaskPriority(task.Priority)) {
			return fmt.Errorf("created task has unknown priority %q", task.Priority)
		}
	}
	for _, habit := range s.CreatedHabits {
		if strings.TrimSpace(habit.Name) == "" {
			return fmt.Errorf("created habit missing name")
		}
		for _, day := range habit.Days {
			if !domain.ValidWeekday(domain.Weekday(day)) {
				return fmt.Errorf("created habit has unknown day %q", day)
			}
		}
	}
	for _, note := range s.CreatedNotes {
		if strings.TrimSpace(note.Title) == "" {
			return fmt.Errorf("created note missing title")
		}
	}
	return nil
}

// MaterializeTasks turns task creation requests into domain tasks,
// defaulting an unspecified priority to medium.
func MaterializeTasks(creations []TaskCreation) []domain.Task {
	tasks := make([]domain.Task, 0, len(creations))
	for _, creation := range creations {
		priority := domain.TaskPriority(creation.Priority)
		if creation.Priority == "" {
			priority = domain.TaskPriorityMedium
		}
		tasks = append(tasks, domain.Task{
			ID:       uuid.NewString(),
			Title:    strings.TrimSpace(creation.Title),
			Status:   domain.TaskStatusTodo,
			Priority: priority,
			DueDate:  strings.TrimSpace(creation.DueDate),
			Project:  strings.TrimSpace(creation.Project),
			Subtasks: []domain.Subtask{},
		})
	}
	return tasks
}

// MaterializeHabits turns habit creation requests into domain habits,
// defaulting unspecified days to all seven.
func MaterializeHabits(creations []HabitCreation) []domain.Habit {
	habits := make([]domain.Habit, 0, len(creations))
	for _, creation := range creations {
		days := make([]domain.Weekday, 0, len(creation.Days))
		for _, day := range creation.Days {
			days = append(days, domain.Weekday(day))
		}
		if len(days) == 0 {
			days = domain.AllWeekdays()
		}
		habits = append(habits, domain.Habit{
			ID:   uuid.NewString(),
			Name: strings.TrimSpace(creation.Name),
			Days: days,
		})
	}
	return habits
}

// MaterializeNotes turns note creation requests into domain notes stamped
// with the given creation time.
func MaterializeNotes(creations []NoteCreation, now time.Time) []domain.Note {
	notes := make([]domain.Note, 0, len(creations))
	for _, creation := range creations {
		notes = append(notes, domain.Note{
			ID:        uuid.NewString(),
			Title:     strings.TrimSpace(creation.Title),
			Content:   creation.Content,
			CreatedAt: now.UTC().Format(time.RFC3339),
		})
	}
	return notes
}
