package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/lifehub/internal/domain"
)

func TestSmartServiceParsesFullPayload(t *testing.T) {
	svc := NewAISmartService(testAISettings())
	svc.SetOpenAIBaseURL("https://openai.test/v1")
	svc.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		return chatReply(t, `{
			"suggestion": "Start small with a morning block.",
			"createdTasks": [{"title": "Outline thesis", "priority": "high", "project": "studies"}],
			"createdHabits": [{"name": "Read 20 pages", "days": ["monday", "wednesday"]}],
			"createdNotes": [{"title": "Reading list", "content": "- Go in Action"}]
		}`), nil
	}})

	suggestion, err := svc.Suggest(context.Background(), "I want to finish my thesis")
	if err != nil {
		t.Fatalf("Suggest returned error: %v", err)
	}
	if suggestion.Suggestion == "" {
		t.Fatal("expected a suggestion text")
	}
	if len(suggestion.CreatedTasks) != 1 || suggestion.CreatedTasks[0].Priority != "high" {
		t.Fatalf("unexpected tasks %#v", suggestion.CreatedTasks)
	}
	if len(suggestion.CreatedHabits) != 1 || len(suggestion.CreatedHabits[0].Days) != 2 {
		t.Fatalf("unexpected habits %#v", suggestion.CreatedHabits)
	}
	if len(suggestion.CreatedNotes) != 1 {
		t.Fatalf("unexpected notes %#v", suggestion.CreatedNotes)
	}
}

func TestSmartServiceRejectsMissingSuggestion(t *testing.T) {
	svc := NewAISmartService(testAISettings())
	svc.SetOpenAIBaseURL("https://openai.test/v1")
	svc.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		return chatReply(t, `{"createdTasks": [{"title": "orphan"}]}`), nil
	}})

	if _, err := svc.Suggest(context.Background(), "help me"); err == nil {
		t.Fatal("expected a schema error when suggestion is missing")
	}
}

func TestSmartServiceRejectsUnknownPriority(t *testing.T) {
	svc := NewAISmartService(testAISettings())
	svc.SetOpenAIBaseURL("https://openai.test/v1")
	svc.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		return chatReply(t, `{"suggestion": "ok", "createdTasks": [{"title": "x", "priority": "urgent"}]}`), nil
	}})

	if _, err := svc.Suggest(context.Background(), "help me"); err == nil {
		t.Fatal("expected a schema error for an unknown priority")
	}
}

func TestMaterializeTasksDefaultsPriorityToMedium(t *testing.T) {
	tasks := MaterializeTasks([]TaskCreation{
		{Title: "Call the bank"},
		{Title: "Renew passport", Priority: "high", DueDate: "2026-04-01"},
	})

	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Priority != domain.TaskPriorityMedium {
		t.Fatalf("expected medium default, got %q", tasks[0].Priority)
	}
	if tasks[1].Priority != domain.TaskPriorityHigh {
		t.Fatalf("expected explicit priority kept, got %q", tasks[1].Priority)
	}
	if tasks[0].ID == "" || tasks[0].ID == tasks[1].ID {
		t.Fatal("expected unique generated ids")
	}
	if tasks[0].Status != domain.TaskStatusTodo {
		t.Fatalf("expected new tasks to start as todo, got %q", tasks[0].Status)
	}
	if tasks[0].Subtasks == nil {
		t.Fatal("expected an empty subtask slice, not nil")
	}
}

func TestMaterializeHabitsDefaultsDaysToAllSeven(t *testing.T) {
	habits := MaterializeHabits([]HabitCreation{
		{Name: "Meditate"},
		{Name: "Swim", Days: []string{"tuesday", "thursday"}},
	})

	if len(habits) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(habits))
	}
	if len(habits[0].Days) != 7 {
		t.Fatalf("expected all seven days by default, got %#v", habits[0].Days)
	}
	if len(habits[1].Days) != 2 {
		t.Fatalf("expected explicit days kept, got %#v", habits[1].Days)
	}
}

func TestMaterializeNotesStampsCreatedAt(t *testing.T) {
	now := time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC)
	notes := MaterializeNotes([]NoteCreation{{Title: "Plan", Content: "details"}}, now)

	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	if notes[0].CreatedAt != "2026-05-01T09:00:00Z" {
		t.Fatalf("unexpected createdAt %q", notes[0].CreatedAt)
	}
}
