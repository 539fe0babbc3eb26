package handler

import (
	"net/http"
	"strings"
	"testing"
)

func TestGetNoteHTMLRendersSanitizedMarkdown(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()
	env.register(t, "ana@example.com")

	w := env.client.putJSON("/api/state/notes", map[string]any{
		"notes": []map[string]any{{
			"title":   "Groceries",
			"content": "# Groceries\n\n- milk\n\n<script>alert('x')</script>",
		}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("put notes failed with %d: %s", w.Code, w.Body.String())
	}
	var put struct {
		Notes []struct {
			ID string `json:"id"`
		} `json:"notes"`
	}
	decodeBody(t, w, &put)
	if len(put.Notes) != 1 || put.Notes[0].ID == "" {
		t.Fatalf("unexpected notes %#v", put.Notes)
	}

	hw := env.client.get("/api/notes/" + put.Notes[0].ID + "/html")
	if hw.Code != http.StatusOK {
		t.Fatalf("note html failed with %d: %s", hw.Code, hw.Body.String())
	}
	var body struct {
		Title string `json:"title"`
		HTML  string `json:"html"`
	}
	decodeBody(t, hw, &body)
	if body.Title != "Groceries" {
		t.Fatalf("unexpected title %q", body.Title)
	}
	if !strings.Contains(body.HTML, "<h1") || !strings.Contains(body.HTML, "<li>milk</li>") {
		t.Fatalf("expected rendered markdown, got %q", body.HTML)
	}
	if strings.Contains(body.HTML, "<script") {
		t.Fatalf("expected scripts to be stripped, got %q", body.HTML)
	}
}

func TestGetNoteHTMLUnknownNote(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()
	env.register(t, "ana@example.com")

	w := env.client.get("/api/notes/missing/html")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
