package service

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// MarkdownRenderer converts note content to sanitized HTML for display.
type MarkdownRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewMarkdownRenderer constructs a renderer with GFM extensions and a
// user-generated-content sanitation policy.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts markdown to HTML and strips anything unsafe.
func (r *MarkdownRenderer) Render(content string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return string(r.policy.SanitizeBytes(buf.Bytes())), nil
}
