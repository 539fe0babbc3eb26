package service

import (
	"log"
	"strings"
	"unicode/utf8"
)

const maxAILogSnippetRunes = 1024

// logAIExchange records the key part of an AI request or response so model
// behavior can be inspected from the server log.
func logAIExchange(kind, phase, content string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		log.Printf("[AI %s] %s: <empty>", kind, phase)
		return
	}

	runeCount := utf8.RuneCountInString(trimmed)
	snippet := trimmed
	if runeCount > maxAILogSnippetRunes {
		snippet = string([]rune(trimmed)[:maxAILogSnippetRunes]) + "…(truncated)"
	}
	log.Printf("[AI %s] %s (runes=%d): %s", kind, phase, runeCount, snippet)
}
