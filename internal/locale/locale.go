package locale

import "strings"

const (
	LanguageEnglish = "en"
	LanguageSpanish = "es"
)

// NormalizeLanguage maps loose language identifiers to a supported code.
func NormalizeLanguage(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "en") {
		return LanguageEnglish
	}
	if strings.HasPrefix(trimmed, "es") || strings.HasPrefix(trimmed, "sp") {
		return LanguageSpanish
	}
	return ""
}

// LanguageFromAcceptLanguage derives a supported code from the HTTP
// Accept-Language header, returning "" when nothing matches.
func LanguageFromAcceptLanguage(header string) string {
	trimmed := strings.ToLower(strings.TrimSpace(header))
	if trimmed == "" {
		return ""
	}
	if strings.Contains(trimmed, "es") {
		return LanguageSpanish
	}
	if strings.Contains(trimmed, "en") {
		return LanguageEnglish
	}
	return ""
}
