package locale

// Message is a typed key into the per-language string tables. Using a
// closed enum instead of raw strings makes missing translations a compile
// error at the call site rather than a runtime fallback.
type Message int

const (
	MsgInvalidRequest Message = iota
	MsgUnauthorized
	MsgSessionSaveFailed
	MsgInvalidCredentials
	MsgEmailTaken
	MsgStateUnavailable
	MsgNoteNotFound
	MsgHabitNotFound
	MsgSuggestionsFailed
	MsgRoutineFailed
	MsgSmartSuggestFailed
	MsgExtractionFailed
	MsgDocumentTooLarge
	MsgDocumentMissing
	MsgCheckoutMissingFields
	MsgCheckoutNotConfigured
	MsgCheckoutFailed
)

var englishMessages = map[Message]string{
	MsgInvalidRequest:        "invalid request payload",
	MsgUnauthorized:          "authentication required",
	MsgSessionSaveFailed:     "failed to save session",
	MsgInvalidCredentials:    "invalid email or password",
	MsgEmailTaken:            "an account with this email already exists",
	MsgStateUnavailable:      "your data is not available yet, try again",
	MsgNoteNotFound:          "note not found",
	MsgHabitNotFound:         "habit not found",
	MsgSuggestionsFailed:     "failed to generate suggestions, try again",
	MsgRoutineFailed:         "failed to generate a routine suggestion, try again",
	MsgSmartSuggestFailed:    "failed to generate smart suggestions, try again",
	MsgExtractionFailed:      "failed to read transactions from the document",
	MsgDocumentTooLarge:      "the uploaded document is too large",
	MsgDocumentMissing:       "no document was uploaded",
	MsgCheckoutMissingFields: "priceId and userEmail are required",
	MsgCheckoutNotConfigured: "checkout is not configured on this server",
	MsgCheckoutFailed:        "failed to create a checkout session",
}

var spanishMessages = map[Message]string{
	MsgInvalidRequest:        "el contenido de la solicitud no es válido",
	MsgUnauthorized:          "se requiere autenticación",
	MsgSessionSaveFailed:     "no se pudo guardar la sesión",
	MsgInvalidCredentials:    "correo o contraseña incorrectos",
	MsgEmailTaken:            "ya existe una cuenta con este correo",
	MsgStateUnavailable:      "tus datos aún no están disponibles, inténtalo de nuevo",
	MsgNoteNotFound:          "nota no encontrada",
	MsgHabitNotFound:         "hábito no encontrado",
	MsgSuggestionsFailed:     "no se pudieron generar sugerencias, inténtalo de nuevo",
	MsgRoutineFailed:         "no se pudo generar una rutina, inténtalo de nuevo",
	MsgSmartSuggestFailed:    "no se pudieron generar sugerencias inteligentes, inténtalo de nuevo",
	MsgExtractionFailed:      "no se pudieron leer transacciones del documento",
	MsgDocumentTooLarge:      "el documento subido es demasiado grande",
	MsgDocumentMissing:       "no se subió ningún documento",
	MsgCheckoutMissingFields: "priceId y userEmail son obligatorios",
	MsgCheckoutNotConfigured: "el pago no está configurado en este servidor",
	MsgCheckoutFailed:        "no se pudo crear la sesión de pago",
}

// T returns the message text for the given language, falling back to
// English for unknown languages or missing entries.
func T(language string, m Message) string {
	if NormalizeLanguage(language) == LanguageSpanish {
		if text, ok := spanishMessages[m]; ok {
			return text
		}
	}
	return englishMessages[m]
}
