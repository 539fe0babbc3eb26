package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lifehub/internal/domain"
)

const (
	defaultOpenAIExtractModel   = "gpt-4o-mini"
	defaultDeepSeekExtractModel = "deepseek-chat"
	defaultExtractMaxTokens     = 2048
	defaultExtractTemperature   = 0.1
)

const extractSystemPrompt = "You read financial documents: receipts, invoices and bank " +
	"statements. Extract every transaction you can see and reply with JSON only, in the " +
	`shape {"transactions": [{"date": "YYYY-MM-DD", "description": "...", "amount": 12.34, ` +
	`"type": "income|expense", "category": "..."}]}. ` +
	"Dates must be ISO formatted; amounts are positive numbers; infer a short category " +
	"such as groceries, transport, salary or utilities. If the document is not a " +
	`financial document or contains no transactions, reply with {"transactions": []}.`

// extractDateLayouts are the date shapes accepted from the model before
// normalizing to YYYY-MM-DD.
var extractDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"01/02/2006",
}

// TransactionExtractor pulls transaction records out of an uploaded
// financial document.
type TransactionExtractor interface {
	ExtractTransactions(ctx context.Context, document []byte, mimeType string) ([]domain.Transaction, error)
}

// AIExtractService extracts transactions with a vision-capable chat model.
type AIExtractService struct {
	client *aiChatClient
}

// NewAIExtractService constructs the default AIExtractService.
func NewAIExtractService(settings AISettings) *AIExtractService {
	return &AIExtractService{
		client: newAIChatClient(settings, defaultOpenAIExtractModel, defaultDeepSeekExtractModel),
	}
}

// SetHTTPClient overrides the HTTP client, mainly for tests.
func (s *AIExtractService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetOpenAIBaseURL overrides the OpenAI API base URL.
func (s *AIExtractService) SetOpenAIBaseURL(base string) {
	s.client.SetOpenAIBaseURL(base)
}

// SetDeepSeekBaseURL overrides the DeepSeek API base URL.
func (s *AIExtractService) SetDeepSeekBaseURL(base string) {
	s.client.SetDeepSeekBaseURL(base)
}

type extractedTransaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
}

type extractResponse struct {
	Transactions []extractedTransaction `json:"transactions"`
}

// ExtractTransactions sends the document to the model and validates the
// extracted records. A non-financial document yields an empty slice, not
// an error; a response that breaks the schema is a hard error.
func (s *AIExtractService) ExtractTransactions(ctx context.Context, document []byte, mimeType string) ([]domain.Transaction, error) {
	if len(document) == 0 {
		return nil, fmt.Errorf("document is required")
	}

	mime := strings.TrimSpace(mimeType)
	if mime == "" {
		mime = "application/octet-stream"
	}
	dataURI := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(document))

	logAIExchange("EXTRACT", "prompt", fmt.Sprintf("document mime=%s bytes=%d", mime, len(document)))
	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: extractSystemPrompt,
		UserPrompt:   "Extract the transactions from the attached document.",
		ImageDataURI: dataURI,
		MaxTokens:    defaultExtractMaxTokens,
		Temperature:  defaultExtractTemperature,
		ForceJSON:    true,
	})
	if err != nil {
		return nil, err
	}
	logAIExchange("EXTRACT", "response", result.Content)

	var parsed extractResponse
	if err := json.Unmarshal([]byte(stripCodeFence(result.Content)), &parsed); err != nil {
		return nil, fmt.Errorf("transaction extraction: invalid model response: %w", err)
	}

	transactions := make([]domain.Transaction, 0, len(parsed.Transactions))
	for i, entry := range parsed.Transactions {
		date, err := normalizeExtractDate(entry.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction extraction: entry %d: %w", i, err)
		}
		if !domain.ValidTransactionType(domain.TransactionType(entry.Type)) {
			return nil, fmt.Errorf("transaction extraction: entry %d: unknown type %q", i, entry.Type)
		}
		if entry.Amount <= 0 {
			return nil, fmt.Errorf("transaction extraction: entry %d: amount must be positive", i)
		}
		description := strings.TrimSpace(entry.Description)
		if description == "" {
			return nil, fmt.Errorf("transaction extraction: entry %d: missing description", i)
		}
		category := strings.TrimSpace(entry.Category)
		if category == "" {
			category = "other"
		}
		transactions = append(transactions, domain.Transaction{
			ID:          uuid.NewString(),
			Type:        domain.TransactionType(entry.Type),
			Amount:      entry.Amount,
			Description: description,
			Category:    category,
			Date:        date,
		})
	}
	return transactions, nil
}

func normalizeExtractDate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("missing date")
	}
	for _, layout := range extractDateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format(domain.DateKeyFormat), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", raw)
}
