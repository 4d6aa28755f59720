// Package receipt reads receipt images into transaction hints with Gemini.
package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"github.com/iho/bachatbox/internal/domain"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

const receiptPrompt = "Analyze this receipt image and extract the following information in JSON format:\n\n" +
	"{\n" +
	"  \"amount\": [numeric value only, no currency symbols],\n" +
	"  \"type\": \"expense\" or \"income\" (receipts are usually expenses unless clearly showing refunds/returns),\n" +
	"  \"description\": \"[merchant/store name or brief description]\",\n" +
	"  \"category\": \"[food, transport, groceries, healthcare, shopping, utilities, etc.]\",\n" +
	"  \"confidence\": [decimal between 0 and 1 indicating extraction confidence]\n" +
	"}\n\n" +
	"Rules:\n" +
	"- If amount is unclear, use 0\n" +
	"- Most receipts are expenses unless it's clearly a refund\n" +
	"- For merchant name, use the business name from the receipt\n" +
	"- Category should be one word, lowercase\n" +
	"- Be conservative with confidence scores\n\n" +
	"Return ONLY valid raw JSON.\n" +
	"Do NOT wrap the response in code fences.\n"

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiExtractor implements usecase.ReceiptExtractor.
type GeminiExtractor struct {
	models contentGenerator
	model  string
}

// NewGeminiExtractor creates a Gemini API client for apiKey.
func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGeminiExtractor(client.Models, model), nil
}

func newGeminiExtractor(models contentGenerator, model string) *GeminiExtractor {
	if model == "" {
		model = DefaultModel
	}

	return &GeminiExtractor{models: models, model: model}
}

// Extract sends the image to the model and parses its reply into a hint.
func (e *GeminiExtractor) Extract(ctx context.Context, image []byte, mimeType string) (*domain.Hint, error) {
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: unsupported content type %q", domain.ErrReceiptUnreadable, mimeType)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: receiptPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     image,
					},
				},
			},
		},
	}

	resp, err := e.models.GenerateContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	return parseReceipt(resp.Text())
}

type receiptReply struct {
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Confidence  float64         `json:"confidence"`
}

// parseReceipt accepts the model's reply only when it names an amount, a
// direction and a description.
func parseReceipt(raw string) (*domain.Hint, error) {
	clean := cleanModelJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("%w: empty model response", domain.ErrReceiptUnreadable)
	}

	var reply receiptReply
	if err := json.Unmarshal([]byte(clean), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrReceiptUnreadable, err)
	}

	direction := domain.ParseDirection(reply.Type)
	description := strings.TrimSpace(reply.Description)

	if !reply.Amount.IsPositive() || !direction.IsValid() || description == "" {
		return nil, fmt.Errorf("%w: incomplete extraction", domain.ErrReceiptUnreadable)
	}

	return &domain.Hint{
		Amount:      reply.Amount,
		Direction:   direction,
		Description: description,
		Category:    domain.ParseCategory(reply.Category),
	}, nil
}

// cleanModelJSON strips Markdown fences and any text around the outermost object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			return s[start : end+1]
		}
	}

	return s
}
