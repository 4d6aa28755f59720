package receipt

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/iho/bachatbox/internal/domain"
)

type fakeModels struct {
	reply    string
	err      error
	model    string
	contents []*genai.Content
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	if f.err != nil {
		return nil, f.err
	}

	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: f.reply}}}},
		},
	}, nil
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", `{"amount": 1}`, `{"amount": 1}`},
		{"json fence", "```json\n{\"amount\": 1}\n```", `{"amount": 1}`},
		{"bare fence", "```\n{\"amount\": 1}\n```", `{"amount": 1}`},
		{"surrounding prose", "Here you go: {\"amount\": 1} hope it helps", `{"amount": 1}`},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanModelJSON(tt.raw))
		})
	}
}

func TestParseReceipt(t *testing.T) {
	hint, err := parseReceipt("```json\n{\"amount\": 249.50, \"type\": \"Expense\", \"description\": \" Cafe Coffee Day \", \"category\": \"food\", \"confidence\": 0.8}\n```")
	require.NoError(t, err)

	assert.True(t, hint.Amount.Equal(decimal.RequireFromString("249.5")))
	assert.Equal(t, domain.DirectionExpense, hint.Direction)
	assert.Equal(t, "Cafe Coffee Day", hint.Description)
	assert.Equal(t, domain.CategoryFood, hint.Category)
}

func TestParseReceipt_QuotedAmountAndUnknownCategoryIsOther(t *testing.T) {
	hint, err := parseReceipt(`{"amount": "1200", "type": "income", "description": "Refund", "category": "shopping"}`)
	require.NoError(t, err)

	assert.True(t, hint.Amount.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, domain.DirectionIncome, hint.Direction)
	assert.Equal(t, domain.CategoryOther, hint.Category)
}

func TestParseReceipt_Unreadable(t *testing.T) {
	replies := map[string]string{
		"zero amount":         `{"amount": 0, "type": "expense", "description": "Shop"}`,
		"missing type":        `{"amount": 10, "description": "Shop"}`,
		"unknown type":        `{"amount": 10, "type": "transfer", "description": "Shop"}`,
		"missing description": `{"amount": 10, "type": "expense"}`,
		"not json":            "I could not read this receipt",
		"empty":               "",
	}

	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			_, err := parseReceipt(reply)
			assert.ErrorIs(t, err, domain.ErrReceiptUnreadable)
		})
	}
}

func TestGeminiExtractor_Extract(t *testing.T) {
	models := &fakeModels{reply: `{"amount": 560, "type": "expense", "description": "Apollo Pharmacy", "category": "healthcare"}`}
	extractor := newGeminiExtractor(models, "")

	hint, err := extractor.Extract(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, models.model)
	require.Len(t, models.contents, 1)
	require.Len(t, models.contents[0].Parts, 2)
	assert.Equal(t, "image/jpeg", models.contents[0].Parts[1].InlineData.MIMEType)
	assert.Equal(t, domain.CategoryHealthcare, hint.Category)
	assert.Equal(t, "Apollo Pharmacy", hint.Description)
}

func TestGeminiExtractor_RejectsNonImage(t *testing.T) {
	models := &fakeModels{}
	extractor := newGeminiExtractor(models, "custom-model")

	_, err := extractor.Extract(context.Background(), []byte("%PDF"), "application/pdf")
	assert.ErrorIs(t, err, domain.ErrReceiptUnreadable)
	assert.Nil(t, models.contents)
}

func TestGeminiExtractor_ModelError(t *testing.T) {
	modelErr := errors.New("quota exceeded")
	extractor := newGeminiExtractor(&fakeModels{err: modelErr}, "custom-model")

	_, err := extractor.Extract(context.Background(), []byte{1}, "image/png")
	assert.ErrorIs(t, err, modelErr)
	assert.NotErrorIs(t, err, domain.ErrReceiptUnreadable)
}

func TestNewGeminiExtractor_RequiresKey(t *testing.T) {
	_, err := NewGeminiExtractor(context.Background(), "", "")
	assert.Error(t, err)
}
