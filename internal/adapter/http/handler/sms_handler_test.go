package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/bachatbox/internal/adapter/http/dto"
	"github.com/iho/bachatbox/internal/adapter/http/middleware"
	"github.com/iho/bachatbox/internal/domain"
	"github.com/iho/bachatbox/internal/usecase"
)

type transactionServiceStub struct {
	ingestFn  func(ctx context.Context, input usecase.IngestInput) (*usecase.IngestResult, error)
	listFn    func(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error)
	getFn     func(ctx context.Context, userID, id string) (*domain.Transaction, error)
	deleteFn  func(ctx context.Context, userID, id string) error
	summaryFn func(ctx context.Context, userID string) (*domain.Summary, error)
}

func (s *transactionServiceStub) Ingest(ctx context.Context, input usecase.IngestInput) (*usecase.IngestResult, error) {
	return s.ingestFn(ctx, input)
}

func (s *transactionServiceStub) List(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error) {
	return s.listFn(ctx, userID, limit)
}

func (s *transactionServiceStub) Get(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	return s.getFn(ctx, userID, id)
}

func (s *transactionServiceStub) Delete(ctx context.Context, userID, id string) error {
	return s.deleteFn(ctx, userID, id)
}

func (s *transactionServiceStub) Summary(ctx context.Context, userID string) (*domain.Summary, error) {
	return s.summaryFn(ctx, userID)
}

func sampleTransaction() *domain.Transaction {
	return &domain.Transaction{
		ID:          "sms_01J0000000000000000000000",
		Amount:      decimal.RequireFromString("1500.00"),
		Direction:   domain.DirectionExpense,
		Description: "ARUTCHUDAR S (SBI)",
		Category:    domain.CategoryPayment,
		Source:      domain.SourceSMS,
		Institution: "SBI",
		Timestamp:   time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func withCaller(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), &domain.User{ID: userID}))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestSMSHandler_Create_Message(t *testing.T) {
	var captured usecase.IngestInput
	handler := NewSMSHandler(&transactionServiceStub{
		ingestFn: func(ctx context.Context, input usecase.IngestInput) (*usecase.IngestResult, error) {
			captured = input
			return &usecase.IngestResult{Transaction: sampleTransaction(), Total: 3}, nil
		},
	})

	body := []byte(`{"message":"Dear UPI user A/C X5196 debited by 1500.00 on date 15Jan25 trf to ARUTCHUDAR S Refno 123 -SBI"}`)
	req := withCaller(httptest.NewRequest(http.MethodPost, "/api/v1/sms", bytes.NewReader(body)), "user-1")
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	if captured.UserID != "user-1" || captured.Hint != nil || captured.Source != domain.SourceSMS {
		t.Fatalf("unexpected input: %+v", captured)
	}

	var resp dto.IngestResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !resp.Success || resp.TotalTransactions != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Transaction.Type != "expense" || resp.Transaction.BankName != "SBI" {
		t.Fatalf("unexpected transaction: %+v", resp.Transaction)
	}
	if !resp.Transaction.Amount.Equal(decimal.RequireFromString("1500")) {
		t.Fatalf("unexpected amount %s", resp.Transaction.Amount)
	}
}

func TestSMSHandler_Create_ParsedHint(t *testing.T) {
	var captured usecase.IngestInput
	handler := NewSMSHandler(&transactionServiceStub{
		ingestFn: func(ctx context.Context, input usecase.IngestInput) (*usecase.IngestResult, error) {
			captured = input
			return &usecase.IngestResult{Transaction: sampleTransaction(), Total: 1}, nil
		},
	})

	body := []byte(`{"parsed":{"amount":250.5,"type":"income","description":"Refund"}}`)
	req := withCaller(httptest.NewRequest(http.MethodPost, "/api/v1/sms", bytes.NewReader(body)), "user-1")
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	if captured.Hint == nil {
		t.Fatal("expected hint to be forwarded")
	}
	if captured.Hint.Direction != domain.DirectionIncome || !captured.Hint.Amount.Equal(decimal.RequireFromString("250.5")) {
		t.Fatalf("unexpected hint: %+v", captured.Hint)
	}
}

func TestSMSHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewSMSHandler(&transactionServiceStub{})

	req := withCaller(httptest.NewRequest(http.MethodPost, "/api/v1/sms", bytes.NewReader([]byte("{"))), "user-1")
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestSMSHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
		message  string
	}{
		{"no amount", domain.ErrNoAmountFound, http.StatusBadRequest, "could not process transaction data"},
		{"empty input", domain.ErrEmptyInput, http.StatusBadRequest, domain.ErrEmptyInput.Error()},
		{"missing identity", domain.ErrMissingIdentity, http.StatusUnauthorized, "unauthorized"},
		{"store failure", errors.New("redis down"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			handler := NewSMSHandler(&transactionServiceStub{
				ingestFn: func(ctx context.Context, input usecase.IngestInput) (*usecase.IngestResult, error) {
					return nil, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/sms", bytes.NewReader([]byte(`{"message":"hello"}`)))
			rr := httptest.NewRecorder()

			handler.Create(rr, req)

			if rr.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rr.Code)
			}

			var resp dto.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Success || resp.Error != tt.message {
				t.Fatalf("unexpected error response: %+v", resp)
			}
		})
	}
}

func TestSMSHandler_List(t *testing.T) {
	var gotLimit int
	handler := NewSMSHandler(&transactionServiceStub{
		listFn: func(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error) {
			gotLimit = limit
			if userID != "user-1" {
				t.Fatalf("unexpected user %q", userID)
			}
			return []*domain.Transaction{sampleTransaction()}, nil
		},
	})

	req := withCaller(httptest.NewRequest(http.MethodGet, "/api/v1/sms?limit=5", nil), "user-1")
	rr := httptest.NewRecorder()

	handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotLimit != 5 {
		t.Fatalf("expected limit 5, got %d", gotLimit)
	}

	var resp dto.ListTransactionsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 || len(resp.Transactions) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSMSHandler_List_InvalidLimitFallsBack(t *testing.T) {
	gotLimit := -1
	handler := NewSMSHandler(&transactionServiceStub{
		listFn: func(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error) {
			gotLimit = limit
			return nil, nil
		},
	})

	req := withCaller(httptest.NewRequest(http.MethodGet, "/api/v1/sms?limit=abc", nil), "user-1")
	handler.List(httptest.NewRecorder(), req)

	if gotLimit != 0 {
		t.Fatalf("expected unset limit to be passed as 0, got %d", gotLimit)
	}
}

func TestSMSHandler_Get(t *testing.T) {
	handler := NewSMSHandler(&transactionServiceStub{
		getFn: func(ctx context.Context, userID, id string) (*domain.Transaction, error) {
			if id == "missing" {
				return nil, domain.ErrTransactionNotFound
			}
			tx := sampleTransaction()
			tx.ID = id
			return tx, nil
		},
	})

	req := withURLParam(withCaller(httptest.NewRequest(http.MethodGet, "/api/v1/sms/sms_1", nil), "user-1"), "id", "sms_1")
	rr := httptest.NewRecorder()
	handler.Get(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp dto.TransactionResponseEnvelope
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Transaction.ID != "sms_1" {
		t.Fatalf("unexpected id %q", resp.Transaction.ID)
	}

	req = withURLParam(withCaller(httptest.NewRequest(http.MethodGet, "/api/v1/sms/missing", nil), "user-1"), "id", "missing")
	rr = httptest.NewRecorder()
	handler.Get(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestSMSHandler_Delete(t *testing.T) {
	var deleted string
	handler := NewSMSHandler(&transactionServiceStub{
		deleteFn: func(ctx context.Context, userID, id string) error {
			deleted = id
			return nil
		},
	})

	req := withURLParam(withCaller(httptest.NewRequest(http.MethodDelete, "/api/v1/sms/sms_9", nil), "user-1"), "id", "sms_9")
	rr := httptest.NewRecorder()
	handler.Delete(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if deleted != "sms_9" {
		t.Fatalf("expected sms_9 to be deleted, got %q", deleted)
	}
}

func TestSMSHandler_Summary(t *testing.T) {
	handler := NewSMSHandler(&transactionServiceStub{
		summaryFn: func(ctx context.Context, userID string) (*domain.Summary, error) {
			s := domain.Summarize([]*domain.Transaction{sampleTransaction()})
			return &s, nil
		},
	})

	req := withCaller(httptest.NewRequest(http.MethodGet, "/api/v1/sms/summary", nil), "user-1")
	rr := httptest.NewRecorder()
	handler.Summary(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp dto.SummaryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 || !resp.TotalExpense.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("unexpected summary: %+v", resp)
	}
}
