package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bachatbox/internal/adapter/http/dto"
	"github.com/iho/bachatbox/internal/adapter/http/middleware"
	"github.com/iho/bachatbox/internal/domain"
	"github.com/iho/bachatbox/internal/usecase"
)

// TransactionService is the part of the transaction use case the handlers need.
type TransactionService interface {
	Ingest(ctx context.Context, input usecase.IngestInput) (*usecase.IngestResult, error)
	List(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error)
	Get(ctx context.Context, userID, id string) (*domain.Transaction, error)
	Delete(ctx context.Context, userID, id string) error
	Summary(ctx context.Context, userID string) (*domain.Summary, error)
}

// SMSHandler handles the interactive transaction endpoints.
type SMSHandler struct {
	service TransactionService
}

// NewSMSHandler creates a new SMSHandler.
func NewSMSHandler(service TransactionService) *SMSHandler {
	return &SMSHandler{service: service}
}

// Create handles POST /api/v1/sms.
func (h *SMSHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.IngestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.service.Ingest(r.Context(), req.ToUseCaseInput(middleware.UserIDFromContext(r.Context())))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.IngestResponse{
		Success:           true,
		Transaction:       dto.TransactionFromDomain(result.Transaction),
		Message:           "Transaction added successfully",
		TotalTransactions: result.Total,
	})
}

// List handles GET /api/v1/sms.
func (h *SMSHandler) List(w http.ResponseWriter, r *http.Request) {
	// The use case applies the default and maximum page size.
	limit := parseIntQuery(r, "limit", 0)

	txs, err := h.service.List(r.Context(), middleware.UserIDFromContext(r.Context()), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Success:      true,
		Transactions: dto.TransactionsFromDomain(txs),
		Count:        len(txs),
	})
}

// Get handles GET /api/v1/sms/{id}.
func (h *SMSHandler) Get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.service.Get(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionResponseEnvelope{
		Success:     true,
		Transaction: dto.TransactionFromDomain(tx),
	})
}

// Delete handles DELETE /api/v1/sms/{id}.
func (h *SMSHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DeleteResponse{Success: true, ID: id})
}

// Summary handles GET /api/v1/sms/summary.
func (h *SMSHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromDomain(summary))
}
