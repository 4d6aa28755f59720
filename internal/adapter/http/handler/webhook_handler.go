package handler

import (
	"net/http"
	"strings"

	"github.com/iho/bachatbox/internal/adapter/http/dto"
	"github.com/iho/bachatbox/internal/adapter/http/middleware"
)

// WebhookHandler accepts messages forwarded by SMS gateways.
type WebhookHandler struct {
	service     TransactionService
	defaultUser string
}

// NewWebhookHandler creates a new WebhookHandler. Messages without a userId
// are stored for defaultUser.
func NewWebhookHandler(service TransactionService, defaultUser string) *WebhookHandler {
	return &WebhookHandler{
		service:     service,
		defaultUser: defaultUser,
	}
}

// Receive handles PUT /api/v1/sms and POST /api/v1/webhooks/sms.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var req dto.IngestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.service.Ingest(r.Context(), req.ToUseCaseInput(h.resolveUser(r, req.UserID)))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.IngestResponse{
		Success:           true,
		Transaction:       dto.TransactionFromDomain(result.Transaction),
		Message:           "Transaction processed via webhook successfully",
		TotalTransactions: result.Total,
	})
}

// resolveUser prefers the body userId, then an authenticated caller, then the default.
func (h *WebhookHandler) resolveUser(r *http.Request, bodyUser string) string {
	if u := strings.TrimSpace(bodyUser); u != "" {
		return u
	}
	if u := middleware.UserIDFromContext(r.Context()); u != "" {
		return u
	}
	return h.defaultUser
}
