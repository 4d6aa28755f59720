package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/iho/bachatbox/internal/adapter/http/dto"
	"github.com/iho/bachatbox/internal/adapter/http/middleware"
	"github.com/iho/bachatbox/internal/domain"
	"github.com/iho/bachatbox/internal/usecase"
)

// receiptField is the multipart field carrying the image.
const receiptField = "image"

// ReceiptService is the part of the receipt use case the handler needs.
type ReceiptService interface {
	Enabled() bool
	Ingest(ctx context.Context, input usecase.IngestReceiptInput) (*usecase.IngestResult, error)
}

// ReceiptHandler handles receipt image uploads.
type ReceiptHandler struct {
	service ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(service ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{service: service}
}

// Upload handles POST /api/v1/receipts.
func (h *ReceiptHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.service.Enabled() {
		writeDomainError(w, domain.ErrReceiptUnsupported)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, usecase.MaxReceiptSize+(1<<20))
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(receiptField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "no image provided", "")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, usecase.MaxReceiptSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read image", err.Error())
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(image)
	}

	result, err := h.service.Ingest(r.Context(), usecase.IngestReceiptInput{
		UserID:   middleware.UserIDFromContext(r.Context()),
		MIMEType: strings.TrimSpace(mimeType),
		Image:    image,
	})
	if err != nil {
		if mapDomainError(err) == http.StatusInternalServerError && !errors.Is(err, context.Canceled) {
			writeError(w, http.StatusBadGateway, "receipt extraction failed", "")
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.IngestResponse{
		Success:           true,
		Transaction:       dto.TransactionFromDomain(result.Transaction),
		Message:           "Receipt processed successfully",
		TotalTransactions: result.Total,
	})
}
