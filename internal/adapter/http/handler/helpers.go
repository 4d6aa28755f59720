package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/bachatbox/internal/adapter/http/dto"
	"github.com/iho/bachatbox/internal/domain"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Success: false,
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with its mapped status. Unexpected errors are
// reported without details.
func writeDomainError(w http.ResponseWriter, err error) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, "internal server error", "")
		return
	}

	writeError(w, status, errorMessage(err), err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoAmountFound),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrEmptyInput),
		errors.Is(err, domain.ErrReceiptUnreadable):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingIdentity),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrReceiptUnsupported):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is the user-facing summary for a mapped error.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoAmountFound),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDirection):
		return "could not process transaction data"
	case errors.Is(err, domain.ErrEmptyInput):
		return domain.ErrEmptyInput.Error()
	case errors.Is(err, domain.ErrReceiptUnreadable):
		return domain.ErrReceiptUnreadable.Error()
	case errors.Is(err, domain.ErrReceiptUnsupported):
		return domain.ErrReceiptUnsupported.Error()
	case errors.Is(err, domain.ErrTransactionNotFound):
		return domain.ErrTransactionNotFound.Error()
	case mapDomainError(err) == http.StatusUnauthorized:
		return "unauthorized"
	default:
		return "internal server error"
	}
}

// decodeJSON decodes a bounded request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
