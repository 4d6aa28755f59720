package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/iho/bachatbox/internal/domain"
	"github.com/iho/bachatbox/internal/infrastructure/auth"
)

// maxWebhookBody bounds how much of a webhook body is buffered to find its caller.
const maxWebhookBody = 1 << 20

// WebhookCaller resolves the user a webhook message belongs to and stores it in
// the request context, so later middleware such as idempotency is scoped to it.
// The body userId wins, then a bearer token (or X-User-ID without a JWT manager),
// then defaultUser. The body is restored for the handler.
func WebhookCaller(jwtManager *auth.JWTManager, defaultUser string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
			if err != nil {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			userID := bodyUserID(body)

			if userID == "" {
				caller, err := optionalCaller(r, jwtManager)
				if err != nil {
					writeUnauthorized(w, "invalid or expired token")
					return
				}
				userID = caller
			}

			if userID == "" {
				userID = defaultUser
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &domain.User{ID: userID})))
		})
	}
}

// bodyUserID returns the userId field of a JSON body, or "" when absent or unparsable.
func bodyUserID(body []byte) string {
	var payload struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.UserID)
}

// optionalCaller reads the caller without requiring one. A bearer token that is
// present but invalid is an error.
func optionalCaller(r *http.Request, jwtManager *auth.JWTManager) (string, error) {
	if jwtManager == nil {
		return strings.TrimSpace(r.Header.Get(UserIDHeader)), nil
	}

	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return "", nil
	}

	claims, err := jwtManager.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
