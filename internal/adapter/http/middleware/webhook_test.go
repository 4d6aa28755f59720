package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bachatbox/internal/domain"
	"github.com/iho/bachatbox/internal/infrastructure/auth"
)

func TestWebhookCaller_Resolution(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		header   string
		expected string
	}{
		{"body user wins", `{"userId":"alice","message":"x"}`, "bob", "alice"},
		{"header caller", `{"message":"x"}`, "bob", "bob"},
		{"default user", `{"message":"x"}`, "", "default"},
		{"invalid json falls back", `not json`, "", "default"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var userID, body string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				userID = UserIDFromContext(r.Context())
				raw, _ := io.ReadAll(r.Body)
				body = string(raw)
			})

			req := httptest.NewRequest(http.MethodPut, "/api/v1/sms", strings.NewReader(tt.body))
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			WebhookCaller(nil, "default")(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.expected, userID)
			assert.Equal(t, tt.body, body, "body must be restored for the handler")
		})
	}
}

func TestWebhookCaller_BearerToken(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	token, err := jwtManager.Generate(&domain.User{ID: "carol"})
	require.NoError(t, err)

	var userID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID = UserIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sms", strings.NewReader(`{"message":"x"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(UserIDHeader, "mallory")
	rec := httptest.NewRecorder()
	WebhookCaller(jwtManager, "default")(next).ServeHTTP(rec, req)

	assert.Equal(t, "carol", userID)

	req = httptest.NewRequest(http.MethodPut, "/api/v1/sms", strings.NewReader(`{"message":"x"}`))
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	WebhookCaller(jwtManager, "default")(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
