package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haguru/connectpro/internal/auth"
	"github.com/haguru/connectpro/internal/datastore/memory"
	zerologger "github.com/haguru/connectpro/pkg/zerolog"
)

func newTestDeps(t *testing.T) (*auth.TokenService, *memory.Store) {
	t.Helper()

	tokens, err := auth.NewTokenService("middleware-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	store := memory.NewStore()
	if err := store.Seed(); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	return tokens, store
}

func TestRequireAuth(t *testing.T) {
	tokens, store := newTestDeps(t)

	validToken, err := tokens.Issue("1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	vanishedToken, err := tokens.Issue("999")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name           string
		authHeader     string
		wantStatusCode int
		wantMessage    string
	}{
		{
			name:           "missing header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    MsgNoToken,
		},
		{
			name:           "non-bearer header",
			authHeader:     "Basic am9objpwYXNzd29yZDEyMw==",
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    MsgNoToken,
		},
		{
			name:           "garbage token",
			authHeader:     "Bearer not-a-token",
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    MsgInvalidToken,
		},
		{
			name:           "token for a vanished user",
			authHeader:     "Bearer " + vanishedToken,
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    MsgUserNotFound,
		},
		{
			name:           "valid token passes through",
			authHeader:     "Bearer " + validToken,
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				user, ok := UserFromContext(r.Context())
				if !ok {
					t.Error("no user attached to the request context")
					return
				}
				gotUserID = user.ID
				w.WriteHeader(http.StatusOK)
			})

			handler := RequireAuth(tokens, store, zerologger.NewZerologLogger("test"))(next)

			req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatusCode {
				t.Errorf("got status %d, want %d", rr.Code, tt.wantStatusCode)
			}

			if tt.wantMessage != "" {
				var body map[string]string
				if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
					t.Fatalf("failed to decode response body: %v", err)
				}
				if body["message"] != tt.wantMessage {
					t.Errorf("message = %q, want %q", body["message"], tt.wantMessage)
				}
			}

			if tt.wantStatusCode == http.StatusOK && gotUserID != "1" {
				t.Errorf("resolved user = %q, want %q", gotUserID, "1")
			}
		})
	}
}
