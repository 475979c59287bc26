package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/haguru/connectpro/internal/auth"
	"github.com/haguru/connectpro/internal/interfaces"
	"github.com/haguru/connectpro/internal/models"
	"github.com/haguru/connectpro/internal/models/dto"
)

const (
	bearerPrefix = "Bearer "

	MsgNoToken      = "No token provided"
	MsgInvalidToken = "Invalid token"
	MsgUserNotFound = "User not found"
	MsgAuthError    = "Authentication error"
)

type contextKey string

const userContextKey contextKey = "authenticated-user"

// UserFromContext returns the user attached by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// RequireAuth guards a handler with bearer-token authentication: it extracts
// the token, verifies it, resolves the referenced user against the active
// backend and attaches the user to the request context. A missing or
// non-bearer Authorization header, a failed verification and a vanished user
// each produce their own 401 message.
func RequireAuth(tokens *auth.TokenService, store interfaces.Store, logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				reject(w, http.StatusUnauthorized, MsgNoToken)
				return
			}

			claims, err := tokens.Verify(strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				reject(w, http.StatusUnauthorized, MsgInvalidToken)
				return
			}

			user, err := store.FindUserByID(r.Context(), claims.UserID)
			if err != nil {
				logger.Error("Failed to resolve token user", "userID", claims.UserID, "error", err)
				reject(w, http.StatusInternalServerError, MsgAuthError)
				return
			}
			if user == nil {
				reject(w, http.StatusUnauthorized, MsgUserNotFound)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func reject(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponseDTO{Message: message})
}
