// Package middleware provides the HTTP middleware chain: bearer-token
// authentication, request logging and request metrics.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/apnakhata/apnakhata/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// userIDKey is the context key for the authenticated user ID.
	userIDKey contextKey = "user_id"
	// emailKey is the context key for the authenticated user's email.
	emailKey contextKey = "email"
	// requestIDKey is the context key for the per-request id.
	requestIDKey contextKey = "request_id"
	// authStampKey is the context key for the logging middleware's
	// authStamp.
	authStampKey contextKey = "auth_stamp"
)

// GetUserID extracts the authenticated user ID from the context.
// Returns zero if the request was not authenticated.
func GetUserID(ctx context.Context) int64 {
	userID, _ := ctx.Value(userIDKey).(int64)
	return userID
}

// GetEmail extracts the authenticated user's email from the context.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

// GetRequestID extracts the request id from the context.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequireAuth returns middleware that validates the bearer token and
// requires authentication. It resolves the embedded subject against the
// user store, so a token for a deleted secret or unknown user never
// reaches a handler, and adds the user ID and email to the request
// context.
func RequireAuth(jwtManager *auth.JWTManager, users auth.UserStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := validateBearer(jwtManager, r)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil || user == nil {
				writeAuthError(w, auth.ErrInvalidToken)
				return
			}

			if stamp, ok := r.Context().Value(authStampKey).(*authStamp); ok {
				stamp.userID = user.ID
			}

			ctx := context.WithValue(r.Context(), userIDKey, user.ID)
			ctx = context.WithValue(ctx, emailKey, user.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateBearer(jwtManager *auth.JWTManager, r *http.Request) (*auth.Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, auth.ErrMissingToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, auth.ErrInvalidToken
	}
	return jwtManager.Validate(parts[1])
}

func writeAuthError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
