package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenValidator defines the interface for validating bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims represents the claims we expect from the token validator.
type Claims struct {
	UserID string
	VID    string
	Staff  bool
}

// Context keys for storing authenticated user information.
type contextKeyUserID struct{}
type contextKeyVID struct{}
type contextKeyStaff struct{}

var (
	ContextKeyUserID = contextKeyUserID{}
	ContextKeyVID    = contextKeyVID{}
	ContextKeyStaff  = contextKeyStaff{}
)

// GetUserID retrieves the authenticated user ID from the context.
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(ContextKeyUserID).(string)
	if !ok {
		return ""
	}
	return userID
}

// GetVID retrieves the member's directory identity token from the context.
// Empty means the member has no linked directory account.
func GetVID(ctx context.Context) string {
	vid, ok := ctx.Value(ContextKeyVID).(string)
	if !ok {
		return ""
	}
	return vid
}

// IsStaff reports whether the authenticated caller carries the staff role.
func IsStaff(ctx context.Context) bool {
	staff, ok := ctx.Value(ContextKeyStaff).(bool)
	return ok && staff
}

// RequireAuth validates the bearer token and populates identity context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok {
				unauthorized(w, r, logger, "missing token")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"request_id", GetRequestID(r.Context()),
					"error", err,
				)
				unauthorized(w, r, logger, "invalid token")
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextKeyVID, claims.VID)
			ctx = context.WithValue(ctx, ContextKeyStaff, claims.Staff)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff gates staff-only routes. Must run after RequireAuth.
func RequireStaff(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsStaff(r.Context()) {
				logger.WarnContext(r.Context(), "forbidden - staff role required",
					"request_id", GetRequestID(r.Context()),
					"user_id", GetUserID(r.Context()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","message":"staff role required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if _, err := w.Write([]byte(`{"error":"unauthorized","message":"` + reason + `"}`)); err != nil {
		logger.ErrorContext(r.Context(), "failed to write unauthorized response",
			"request_id", GetRequestID(r.Context()),
			"error", err,
		)
	}
}
