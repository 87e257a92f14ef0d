package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/pr-poehali-dev/product-catalog-table/pkg/errors"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/httputil"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/middleware"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/checkout"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const sessionKey contextKey = "session"

// SessionFromHeader resolves the X-Session-ID header to a checkout session
// and stores it in the request context. Unknown ids open a new session
// under that id, so a shopper whose session expired starts with an empty cart.
func SessionFromHeader(sessions *session.Registry, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(middleware.SessionHeader)
			if id == "" {
				httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "SESSION_REQUIRED", Message: "X-Session-ID header is required"},
				})
				return
			}
			if _, err := uuid.Parse(id); err != nil {
				httputil.WriteError(w, r, apperrors.InvalidInput("X-Session-ID must be a UUID"), logger)
				return
			}

			s, err := sessions.GetOrCreate(id)
			if err != nil {
				httputil.WriteError(w, r, err, logger)
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionFromContext returns the session stored by SessionFromHeader.
func sessionFromContext(ctx context.Context) *checkout.Session {
	s, _ := ctx.Value(sessionKey).(*checkout.Session)
	return s
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Content-Type must be application/json"},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
