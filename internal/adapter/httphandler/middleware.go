package httphandler

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"slices"

	"github.com/niksmo/storefront/internal/core/domain"
)

const (
	MediaTypeJSON      = "application/json"
	MediaTypeMultipart = "multipart/form-data"
)

// AllowMediaTypes rejects requests with a body of any other media type.
func AllowMediaTypes(mediaTypes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hf := func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || !slices.Contains(mediaTypes, mt) {
				http.Error(
					w, "invalid media type", http.StatusUnsupportedMediaType,
				)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hf)
	}
}

type SessionLoader interface {
	Load(w http.ResponseWriter, r *http.Request) (*domain.Session, error)
}

type sessionKey struct{}

// WithSession attaches the visitor's session to the request context.
func WithSession(loader SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hf := func(w http.ResponseWriter, r *http.Request) {
			const op = "WithSession"

			s, err := loader.Load(w, r)
			if err != nil {
				writeError(w, slog.With("op", op), err)
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey{}, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hf)
	}
}

// sessionFrom returns the request's session. Outside of WithSession it
// returns a fresh throwaway session.
func sessionFrom(ctx context.Context) *domain.Session {
	if s, ok := ctx.Value(sessionKey{}).(*domain.Session); ok {
		return s
	}
	return domain.NewSession()
}

// RequireAdmin lets through only sessions signed in as an administrator.
func RequireAdmin(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		const op = "RequireAdmin"
		log := slog.With("op", op, "path", r.URL.Path)

		id := sessionFrom(r.Context()).Identity()
		switch {
		case !id.LoggedIn:
			writeError(w, log, domain.ErrNotAuthenticated)
		case !id.IsAdmin:
			writeError(w, log, domain.ErrForbidden)
		default:
			next.ServeHTTP(w, r)
		}
	}
	return http.HandlerFunc(hf)
}
