package httphandler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// Services are the inbound ports behind the HTTP API.
type Services struct {
	Catalog  port.Catalog
	Accounts port.Accounts
	Shopping port.Shopping
}

// Register mounts every route on mux.
func Register(mux *http.ServeMux, s Services, db Pinger) {
	RegisterProducts(mux, s.Catalog)
	RegisterAccounts(mux, s.Accounts)
	RegisterSession(mux, s.Shopping)
	RegisterCart(mux, s.Shopping)
	RegisterHealth(mux, db)
}

// NewHandler returns mux behind the session and media type middlewares.
func NewHandler(mux *http.ServeMux, sessions SessionLoader) http.Handler {
	var h http.Handler = mux
	h = WithSession(sessions)(h)
	h = AllowMediaTypes(MediaTypeJSON, MediaTypeMultipart)(h)
	return h
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func RegisterHealth(mux *http.ServeMux, db Pinger) {
	h := HealthHandler{db}
	mux.HandleFunc("GET /healthz", h.GetHealth)
}

func (h HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	const op = "HealthHandler.GetHealth"

	if err := h.db.PingContext(r.Context()); err != nil {
		slog.With("op", op).Error("database is unavailable", "err", err)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", MediaTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON data", domain.ErrValidation)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id", domain.ErrValidation)
	}
	return id, nil
}
