package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/port"
)

type SessionHandler struct {
	shopping port.Shopping
}

func RegisterSession(mux *http.ServeMux, shopping port.Shopping) {
	h := SessionHandler{shopping}
	mux.HandleFunc("POST /v1/session/login", h.PostLogin)
	mux.HandleFunc("POST /v1/session/logout", h.PostLogout)
	mux.HandleFunc("GET /v1/session", h.GetSession)
}

func (h SessionHandler) PostLogin(w http.ResponseWriter, r *http.Request) {
	const op = "SessionHandler.PostLogin"
	log := slog.With("op", op)

	var c Credentials
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, log, err)
		return
	}

	s := sessionFrom(r.Context())
	err := h.shopping.Login(r.Context(), s, c.Username, c.Password)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toIdentity(s.Identity()))
}

func (h SessionHandler) PostLogout(w http.ResponseWriter, r *http.Request) {
	h.shopping.Logout(sessionFrom(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (h SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	const op = "SessionHandler.GetSession"
	id := sessionFrom(r.Context()).Identity()
	writeJSON(w, slog.With("op", op), http.StatusOK, toIdentity(id))
}
