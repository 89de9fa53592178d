package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/port"
)

type AccountsHandler struct {
	accounts port.Accounts
}

func RegisterAccounts(mux *http.ServeMux, accounts port.Accounts) {
	h := AccountsHandler{accounts}
	mux.HandleFunc("POST /v1/users", h.PostUser)
}

func (h AccountsHandler) PostUser(w http.ResponseWriter, r *http.Request) {
	const op = "AccountsHandler.PostUser"
	log := slog.With("op", op)

	var c Credentials
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, log, err)
		return
	}

	id, err := h.accounts.Register(r.Context(), c.Username, c.Password)
	if err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("user registered", "id", id)
	writeJSON(w, log, http.StatusCreated, Created{id})
}
