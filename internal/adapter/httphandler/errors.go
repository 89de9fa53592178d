package httphandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrDuplicateUsername, http.StatusConflict},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrNotAuthenticated, http.StatusUnauthorized},
	{domain.ErrAuthFailure, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
}

// writeError replies with the status of the domain error and a short
// message. Unknown errors are logged and hidden behind 500.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	for _, es := range errorStatuses {
		if errors.Is(err, es.err) {
			log.Warn("request rejected", "err", err)
			http.Error(w, publicMessage(err, es.err), es.status)
			return
		}
	}
	log.Error("internal error", "err", err)
	http.Error(
		w, http.StatusText(http.StatusInternalServerError),
		http.StatusInternalServerError,
	)
}

// publicMessage cuts the op chain off the error text, keeping the sentinel
// and its detail.
func publicMessage(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()); i >= 0 {
		return msg[i:]
	}
	return sentinel.Error()
}
