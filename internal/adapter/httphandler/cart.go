package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/port"
)

type CartHandler struct {
	shopping port.Shopping
}

func RegisterCart(mux *http.ServeMux, shopping port.Shopping) {
	h := CartHandler{shopping}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart/items", h.PostItem)
	mux.HandleFunc("POST /v1/cart/checkout", h.PostCheckout)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	v := h.shopping.ViewCart(sessionFrom(r.Context()))
	writeJSON(w, slog.With("op", op), http.StatusOK, toCart(v))
}

func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	log := slog.With("op", op)

	var req AddCartItem
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	s := sessionFrom(r.Context())
	if err := h.shopping.AddToCart(r.Context(), s, req.ProductID); err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toCart(h.shopping.ViewCart(s)))
}

func (h CartHandler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostCheckout"
	log := slog.With("op", op)

	receipt, err := h.shopping.Checkout(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("checkout completed",
		"username", receipt.Username, "nItems", len(receipt.Items))
	writeJSON(w, log, http.StatusOK, toReceipt(receipt))
}
