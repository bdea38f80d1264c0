package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var form order.Form
	if !decodeJSON(w, r, &form) {
		return
	}

	resp, err := h.checkout.PlaceOrder(r.Context(), form)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart),
			errors.Is(err, checkout.ErrCheckoutInProgress):
			writeError(w, r, http.StatusConflict, err.Error())
		case errors.Is(err, order.ErrMissingContact),
			errors.Is(err, order.ErrInvalidDeliveryType),
			errors.Is(err, order.ErrInvalidPaymentMethod):
			writeError(w, r, http.StatusBadRequest, err.Error())
		default:
			h.logger.Warn("checkout failed", zap.Error(err))
			writeError(w, r, http.StatusBadGateway, "order could not be placed, cart kept")
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}
