package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

type addItemRequest struct {
	Product catalog.Product           `json:"product"`
	AddOns  []catalog.AdditionProduct `json:"addOns"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body addItemRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := body.Product.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	for _, a := range body.AddOns {
		if err := a.Validate(); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, h.cart.AddToCart(r.Context(), body.Product, body.AddOns...))
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var body updateQuantityRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Quantity == nil {
		writeError(w, r, http.StatusBadRequest, "missing quantity")
		return
	}
	if *body.Quantity > cart.MaxQuantity {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("quantity must not exceed %d", cart.MaxQuantity))
		return
	}

	writeJSON(w, http.StatusOK, h.cart.UpdateQuantity(r.Context(), productID, *body.Quantity))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.cart.RemoveFromCart(r.Context(), productID))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cart.ClearCart(r.Context()))
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid productId")
		return 0, false
	}
	return id, true
}
