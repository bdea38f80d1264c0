package httpapi

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

func (h *Handler) ListProductTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalog.ListProductTypes(r.Context())
	if err != nil {
		h.logger.Warn("list product types", zap.Error(err))
		writeError(w, r, http.StatusBadGateway, "catalog unavailable")
		return
	}
	if types == nil {
		types = []catalog.ProductType{}
	}
	writeJSON(w, http.StatusOK, types)
}

// ListProducts returns every product, or those of one type when ?typeId= is set.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []catalog.Product
		err      error
	)

	if raw := r.URL.Query().Get("typeId"); raw != "" {
		typeID, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || typeID <= 0 {
			writeError(w, r, http.StatusBadRequest, "invalid typeId")
			return
		}
		products, err = h.catalog.ListProductsByType(r.Context(), typeID)
	} else {
		products, err = h.catalog.ListProducts(r.Context())
	}

	if err != nil {
		h.logger.Warn("list products", zap.Error(err))
		writeError(w, r, http.StatusBadGateway, "catalog unavailable")
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": products})
}
