// Package httpapi serves the storefront JSON API: catalog browsing, the cart
// and checkout.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

const maxBodyBytes = 1 << 20

type CatalogSource interface {
	ListProductTypes(ctx context.Context) ([]catalog.ProductType, error)
	ListProductsByType(ctx context.Context, typeID int64) ([]catalog.Product, error)
	ListProducts(ctx context.Context) ([]catalog.Product, error)
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, form order.Form) (order.Response, error)
}

type Handler struct {
	cart     *cart.Store
	catalog  CatalogSource
	checkout OrderPlacer
	logger   *zap.Logger

	// HealthProbes run for GET /health/upstreams.
	HealthProbes []func(ctx context.Context) clients.HealthResult
}

func NewHandler(store *cart.Store, catalog CatalogSource, checkout OrderPlacer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{cart: store, catalog: catalog, checkout: checkout, logger: logger}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "storefront",
	})
}

func (h *Handler) Upstreams(w http.ResponseWriter, r *http.Request) {
	results := make([]clients.HealthResult, 0, len(h.HealthProbes))
	status := "ok"
	for _, probe := range h.HealthProbes {
		res := probe(r.Context())
		if !res.OK {
			status = "degraded"
		}
		results = append(results, res)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   status,
		"service":  "storefront",
		"upstream": results,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{
		Error:         msg,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}

// decodeJSON reads at most maxBodyBytes of r.Body into v and answers 400 or
// 413 itself when it fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}
