package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"storefront/internal/backend"
	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/order"
	"storefront/internal/product"
	"storefront/internal/session"

	"go.uber.org/zap"
)

// ProductSource reads catalog entries.
type ProductSource interface {
	GetProduct(ctx context.Context, id int64) (product.Product, error)
}

// Handler exposes the cart, the session and the checkout wizard. One
// mutex serialises every action, since the wizard runs single threaded.
type Handler struct {
	mu       sync.Mutex
	cart     *cart.Store
	session  *session.Holder
	wizard   *checkout.Wizard
	products ProductSource
	clients  session.ClientFinder
	metrics  *metrics.Checkout
}

type Deps struct {
	Cart     *cart.Store
	Session  *session.Holder
	Wizard   *checkout.Wizard
	Products ProductSource
	Clients  session.ClientFinder
	Metrics  *metrics.Checkout
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		cart:     d.Cart,
		session:  d.Session,
		wizard:   d.Wizard,
		products: d.Products,
		clients:  d.Clients,
		metrics:  d.Metrics,
	}
}

// GetMetrics reports order commit counters.
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if h.metrics == nil {
		respondError(w, http.StatusNotFound, "metrics_disabled", "metrics are not enabled", nil)
		return
	}
	respondJSON(w, http.StatusOK, h.metrics.Snapshot())
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	respondJSON(w, status, ErrorResponse{
		Error:  message,
		Code:   code,
		Fields: fields,
	})
}

// handleError maps domain errors to HTTP answers.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve        *checkout.ValidationError
		commitErr *order.CommitError
		apiErr    *backend.APIError
	)

	switch {
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, "validation_failed", "some fields are invalid", ve.Fields)
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidProduct):
		respondError(w, http.StatusBadRequest, "invalid_cart_item", err.Error(), nil)
	case errors.Is(err, session.ErrEmailRequired):
		respondError(w, http.StatusBadRequest, "email_required", err.Error(), nil)
	case errors.Is(err, checkout.ErrUnknownInput):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
	case errors.Is(err, backend.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error(), nil)
	case errors.Is(err, session.ErrClientNotFound):
		respondError(w, http.StatusNotFound, "client_not_found", err.Error(), nil)
	case errors.Is(err, checkout.ErrCartEmpty):
		respondError(w, http.StatusConflict, "cart_empty", err.Error(), nil)
	case errors.Is(err, checkout.ErrWrongStep),
		errors.Is(err, checkout.ErrNoPreviousStep),
		errors.Is(err, checkout.ErrDraftIncomplete):
		respondError(w, http.StatusConflict, "wrong_step", err.Error(), nil)
	case errors.As(err, &commitErr):
		respondError(w, http.StatusBadGateway, "commit_failed", "the order could not be created, please confirm again",
			map[string]string{"step": string(commitErr.Step)})
	case errors.As(err, &apiErr):
		respondError(w, http.StatusBadGateway, "backend_error", "backend request failed", nil)
	default:
		logger.FromCtx(r.Context()).Error("unhandled error",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
