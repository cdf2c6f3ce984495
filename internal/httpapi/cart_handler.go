package httpapi

import (
	"net/http"
	"strconv"

	"storefront/internal/cart"
	"storefront/internal/logger"
	"storefront/internal/product"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// AddItemResponse reports how many units were actually added after
// clamping to the known stock.
type AddItemResponse struct {
	Added int          `json:"added"`
	Cart  cart.Summary `json:"cart"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cart.Summary())
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive", nil)
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1", nil)
		return
	}

	p, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	ref := product.ToRef(p)

	h.mu.Lock()
	defer h.mu.Unlock()

	added := cart.ClampToStock(ref, h.cart.ItemQuantity(ref.ID), req.Quantity)
	if added == 0 {
		respondError(w, http.StatusConflict, "out_of_stock", "no more units of this product are available", nil)
		return
	}
	if added < req.Quantity {
		logger.FromCtx(r.Context()).Info("add to cart clamped to stock",
			zap.Int64("product_id", ref.ID),
			zap.Int("requested", req.Quantity),
			zap.Int("added", added),
		)
	}

	if err := h.cart.AddItem(r.Context(), ref, added); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, AddItemResponse{Added: added, Cart: h.cart.Summary()})
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	quantity := req.Quantity
	for _, l := range h.cart.Lines() {
		if l.Product.ID == productID {
			quantity = cart.ClampToStock(l.Product, 0, quantity)
			break
		}
	}

	if err := h.cart.UpdateQuantity(r.Context(), productID, quantity); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cart.Summary())
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.cart.RemoveItem(r.Context(), productID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cart.Summary())
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}
