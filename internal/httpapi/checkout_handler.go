package httpapi

import (
	"encoding/json"
	"net/http"

	"storefront/internal/cart"
	"storefront/internal/checkout"
)

// CheckoutView is what the UI renders for the current wizard step.
type CheckoutView struct {
	Step                 checkout.Step          `json:"step"`
	Draft                checkout.Draft         `json:"draft"`
	Forms                checkout.Forms         `json:"forms"`
	IdentificationLocked bool                   `json:"identification_locked"`
	LastError            string                 `json:"last_error,omitempty"`
	Result               *checkout.CommitResult `json:"result,omitempty"`
	Cart                 cart.Summary           `json:"cart"`
}

func (h *Handler) checkoutView() CheckoutView {
	view := CheckoutView{
		Step:                 h.wizard.Step(),
		Draft:                h.wizard.Draft(),
		Forms:                h.wizard.Forms(),
		IdentificationLocked: h.wizard.IdentificationLocked(),
		Result:               h.wizard.Result(),
		Cart:                 h.cart.Summary(),
	}
	if err := h.wizard.LastError(); err != nil {
		view.LastError = err.Error()
	}
	return view
}

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.wizard.Enter(); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.checkoutView())
}

// Advance submits the payload of the step currently shown.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.wizard.Enter(); err != nil {
		handleError(w, r, err)
		return
	}

	var input any
	switch h.wizard.Step() {
	case checkout.StepIdentification:
		input = &checkout.IdentificationInput{}
	case checkout.StepShipping:
		input = &checkout.ShippingInput{}
	case checkout.StepPayment:
		input = &checkout.PaymentInput{}
	default:
		handleError(w, r, checkout.ErrWrongStep)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
		return
	}

	var err error
	switch in := input.(type) {
	case *checkout.IdentificationInput:
		err = h.wizard.Advance(r.Context(), *in)
	case *checkout.ShippingInput:
		err = h.wizard.Advance(r.Context(), *in)
	case *checkout.PaymentInput:
		err = h.wizard.Advance(r.Context(), *in)
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.checkoutView())
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.wizard.Enter(); err != nil {
		handleError(w, r, err)
		return
	}
	if err := h.wizard.Back(); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.checkoutView())
}

// Confirm runs the order pipeline. A failure leaves the wizard on the
// confirmation step so the client can simply call Confirm again.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.wizard.Enter(); err != nil {
		handleError(w, r, err)
		return
	}
	if _, err := h.wizard.Confirm(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, h.checkoutView())
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.wizard.Reset(); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.checkoutView())
}
