package httpapi

import (
	"net/http"

	"storefront/internal/session"
)

type LoginRequestDTO struct {
	Email string `json:"email"`
}

type SessionView struct {
	Identity        *session.Identity `json:"identity"`
	IsAuthenticated bool              `json:"is_authenticated"`
}

func (h *Handler) sessionView() SessionView {
	view := SessionView{IsAuthenticated: h.session.IsAuthenticated()}
	if identity, ok := h.session.Identity(); ok {
		view.Identity = &identity
	}
	return view
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sessionView())
}

// Login recognises a customer by email. No credential is involved.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.session.LookupByEmail(r.Context(), h.clients, req.Email); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.sessionView())
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.session.Logout(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.sessionView())
}
