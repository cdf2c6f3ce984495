package httpapi

import (
	"net/http"

	"storefront/internal/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	AllowedOrigin string
	RateLimiter   *RateLimiter
}

func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	if opts.AllowedOrigin != "" {
		r.Use(CORS(opts.AllowedOrigin))
	}
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	})
	r.Get("/metrics", h.GetMetrics)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Post("/items", h.AddItem)
		r.Patch("/items/{id}", h.UpdateQuantity)
		r.Delete("/items/{id}", h.RemoveItem)
	})

	r.Route("/session", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	r.Route("/checkout", func(r chi.Router) {
		r.Get("/", h.GetCheckout)
		r.Post("/advance", h.Advance)
		r.Post("/back", h.Back)
		r.Post("/confirm", h.Confirm)
		r.Post("/reset", h.Reset)
	})

	return r
}
