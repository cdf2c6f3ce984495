package session

import (
	"context"
	"strings"

	"storefront/internal/logger"

	"go.uber.org/zap"
)

// ClientFinder lists backend client records matching an email.
type ClientFinder interface {
	FindClientsByEmail(ctx context.Context, email string) ([]Client, error)
}

// LookupByEmail is the storefront "login": it recognises whichever client
// record carries the email. It is identification, not authentication.
func (h *Holder) LookupByEmail(ctx context.Context, finder ClientFinder, email string) (Client, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Client{}, ErrEmailRequired
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "session"),
		zap.String("method", "LookupByEmail"),
	)

	clients, err := finder.FindClientsByEmail(ctx, email)
	if err != nil {
		log.Error("client lookup failed", zap.Error(err))
		return Client{}, err
	}

	for _, c := range clients {
		if strings.EqualFold(c.Email, email) {
			if err := h.SetFromClient(ctx, c); err != nil {
				return Client{}, err
			}
			return c, nil
		}
	}

	log.Warn("no client matched email")
	return Client{}, ErrClientNotFound
}
