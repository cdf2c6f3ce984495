package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/logger"
	"storefront/internal/storage"

	"go.uber.org/zap"
)

// Holder keeps the recognised customer across restarts. It lives until an
// explicit Logout.
type Holder struct {
	mu            sync.Mutex
	kv            storage.Store
	key           string
	identity      *Identity
	authenticated bool
}

func NewHolder(ctx context.Context, kv storage.Store, key string) (*Holder, error) {
	h := &Holder{kv: kv, key: key}

	data, err := kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedLoadSession, err)
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedLoadSession, err)
	}
	h.identity = p.Identity
	h.authenticated = p.IsAuthenticated && p.Identity != nil

	return h, nil
}

// Identity returns a copy of the held identity.
func (h *Holder) Identity() (Identity, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.identity == nil {
		return Identity{}, false
	}
	return h.identity.clone(), true
}

func (h *Holder) IsAuthenticated() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.authenticated
}

// SetFromClient marks the customer as recognised. No credential is checked.
func (h *Holder) SetFromClient(ctx context.Context, c Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	identity := identityFromClient(c)
	if err := h.save(ctx, &identity, true); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("client recognised",
		zap.String("layer", "session"),
		zap.Int64("client_id", c.ID),
	)
	return nil
}

// UpdateUser merges u into the held identity, creating one when none is
// held. The authenticated flag is not touched.
func (h *Holder) UpdateUser(ctx context.Context, u Update) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var next Identity
	if h.identity != nil {
		next = h.identity.clone()
	}
	if u.ID != nil {
		id := *u.ID
		next.ID = &id
	}
	if u.Name != nil {
		next.Name = *u.Name
	}
	if u.Lastname != nil {
		next.Lastname = *u.Lastname
	}
	if u.Email != nil {
		next.Email = *u.Email
	}
	if u.Telephone != nil {
		next.Telephone = cloneString(u.Telephone)
	}

	return h.save(ctx, &next, h.authenticated)
}

func (h *Holder) Logout(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.save(ctx, nil, false); err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("session cleared", zap.String("layer", "session"))
	return nil
}

// save persists the new state before exposing it. Callers hold h.mu.
func (h *Holder) save(ctx context.Context, identity *Identity, authenticated bool) error {
	data, err := json.Marshal(persisted{Identity: identity, IsAuthenticated: authenticated})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveSession, err)
	}
	if err := h.kv.Set(ctx, h.key, data); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveSession, err)
	}

	h.identity = identity
	h.authenticated = authenticated
	return nil
}
