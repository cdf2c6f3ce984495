package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/logger"
	"storefront/internal/product"
	"storefront/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store owns the cart lines and writes them through to storage after every
// mutation. A failed write leaves the in-memory state untouched.
type Store struct {
	mu    sync.Mutex
	kv    storage.Store
	key   string
	lines []Line
}

// NewStore loads the cart persisted under key. A missing key yields an
// empty cart.
func NewStore(ctx context.Context, kv storage.Store, key string) (*Store, error) {
	s := &Store{kv: kv, key: key}

	data, err := kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedLoadCart, err)
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedLoadCart, err)
	}
	for _, l := range p.Lines {
		if l.Quantity >= 1 {
			s.lines = append(s.lines, l)
		}
	}

	return s, nil
}

// AddItem increments the line for ref, or appends one. Stock is not
// checked here; see ClampToStock.
func (s *Store) AddItem(ctx context.Context, ref product.Ref, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if ref.ID == 0 {
		return ErrInvalidProduct
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyLines()
	if i := indexOf(next, ref.ID); i >= 0 {
		// The price captured on first add is kept.
		next[i].Quantity += quantity
	} else {
		next = append(next, Line{Product: ref, Quantity: quantity})
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "cart"),
		zap.String("method", "AddItem"),
		zap.Int64("product_id", ref.ID),
		zap.Int("quantity", quantity),
	)
	if err := s.commit(ctx, next); err != nil {
		log.Error("failed to persist cart", zap.Error(err))
		return err
	}
	log.Debug("item added")
	return nil
}

// UpdateQuantity sets the quantity of a present line. Zero or less removes
// it; an absent product is ignored.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.lines, productID)
	if i < 0 {
		return nil
	}

	next := s.copyLines()
	next[i].Quantity = quantity
	return s.commit(ctx, next)
}

func (s *Store) RemoveItem(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.lines, productID)
	if i < 0 {
		return nil
	}

	next := make([]Line, 0, len(s.lines)-1)
	next = append(next, s.lines[:i]...)
	next = append(next, s.lines[i+1:]...)
	return s.commit(ctx, next)
}

func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(ctx, nil); err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("cart cleared", zap.String("layer", "cart"))
	return nil
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return totalPrice(s.lines)
}

// ItemQuantity returns 0 for products not in the cart.
func (s *Store) ItemQuantity(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.lines, productID); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.copyLines()
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.lines) == 0
}

func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return Summary{
		Lines:      s.copyLines(),
		TotalItems: total,
		TotalPrice: totalPrice(s.lines),
	}
}

// commit persists next and only then makes it the current state. Callers
// hold s.mu.
func (s *Store) commit(ctx context.Context, next []Line) error {
	if next == nil {
		next = []Line{}
	}

	data, err := json.Marshal(persisted{Lines: next})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveCart, err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveCart, err)
	}

	s.lines = next
	return nil
}

func (s *Store) copyLines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func indexOf(lines []Line, productID int64) int {
	for i, l := range lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

func totalPrice(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
