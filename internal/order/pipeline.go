package order

import (
	"context"
	"sync"
	"time"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/logger"
	"storefront/internal/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Pipeline materialises a confirmed checkout into backend resources:
// customer, address, bill, order, then one item per cart line.
type Pipeline struct {
	backend Backend
	now     func() time.Time
	metrics *metrics.Checkout
}

type Option func(*Pipeline)

// WithClock overrides the clock used for bill references and dates.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithMetrics records every commit outcome into m.
func WithMetrics(m *metrics.Checkout) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

func NewPipeline(backend Backend, opts ...Option) *Pipeline {
	p := &Pipeline{backend: backend, now: time.Now, metrics: &metrics.Checkout{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Commit runs every step in order and stops at the first failure, which is
// returned as *CommitError. Resources created before the failure are left
// in place, so running Commit again may create duplicates.
func (p *Pipeline) Commit(ctx context.Context, req checkout.CommitRequest) (*checkout.CommitResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "order"),
		zap.String("method", "Commit"),
	)

	if len(req.Lines) == 0 {
		return nil, ErrNoLines
	}
	deliveryCode, err := DeliveryCode(req.Shipping.DeliveryMethod)
	if err != nil {
		return nil, err
	}
	paymentCode, err := PaymentCode(req.Payment.Method)
	if err != nil {
		return nil, err
	}

	timer := metrics.StartTimer()
	var completed []StepRecord
	fail := func(step Step, err error) error {
		p.metrics.ObserveFailure(string(step), timer.Duration())
		log.Error("commit step failed",
			zap.String("step", string(step)),
			zap.Int("completed_steps", len(completed)),
			zap.Error(err),
		)
		return &CommitError{Step: step, Err: err, Completed: completed}
	}
	done := func(step Step, ids ...int64) {
		completed = append(completed, StepRecord{Step: step, IDs: ids})
		log.Info("commit step done", zap.String("step", string(step)), zap.Int64s("ids", ids))
	}

	// 1. customer
	var customerID int64
	if req.CustomerID != nil {
		customerID = *req.CustomerID
		log.Info("reusing customer", zap.Int64("customer_id", customerID))
	} else {
		ident := req.Identification
		customerID, err = p.backend.CreateClient(ctx, ClientRequest{
			Name:      ident.Name,
			Lastname:  ident.Lastname,
			Email:     ident.Email,
			Telephone: ident.Telephone,
		})
		if err != nil {
			return nil, fail(StepCustomer, err)
		}
		done(StepCustomer, customerID)
	}

	// 2. address
	addressID, err := p.backend.CreateAddress(ctx, AddressRequest{
		ClientID: customerID,
		Street:   req.Shipping.Street,
		Number:   req.Shipping.Number,
		City:     req.Shipping.City,
	})
	if err != nil {
		return nil, fail(StepAddress, err)
	}
	done(StepAddress, addressID)

	// 3. bill
	now := p.now()
	reference := GenerateBillReference(now)
	billID, err := p.backend.CreateBill(ctx, BillRequest{
		Reference:   reference,
		Date:        BillDate(now),
		Total:       req.Total,
		Discount:    decimal.Zero,
		PaymentCode: paymentCode,
		ClientID:    customerID,
	})
	if err != nil {
		return nil, fail(StepBill, err)
	}
	done(StepBill, billID)

	// 4. order
	orderID, err := p.backend.CreateOrder(ctx, OrderRequest{
		ClientID:     customerID,
		BillID:       billID,
		Total:        req.Total,
		DeliveryCode: deliveryCode,
		Status:       StatusPending,
	})
	if err != nil {
		return nil, fail(StepOrder, err)
	}
	done(StepOrder, orderID)

	// 5. items
	itemIDs, err := p.createItems(ctx, orderID, req.Lines)
	if err != nil {
		if len(itemIDs) > 0 {
			completed = append(completed, StepRecord{Step: StepOrderItems, IDs: itemIDs})
		}
		return nil, fail(StepOrderItems, err)
	}
	done(StepOrderItems, itemIDs...)
	p.metrics.ObserveSuccess(timer.Duration(), len(itemIDs))

	return &checkout.CommitResult{
		OrderID:       orderID,
		CustomerID:    customerID,
		AddressID:     addressID,
		BillID:        billID,
		BillReference: reference,
		LineItemIDs:   itemIDs,
		Total:         req.Total,
	}, nil
}

// createItems issues one creation per line concurrently and waits for all
// of them. The ids of the items that were created are returned in line
// order even when another creation failed.
func (p *Pipeline) createItems(ctx context.Context, orderID int64, lines []cart.Line) ([]int64, error) {
	var (
		g       errgroup.Group
		mu      sync.Mutex
		created = make(map[int]int64, len(lines))
	)

	for i, line := range lines {
		g.Go(func() error {
			id, err := p.backend.CreateOrderItem(ctx, OrderItemRequest{
				OrderID:   orderID,
				ProductID: line.Product.ID,
				Quantity:  line.Quantity,
				UnitPrice: line.Product.UnitPrice,
				Subtotal:  line.Subtotal(),
			})
			if err != nil {
				return err
			}

			mu.Lock()
			created[i] = id
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()

	ids := make([]int64, 0, len(created))
	for i := range lines {
		if id, ok := created[i]; ok {
			ids = append(ids, id)
		}
	}
	return ids, err
}
