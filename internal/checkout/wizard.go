package checkout

import (
	"context"
	"errors"

	"storefront/internal/cart"
	"storefront/internal/logger"
	"storefront/internal/session"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Cart is the part of the cart store the wizard reads and clears.
type Cart interface {
	IsEmpty() bool
	Lines() []cart.Line
	TotalPrice() decimal.Decimal
	ClearCart(ctx context.Context) error
}

// Identity is the part of the session holder the wizard uses.
type Identity interface {
	Identity() (session.Identity, bool)
	IsAuthenticated() bool
	UpdateUser(ctx context.Context, u session.Update) error
}

// Committer materialises a completed draft into backend records.
type Committer interface {
	Commit(ctx context.Context, req CommitRequest) (*CommitResult, error)
}

// Wizard drives identification, shipping, payment and confirmation. It is
// not safe for concurrent use; callers serialise user actions.
type Wizard struct {
	cart      Cart
	identity  Identity
	committer Committer

	step    Step
	draft   Draft
	forms   Forms
	locked  bool
	lastErr error
	result  *CommitResult
}

func NewWizard(c Cart, id Identity, committer Committer) *Wizard {
	w := &Wizard{cart: c, identity: id, committer: committer}
	w.prefill()
	return w
}

// Enter is the entry guard: an empty cart keeps the user out unless the
// checkout already succeeded.
func (w *Wizard) Enter() error {
	if w.step != StepSuccess && w.cart.IsEmpty() {
		return ErrCartEmpty
	}
	if w.step == StepIdentification {
		w.prefill()
	}
	return nil
}

func (w *Wizard) Step() Step { return w.step }

// Draft returns a copy of the validated data collected so far.
func (w *Wizard) Draft() Draft { return w.draft.clone() }

func (w *Wizard) Forms() Forms { return w.forms }

// IdentificationLocked reports that the identification fields come from the
// recognised customer and are not editable.
func (w *Wizard) IdentificationLocked() bool { return w.locked }

// LastError is the failure of the latest Confirm, cleared on success.
func (w *Wizard) LastError() error { return w.lastErr }

func (w *Wizard) Result() *CommitResult { return w.result }

// Advance submits the current step's form.
func (w *Wizard) Advance(ctx context.Context, input any) error {
	switch in := input.(type) {
	case IdentificationInput:
		return w.SubmitIdentification(ctx, in)
	case ShippingInput:
		return w.SubmitShipping(ctx, in)
	case PaymentInput:
		return w.SubmitPayment(ctx, in)
	default:
		return ErrUnknownInput
	}
}

// SubmitIdentification validates in and moves to shipping. When the
// identification is locked the held values are validated instead.
func (w *Wizard) SubmitIdentification(ctx context.Context, in IdentificationInput) error {
	if w.step != StepIdentification {
		return ErrWrongStep
	}
	if w.locked {
		in = w.forms.Identification
	}
	w.forms.Identification = in

	record, err := ValidateIdentification(in)
	if err != nil {
		w.logRejected(ctx, err)
		return err
	}

	w.draft.Identification = &record
	w.step = StepShipping
	return nil
}

func (w *Wizard) SubmitShipping(ctx context.Context, in ShippingInput) error {
	if w.step != StepShipping {
		return ErrWrongStep
	}
	w.forms.Shipping = in

	record, err := ValidateShipping(in)
	if err != nil {
		w.logRejected(ctx, err)
		return err
	}

	w.draft.Shipping = &record
	w.step = StepPayment
	return nil
}

func (w *Wizard) SubmitPayment(ctx context.Context, in PaymentInput) error {
	if w.step != StepPayment {
		return ErrWrongStep
	}
	w.forms.Payment = in

	record, err := ValidatePayment(in)
	if err != nil {
		w.logRejected(ctx, err)
		return err
	}

	w.draft.Payment = &record
	w.step = StepConfirmation
	return nil
}

// Back shows the previous step. Draft and forms are kept as they are, and
// nothing is re-validated until that step is submitted again.
func (w *Wizard) Back() error {
	prev, ok := w.step.previous()
	if !ok {
		return ErrNoPreviousStep
	}
	w.step = prev
	w.lastErr = nil
	return nil
}

// Confirm runs the order pipeline. On success the cart is cleared and the
// wizard reaches StepSuccess; on failure it stays on confirmation and can
// be confirmed again, which re-runs the whole pipeline.
func (w *Wizard) Confirm(ctx context.Context) (*CommitResult, error) {
	if w.step != StepConfirmation {
		return nil, ErrWrongStep
	}
	if w.draft.Identification == nil || w.draft.Shipping == nil || w.draft.Payment == nil {
		return nil, ErrDraftIncomplete
	}
	if w.cart.IsEmpty() {
		w.lastErr = ErrCartEmpty
		return nil, ErrCartEmpty
	}

	req := CommitRequest{
		Identification: *w.draft.Identification,
		Shipping:       *w.draft.Shipping,
		Payment:        *w.draft.Payment,
		Lines:          w.cart.Lines(),
		Total:          w.cart.TotalPrice(),
	}
	held, hasIdentity := w.identity.Identity()
	if hasIdentity && held.HasID() {
		id := *held.ID
		req.CustomerID = &id
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "checkout"),
		zap.String("method", "Confirm"),
		zap.Int("lines", len(req.Lines)),
		zap.String("total", req.Total.StringFixed(2)),
	)
	log.Info("confirming order")

	result, err := w.committer.Commit(ctx, req)
	if err != nil {
		w.lastErr = err
		log.Error("order commit failed", zap.Error(err))
		return nil, err
	}

	if err := w.cart.ClearCart(ctx); err != nil {
		// The order already exists in the backend.
		log.Error("failed to clear cart after commit", zap.Error(err))
	}
	w.step = StepSuccess
	w.lastErr = nil
	w.result = result

	if req.CustomerID == nil {
		w.rememberCustomer(ctx, result.CustomerID)
	}

	log.Info("order confirmed", zap.Int64("order_id", result.OrderID))
	return result, nil
}

// Reset starts a new checkout once the previous one succeeded.
func (w *Wizard) Reset() error {
	if w.step != StepSuccess {
		return ErrWrongStep
	}
	w.step = StepIdentification
	w.draft = Draft{}
	w.forms = Forms{}
	w.result = nil
	w.lastErr = nil
	w.prefill()
	return nil
}

// prefill copies the held identity into the identification form. A
// recognised customer gets a locked form; otherwise the held values are
// only defaults and never replace what the user typed.
func (w *Wizard) prefill() {
	held, ok := w.identity.Identity()
	w.locked = ok && w.identity.IsAuthenticated()
	if !ok || (!w.locked && w.forms.Identification != (IdentificationInput{})) {
		return
	}

	in := IdentificationInput{
		Name:     held.Name,
		Lastname: held.Lastname,
		Email:    held.Email,
	}
	if held.Telephone != nil {
		in.Telephone = *held.Telephone
	}
	w.forms.Identification = in
}

func (w *Wizard) rememberCustomer(ctx context.Context, customerID int64) {
	ident := w.draft.Identification
	err := w.identity.UpdateUser(ctx, session.Update{
		ID:        &customerID,
		Name:      &ident.Name,
		Lastname:  &ident.Lastname,
		Email:     &ident.Email,
		Telephone: ident.Telephone,
	})
	if err != nil {
		logger.FromCtx(ctx).Warn("failed to remember created customer",
			zap.Int64("customer_id", customerID),
			zap.Error(err),
		)
	}
}

func (w *Wizard) logRejected(ctx context.Context, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		logger.FromCtx(ctx).Warn("checkout step rejected",
			zap.String("layer", "checkout"),
			zap.Stringer("step", w.step),
			zap.Int("invalid_fields", len(ve.Fields)),
		)
	}
}
