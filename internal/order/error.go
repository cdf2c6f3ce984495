package order

import (
	"errors"
	"fmt"
)

var (
	ErrNoLines               = errors.New("order has no lines")
	ErrUnknownDeliveryMethod = errors.New("unknown delivery method")
	ErrUnknownPaymentMethod  = errors.New("unknown payment method")
)

// CommitError reports the step a pipeline run stopped at. Completed holds
// what was created before the failure; nothing is rolled back.
type CommitError struct {
	Step      Step
	Err       error
	Completed []StepRecord
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("order commit failed at %s: %v", e.Step, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
