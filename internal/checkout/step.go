package checkout

type Step int

const (
	StepIdentification Step = iota
	StepShipping
	StepPayment
	StepConfirmation
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepIdentification:
		return "identification"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	case StepSuccess:
		return "success"
	default:
		return "unknown"
	}
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// previous is the step Back returns to. Identification and Success have none.
func (s Step) previous() (Step, bool) {
	switch s {
	case StepShipping, StepPayment, StepConfirmation:
		return s - 1, true
	default:
		return s, false
	}
}
