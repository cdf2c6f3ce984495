package checkout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrCartEmpty       = errors.New("cart is empty")
	ErrWrongStep       = errors.New("operation not allowed in the current checkout step")
	ErrNoPreviousStep  = errors.New("no previous checkout step")
	ErrUnknownInput    = errors.New("unknown checkout step input")
	ErrDraftIncomplete = errors.New("checkout draft is incomplete")
)

// ValidationError carries one message per invalid form field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
