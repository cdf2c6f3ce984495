package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	validatorv10 "github.com/go-playground/validator/v10"
)

const minCardNumberLength = 16

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validatorv10.Validate {
	v := validatorv10.New()

	// Report fields under their form (json) names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	v.RegisterStructValidation(paymentStructValidation, PaymentInput{})

	return v
}

// paymentStructValidation requires every card field when the payment type
// is a card kind. The rule spans fields, so it cannot live in tags.
func paymentStructValidation(sl validatorv10.StructLevel) {
	in := sl.Current().Interface().(PaymentInput)
	if !PaymentMethod(in.PaymentType).IsCard() {
		return
	}

	switch {
	case in.CardNumber == "":
		sl.ReportError(in.CardNumber, "cardNumber", "CardNumber", "card_required", "")
	case utf8.RuneCountInString(in.CardNumber) < minCardNumberLength:
		sl.ReportError(in.CardNumber, "cardNumber", "CardNumber", "card_min", fmt.Sprint(minCardNumberLength))
	}
	if in.CardName == "" {
		sl.ReportError(in.CardName, "cardName", "CardName", "card_required", "")
	}
	if in.CardExpiry == "" {
		sl.ReportError(in.CardExpiry, "cardExpiry", "CardExpiry", "card_required", "")
	}
	if in.CardCvv == "" {
		sl.ReportError(in.CardCvv, "cardCvv", "CardCvv", "card_required", "")
	}
}

func ValidateIdentification(in IdentificationInput) (Identification, error) {
	if err := check(in); err != nil {
		return Identification{}, err
	}

	out := Identification{
		Name:     in.Name,
		Lastname: in.Lastname,
		Email:    in.Email,
	}
	if in.Telephone != "" {
		tel := in.Telephone
		out.Telephone = &tel
	}
	return out, nil
}

func ValidateShipping(in ShippingInput) (Shipping, error) {
	if err := check(in); err != nil {
		return Shipping{}, err
	}

	return Shipping{
		Street:         in.Street,
		Number:         in.Number,
		City:           in.City,
		DeliveryMethod: DeliveryMethod(in.DeliveryMethod),
	}, nil
}

// ValidatePayment drops the card fields for cash and transfer, whatever
// they contain.
func ValidatePayment(in PaymentInput) (Payment, error) {
	if err := check(in); err != nil {
		return Payment{}, err
	}

	method := PaymentMethod(in.PaymentType)
	out := Payment{Method: method}
	if method.IsCard() {
		out.Card = &Card{
			Number: in.CardNumber,
			Name:   in.CardName,
			Expiry: in.CardExpiry,
			CVV:    in.CardCvv,
		}
	}
	return out, nil
}

func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = message(fe)
		}
	}
	return &ValidationError{Fields: fields}
}

func message(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required", "card_required":
		return "is required"
	case "min", "card_min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}
