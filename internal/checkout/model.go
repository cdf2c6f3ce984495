package checkout

import (
	"storefront/internal/cart"

	"github.com/shopspring/decimal"
)

type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryDelivery DeliveryMethod = "delivery"
	DeliveryShipping DeliveryMethod = "shipping"
)

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentTransfer   PaymentMethod = "transfer"
)

// IsCard reports whether the method needs card details.
func (m PaymentMethod) IsCard() bool {
	return m == PaymentCreditCard || m == PaymentDebitCard
}

// Raw form input, one struct per step. Field names follow the storefront
// form payloads.

type IdentificationInput struct {
	Name      string `json:"name" validate:"required,min=2"`
	Lastname  string `json:"lastname" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Telephone string `json:"telephone,omitempty"`
}

type ShippingInput struct {
	Street         string `json:"street" validate:"required,min=3"`
	Number         string `json:"number" validate:"required"`
	City           string `json:"city" validate:"required,min=2"`
	DeliveryMethod string `json:"deliveryMethod" validate:"required,oneof=pickup delivery shipping"`
}

// PaymentInput card fields are checked by paymentStructValidation only
// when PaymentType is a card kind.
type PaymentInput struct {
	PaymentType string `json:"paymentType" validate:"required,oneof=cash credit_card debit_card transfer"`
	CardNumber  string `json:"cardNumber,omitempty"`
	CardName    string `json:"cardName,omitempty"`
	CardExpiry  string `json:"cardExpiry,omitempty"`
	CardCvv     string `json:"cardCvv,omitempty"`
}

// Validated step records.

type Identification struct {
	Name      string  `json:"name"`
	Lastname  string  `json:"lastname"`
	Email     string  `json:"email"`
	Telephone *string `json:"telephone,omitempty"`
}

type Shipping struct {
	Street         string         `json:"street"`
	Number         string         `json:"number"`
	City           string         `json:"city"`
	DeliveryMethod DeliveryMethod `json:"deliveryMethod"`
}

// Card is collected but never sent anywhere.
type Card struct {
	Number string `json:"-"`
	Name   string `json:"cardName"`
	Expiry string `json:"-"`
	CVV    string `json:"-"`
}

type Payment struct {
	Method PaymentMethod `json:"paymentType"`
	Card   *Card         `json:"card,omitempty"`
}

// Draft holds the data of every step validated so far; nil until then.
type Draft struct {
	Identification *Identification `json:"identification"`
	Shipping       *Shipping       `json:"shipping"`
	Payment        *Payment        `json:"payment"`
}

// Forms holds what the user last typed in each step, valid or not.
type Forms struct {
	Identification IdentificationInput `json:"identification"`
	Shipping       ShippingInput       `json:"shipping"`
	Payment        PaymentInput        `json:"-"`
}

// CommitRequest is everything the order pipeline needs to materialise the
// cart. CustomerID is set when the session already carries a client id.
type CommitRequest struct {
	Identification Identification
	Shipping       Shipping
	Payment        Payment
	CustomerID     *int64
	Lines          []cart.Line
	Total          decimal.Decimal
}

// CommitResult lists the resources created by a successful commit.
type CommitResult struct {
	OrderID       int64           `json:"order_id"`
	CustomerID    int64           `json:"customer_id"`
	AddressID     int64           `json:"address_id"`
	BillID        int64           `json:"bill_id"`
	BillReference string          `json:"bill_reference"`
	LineItemIDs   []int64         `json:"line_item_ids"`
	Total         decimal.Decimal `json:"total"`
}

func (d Draft) clone() Draft {
	out := Draft{}
	if d.Identification != nil {
		v := *d.Identification
		if v.Telephone != nil {
			tel := *v.Telephone
			v.Telephone = &tel
		}
		out.Identification = &v
	}
	if d.Shipping != nil {
		v := *d.Shipping
		out.Shipping = &v
	}
	if d.Payment != nil {
		v := *d.Payment
		if v.Card != nil {
			card := *v.Card
			v.Card = &card
		}
		out.Payment = &v
	}
	return out
}
