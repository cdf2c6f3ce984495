package order

import (
	"fmt"

	"storefront/internal/checkout"
)

var deliveryCodes = map[checkout.DeliveryMethod]string{
	checkout.DeliveryPickup:   "PICKUP",
	checkout.DeliveryDelivery: "DELIVERY",
	checkout.DeliveryShipping: "DELIVERY",
}

var paymentCodes = map[checkout.PaymentMethod]string{
	checkout.PaymentCash:       "CASH",
	checkout.PaymentCreditCard: "CREDIT_CARD",
	checkout.PaymentDebitCard:  "DEBIT_CARD",
	checkout.PaymentTransfer:   "TRANSFER",
}

// DeliveryCode translates a delivery method into the backend's code.
func DeliveryCode(m checkout.DeliveryMethod) (string, error) {
	code, ok := deliveryCodes[m]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDeliveryMethod, m)
	}
	return code, nil
}

// PaymentCode translates a payment method into the backend's code.
func PaymentCode(m checkout.PaymentMethod) (string, error) {
	code, ok := paymentCodes[m]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, m)
	}
	return code, nil
}
