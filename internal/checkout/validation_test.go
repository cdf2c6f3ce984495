package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Fields
}

func TestValidateIdentification(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		rec, err := ValidateIdentification(IdentificationInput{
			Name: "Ana", Lastname: "Paz", Email: "ana@example.com", Telephone: "+54 11 5555",
		})
		require.NoError(t, err)
		assert.Equal(t, "Ana", rec.Name)
		assert.Equal(t, "+54 11 5555", *rec.Telephone)
	})

	t.Run("TelephoneOptional", func(t *testing.T) {
		rec, err := ValidateIdentification(IdentificationInput{Name: "Ana", Lastname: "Paz", Email: "ana@example.com"})
		require.NoError(t, err)
		assert.Nil(t, rec.Telephone)
	})

	t.Run("FieldErrors", func(t *testing.T) {
		_, err := ValidateIdentification(IdentificationInput{Name: "A", Email: "not-an-email"})

		fields := fieldsOf(t, err)
		assert.Equal(t, "must be at least 2 characters", fields["name"])
		assert.Equal(t, "is required", fields["lastname"])
		assert.Equal(t, "must be a valid email address", fields["email"])
		assert.NotContains(t, fields, "telephone")
	})
}

func TestValidateShipping(t *testing.T) {
	valid := ShippingInput{Street: "Av. Siempre Viva", Number: "742", City: "CABA", DeliveryMethod: "delivery"}

	t.Run("Valid", func(t *testing.T) {
		rec, err := ValidateShipping(valid)
		require.NoError(t, err)
		assert.Equal(t, DeliveryDelivery, rec.DeliveryMethod)
	})

	for _, method := range []string{"pickup", "delivery", "shipping"} {
		t.Run("Method_"+method, func(t *testing.T) {
			in := valid
			in.DeliveryMethod = method
			_, err := ValidateShipping(in)
			assert.NoError(t, err)
		})
	}

	t.Run("FieldErrors", func(t *testing.T) {
		_, err := ValidateShipping(ShippingInput{Street: "Av", City: "X", DeliveryMethod: "teleport"})

		fields := fieldsOf(t, err)
		assert.Equal(t, "must be at least 3 characters", fields["street"])
		assert.Equal(t, "is required", fields["number"])
		assert.Equal(t, "must be at least 2 characters", fields["city"])
		assert.Equal(t, "must be one of: pickup, delivery, shipping", fields["deliveryMethod"])
	})
}

func TestValidatePayment(t *testing.T) {
	t.Run("CashWithoutCard", func(t *testing.T) {
		rec, err := ValidatePayment(PaymentInput{PaymentType: "cash"})
		require.NoError(t, err)
		assert.Equal(t, PaymentCash, rec.Method)
		assert.Nil(t, rec.Card)
	})

	t.Run("TransferIgnoresCardFields", func(t *testing.T) {
		rec, err := ValidatePayment(PaymentInput{PaymentType: "transfer", CardNumber: "123"})
		require.NoError(t, err)
		assert.Nil(t, rec.Card)
	})

	t.Run("CreditCardShortNumber", func(t *testing.T) {
		_, err := ValidatePayment(PaymentInput{
			PaymentType: "credit_card", CardNumber: "123", CardName: "A B", CardExpiry: "12/30", CardCvv: "123",
		})

		fields := fieldsOf(t, err)
		assert.Equal(t, map[string]string{"cardNumber": "must be at least 16 characters"}, fields)
	})

	t.Run("CreditCardValid", func(t *testing.T) {
		rec, err := ValidatePayment(PaymentInput{
			PaymentType: "credit_card", CardNumber: "4111111111111111", CardName: "A B", CardExpiry: "12/30", CardCvv: "123",
		})
		require.NoError(t, err)
		assert.Equal(t, PaymentCreditCard, rec.Method)
		require.NotNil(t, rec.Card)
		assert.Equal(t, "A B", rec.Card.Name)
	})

	t.Run("DebitCardMissingFields", func(t *testing.T) {
		_, err := ValidatePayment(PaymentInput{PaymentType: "debit_card"})

		fields := fieldsOf(t, err)
		assert.Len(t, fields, 4)
		for _, f := range []string{"cardNumber", "cardName", "cardExpiry", "cardCvv"} {
			assert.Equal(t, "is required", fields[f], f)
		}
	})

	t.Run("UnknownType", func(t *testing.T) {
		_, err := ValidatePayment(PaymentInput{PaymentType: "bitcoin", CardNumber: "1"})

		fields := fieldsOf(t, err)
		assert.Equal(t, map[string]string{"paymentType": "must be one of: cash, credit_card, debit_card, transfer"}, fields)
	})

	t.Run("Pure", func(t *testing.T) {
		in := PaymentInput{PaymentType: "credit_card", CardNumber: "123"}
		_, first := ValidatePayment(in)
		_, second := ValidatePayment(in)
		assert.Equal(t, first, second)
	})
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"city": "is required", "street": "is required"}}
	assert.Equal(t, "validation failed: city is required; street is required", err.Error())
}
