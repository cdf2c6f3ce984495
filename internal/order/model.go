package order

import (
	"context"

	"github.com/shopspring/decimal"
)

// StatusPending is the status every new order starts with.
const StatusPending = "pending"

// Request payloads sent to the backend collaborator, one per resource.

type ClientRequest struct {
	Name      string  `json:"name"`
	Lastname  string  `json:"lastname"`
	Email     string  `json:"email"`
	Telephone *string `json:"telephone,omitempty"`
}

type AddressRequest struct {
	ClientID int64  `json:"client_id"`
	Street   string `json:"street"`
	Number   string `json:"number"`
	City     string `json:"city"`
}

type BillRequest struct {
	Reference   string          `json:"reference"`
	Date        string          `json:"date"`
	Total       decimal.Decimal `json:"total"`
	Discount    decimal.Decimal `json:"discount"`
	PaymentCode string          `json:"payment_code"`
	ClientID    int64           `json:"client_id"`
}

type OrderRequest struct {
	ClientID     int64           `json:"client_id"`
	BillID       int64           `json:"bill_id"`
	Total        decimal.Decimal `json:"total"`
	DeliveryCode string          `json:"delivery_code"`
	Status       string          `json:"status"`
}

type OrderItemRequest struct {
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Backend creates resources and returns the identifier the backend
// assigned. No call is transactional with any other.
type Backend interface {
	CreateClient(ctx context.Context, req ClientRequest) (int64, error)
	CreateAddress(ctx context.Context, req AddressRequest) (int64, error)
	CreateBill(ctx context.Context, req BillRequest) (int64, error)
	CreateOrder(ctx context.Context, req OrderRequest) (int64, error)
	CreateOrderItem(ctx context.Context, req OrderItemRequest) (int64, error)
}

// Step names one stage of the commit pipeline.
type Step string

const (
	StepCustomer   Step = "customer"
	StepAddress    Step = "address"
	StepBill       Step = "bill"
	StepOrder      Step = "order"
	StepOrderItems Step = "order_items"
)

// StepRecord lists the resources a completed step created.
type StepRecord struct {
	Step Step    `json:"step"`
	IDs  []int64 `json:"ids"`
}
