package backend

import (
	"context"
	"fmt"
	"net/url"

	"storefront/internal/order"
	"storefront/internal/product"
	"storefront/internal/session"
)

// GetProduct reads one catalog entry.
func (c *Client) GetProduct(ctx context.Context, id int64) (product.Product, error) {
	var p product.Product
	err := c.do(ctx, "GET", fmt.Sprintf("/products/%d", id), nil, nil, &p)
	if IsNotFound(err) {
		return product.Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	if err != nil {
		return product.Product{}, err
	}
	return p, nil
}

// FindClientsByEmail lists the client records the backend returns for
// email. The backend filter may be loose; callers match exactly.
func (c *Client) FindClientsByEmail(ctx context.Context, email string) ([]session.Client, error) {
	var clients []session.Client
	if err := c.do(ctx, "GET", "/clients", url.Values{"email": {email}}, nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (c *Client) CreateClient(ctx context.Context, req order.ClientRequest) (int64, error) {
	return c.create(ctx, "/clients", req)
}

func (c *Client) CreateAddress(ctx context.Context, req order.AddressRequest) (int64, error) {
	return c.create(ctx, "/addresses", req)
}

func (c *Client) CreateBill(ctx context.Context, req order.BillRequest) (int64, error) {
	return c.create(ctx, "/bills", req)
}

func (c *Client) CreateOrder(ctx context.Context, req order.OrderRequest) (int64, error) {
	return c.create(ctx, "/orders", req)
}

func (c *Client) CreateOrderItem(ctx context.Context, req order.OrderItemRequest) (int64, error) {
	return c.create(ctx, "/order-items", req)
}

var (
	_ order.Backend        = (*Client)(nil)
	_ session.ClientFinder = (*Client)(nil)
)
