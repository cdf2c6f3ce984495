package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/logger"
	"storefront/internal/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRoundTripper allows us to mock the HTTP response
type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type MockRoundTripperWithError func(req *http.Request) (*http.Response, error)

func (f MockRoundTripperWithError) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func newTestClient(rt http.RoundTripper) *Client {
	c := NewClient("http://backend.test/api/", Options{})
	c.httpClient.Transport = rt
	return c
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("http://backend.test/", Options{})

	assert.Equal(t, "http://backend.test", c.baseURL)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	assert.Equal(t, DefaultRateLimit, c.limiter.Limit())
	assert.Equal(t, DefaultBurst, c.limiter.Burst())

	c = NewClient("http://backend.test", Options{Timeout: time.Second, RateLimit: 2, Burst: 4})
	assert.Equal(t, time.Second, c.httpClient.Timeout)
	assert.Equal(t, 4, c.limiter.Burst())
}

func TestClient_CreateOrder(t *testing.T) {
	ctx := logger.WithRequestID(context.Background(), "req-1")

	t.Run("Success", func(t *testing.T) {
		c := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "http://backend.test/api/orders", req.URL.String())
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			assert.Equal(t, "req-1", req.Header.Get(logger.RequestIDHeader))

			var body map[string]any
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.Equal(t, float64(1), body["client_id"])
			assert.Equal(t, float64(3), body["bill_id"])
			assert.Equal(t, "200", body["total"])
			assert.Equal(t, "DELIVERY", body["delivery_code"])
			assert.Equal(t, "pending", body["status"])

			return jsonResponse(http.StatusCreated, `{"id": 42}`)
		}))

		id, err := c.CreateOrder(ctx, order.OrderRequest{
			ClientID:     1,
			BillID:       3,
			Total:        decimal.NewFromInt(200),
			DeliveryCode: "DELIVERY",
			Status:       order.StatusPending,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(42), id)
	})

	t.Run("APIError", func(t *testing.T) {
		c := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusUnprocessableEntity, `{"error":"bill_id required"}`)
		}))

		_, err := c.CreateOrder(ctx, order.OrderRequest{})

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
		assert.Equal(t, "/orders", apiErr.Path)
		assert.Contains(t, apiErr.Body, "bill_id required")
	})

	t.Run("MissingID", func(t *testing.T) {
		c := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{}`)
		}))

		_, err := c.CreateOrder(ctx, order.OrderRequest{})
		assert.ErrorIs(t, err, ErrMissingID)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		c := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `not-json`)
		}))

		_, err := c.CreateOrder(ctx, order.OrderRequest{})
		assert.ErrorContains(t, err, "failed to decode backend response")
	})

	t.Run("NetworkError", func(t *testing.T) {
		c := newTestClient(MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}))

		_, err := c.CreateOrder(ctx, order.OrderRequest{})
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestClient_CreateEndpoints(t *testing.T) {
	ctx := context.Background()
	var paths []string
	c := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
		paths = append(paths, req.URL.Path)
		return jsonResponse(http.StatusCreated, `{"id": 7}`)
	}))

	_, err := c.CreateClient(ctx, order.ClientRequest{Name: "Ana"})
	require.NoError(t, err)
	_, err = c.CreateAddress(ctx, order.AddressRequest{ClientID: 7})
	require.NoError(t, err)
	_, err = c.CreateBill(ctx, order.BillRequest{Reference: "FAC-1"})
	require.NoError(t, err)
	_, err = c.CreateOrderItem(ctx, order.OrderItemRequest{OrderID: 7})
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/clients", "/api/addresses", "/api/bills", "/api/order-items"}, paths)
}

func TestClient_GetProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		c := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, "/api/products/5", req.URL.Path)
			return jsonResponse(http.StatusOK, `{"id":5,"name":"Mate","price":"12.50","stock":3}`)
		}))

		p, err := c.GetProduct(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, "Mate", p.Name)
		assert.True(t, p.Price.Equal(decimal.RequireFromString("12.5")))
		require.NotNil(t, p.Stock)
		assert.Equal(t, 3, *p.Stock)
	})

	t.Run("NotFound", func(t *testing.T) {
		c := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusNotFound, `{"error":"not found"}`)
		}))

		_, err := c.GetProduct(ctx, 5)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestClient_FindClientsByEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clients", r.URL.Path)
		assert.Equal(t, "ana@example.com", r.URL.Query().Get("email"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Ana","lastname":"Paz","email":"ana@example.com"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, Options{})
	clients, err := c.FindClientsByEmail(context.Background(), "ana@example.com")

	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, int64(1), clients[0].ID)
	assert.Equal(t, "Paz", clients[0].Lastname)
}

func TestClient_RateLimiterHonoursContext(t *testing.T) {
	c := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, `[]`)
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FindClientsByEmail(ctx, "ana@example.com")
	assert.Error(t, err)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&APIError{StatusCode: http.StatusNotFound}))
	assert.False(t, IsNotFound(&APIError{StatusCode: http.StatusBadGateway}))
	assert.False(t, IsNotFound(errors.New("boom")))
}
