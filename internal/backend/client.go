package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = rate.Limit(10)
	DefaultBurst     = 20
)

// Client talks JSON to the storefront backend collaborator. Every resource
// endpoint is independent; nothing here is transactional.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Options struct {
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

func NewClient(baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	limit := DefaultRateLimit
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultBurst
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter: rate.NewLimiter(limit, opts.Burst),
	}
}

type createdResponse struct {
	ID int64 `json:"id"`
}

// create posts body to path and returns the id the backend assigned.
func (c *Client) create(ctx context.Context, path string, body any) (int64, error) {
	var res createdResponse
	if err := c.do(ctx, http.MethodPost, path, nil, body, &res); err != nil {
		return 0, err
	}
	if res.ID == 0 {
		return 0, fmt.Errorf("%w: POST %s", ErrMissingID, path)
	}
	return res.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "backend"),
		zap.String("method", method),
		zap.String("path", path),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		log.Warn("rate limiter wait aborted", zap.Error(err))
		return err
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			log.Error("failed to marshal request", zap.Error(err))
			return err
		}
		reader = bytes.NewReader(jsonBody)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := logger.RequestIDFrom(ctx); reqID != "" {
		req.Header.Set(logger.RequestIDHeader, reqID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("backend request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read response body", zap.Error(err))
		return fmt.Errorf("failed to read backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("backend returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	log.Debug("backend request done",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		log.Error("failed decoding backend response", zap.Error(err))
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}
