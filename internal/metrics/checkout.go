package metrics

import (
	"sync"
	"time"
)

// Checkout counts order commit outcomes. The zero value is ready to use.
type Checkout struct {
	attempts  Counter
	succeeded Counter
	failed    Counter
	lineItems Counter

	mu           sync.Mutex
	failedAt     map[string]uint64
	lastDuration time.Duration
}

type CheckoutSnapshot struct {
	Attempts       uint64            `json:"attempts"`
	Succeeded      uint64            `json:"succeeded"`
	Failed         uint64            `json:"failed"`
	LineItems      uint64            `json:"line_items"`
	FailedAtStep   map[string]uint64 `json:"failed_at_step"`
	LastDurationMS int64             `json:"last_duration_ms"`
}

func (c *Checkout) ObserveSuccess(d time.Duration, items int) {
	c.attempts.Inc()
	c.succeeded.Inc()
	c.lineItems.Add(uint64(items))
	c.setDuration(d)
}

func (c *Checkout) ObserveFailure(step string, d time.Duration) {
	c.attempts.Inc()
	c.failed.Inc()

	c.mu.Lock()
	if c.failedAt == nil {
		c.failedAt = make(map[string]uint64)
	}
	c.failedAt[step]++
	c.lastDuration = d
	c.mu.Unlock()
}

func (c *Checkout) setDuration(d time.Duration) {
	c.mu.Lock()
	c.lastDuration = d
	c.mu.Unlock()
}

func (c *Checkout) Snapshot() CheckoutSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	failedAt := make(map[string]uint64, len(c.failedAt))
	for k, v := range c.failedAt {
		failedAt[k] = v
	}

	return CheckoutSnapshot{
		Attempts:       c.attempts.Load(),
		Succeeded:      c.succeeded.Load(),
		Failed:         c.failed.Load(),
		LineItems:      c.lineItems.Load(),
		FailedAtStep:   failedAt,
		LastDurationMS: c.lastDuration.Milliseconds(),
	}
}
