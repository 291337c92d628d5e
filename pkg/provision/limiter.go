package provision

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// LimiterConfig configures pacing of hosting-service calls when several
// repositories are provisioned concurrently.
type LimiterConfig struct {
	// BaseDelay is the minimum delay between operations.
	BaseDelay time.Duration

	// MaxDelay caps the delay between operations.
	MaxDelay time.Duration

	// Jitter adds randomness to delays to avoid thundering herd.
	Jitter float64

	// ConcurrencyLimit is the maximum number of repositories provisioned
	// at once.
	ConcurrencyLimit int
}

// DefaultLimiterConfig returns a configuration sized for GitHub's rate
// limits on repository creation.
func DefaultLimiterConfig() *LimiterConfig {
	return &LimiterConfig{
		BaseDelay:        200 * time.Millisecond,
		MaxDelay:         10 * time.Second,
		Jitter:           0.1,
		ConcurrencyLimit: 1,
	}
}

// Limiter paces provisioning operations and bounds concurrency.
type Limiter struct {
	config *LimiterConfig

	mu       sync.Mutex
	lastCall time.Time
	rand     *rand.Rand

	semaphore chan struct{}
}

// NewLimiter creates a new limiter.
func NewLimiter(config *LimiterConfig) *Limiter {
	if config == nil {
		config = DefaultLimiterConfig()
	}
	if config.ConcurrencyLimit <= 0 {
		config.ConcurrencyLimit = 1
	}

	return &Limiter{
		config:    config,
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
		semaphore: make(chan struct{}, config.ConcurrencyLimit),
	}
}

// Wait blocks until the base delay since the previous operation has
// elapsed.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	delay := l.calculateDelay()
	l.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	l.mu.Lock()
	l.lastCall = time.Now()
	l.mu.Unlock()
	return nil
}

func (l *Limiter) calculateDelay() time.Duration {
	if l.lastCall.IsZero() {
		return 0
	}

	var delay time.Duration
	sinceLast := time.Since(l.lastCall)
	if sinceLast < l.config.BaseDelay {
		delay = l.config.BaseDelay - sinceLast
	}

	if l.config.Jitter > 0 && delay > 0 {
		delay += time.Duration(l.rand.Float64() * float64(delay) * l.config.Jitter)
	}

	if delay > l.config.MaxDelay {
		delay = l.config.MaxDelay
	}

	return delay
}

// AcquireSlot blocks until a concurrency slot is free.
func (l *Limiter) AcquireSlot(ctx context.Context) error {
	select {
	case l.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReleaseSlot frees a concurrency slot.
func (l *Limiter) ReleaseSlot() {
	select {
	case <-l.semaphore:
	default:
	}
}
