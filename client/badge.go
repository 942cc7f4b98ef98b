package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

const (
	DefaultPollInterval = 30 * time.Second
	DefaultMaxBackoff   = 5 * time.Minute
)

// ErrPollInFlight is returned by Poll while a previous fetch is still running.
var ErrPollInFlight = errors.New("pending badge: poll already in flight")

// PendingCounter reports how many of the provider's bookings are pending.
// *API satisfies it through the server-side count, which is never truncated
// the way a listing can be.
type PendingCounter interface {
	PendingCount(ctx context.Context) (int64, error)
}

// PendingBadge keeps a provider's count of pending bookings fresh by polling
// and on demand via Refresh. Fetches never overlap, and consecutive failures
// stretch the poll interval up to MaxBackoff.
type PendingBadge struct {
	Source     PendingCounter
	Interval   time.Duration
	MaxBackoff time.Duration
	OnCount    func(int)
	OnError    func(error)

	refresh  chan struct{}
	inFlight atomic.Bool

	mu       sync.Mutex
	count    int
	failures int
}

func NewPendingBadge(src PendingCounter, onCount func(int)) *PendingBadge {
	return &PendingBadge{
		Source:     src,
		Interval:   DefaultPollInterval,
		MaxBackoff: DefaultMaxBackoff,
		OnCount:    onCount,
		refresh:    make(chan struct{}, 1),
	}
}

// Count returns the last published count.
func (p *PendingBadge) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// Refresh asks Run to poll now. Calls made while one is already queued coalesce.
func (p *PendingBadge) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Poll fetches once and publishes the pending count.
func (p *PendingBadge) Poll(ctx context.Context) (int, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return p.Count(), ErrPollInFlight
	}
	defer p.inFlight.Store(false)

	total, err := p.Source.PendingCount(ctx)
	p.mu.Lock()
	if err != nil {
		p.failures++
		count := p.count
		p.mu.Unlock()
		if p.OnError != nil {
			p.OnError(err)
		}
		return count, err
	}
	n := int(total)
	p.failures = 0
	p.count = n
	p.mu.Unlock()

	if p.OnCount != nil {
		p.OnCount(n)
	}
	return n, nil
}

// nextDelay is Interval after a success, doubled per consecutive failure, capped at MaxBackoff.
func (p *PendingBadge) nextDelay() time.Duration {
	p.mu.Lock()
	failures := p.failures
	p.mu.Unlock()

	delay := p.Interval
	for i := 0; i < failures && delay < p.MaxBackoff; i++ {
		delay *= 2
	}
	if delay > p.MaxBackoff {
		delay = p.MaxBackoff
	}
	return delay
}

// Run polls immediately, then on every tick or Refresh until ctx is done.
func (p *PendingBadge) Run(ctx context.Context) error {
	if p.refresh == nil {
		p.refresh = make(chan struct{}, 1)
	}
	if p.Interval <= 0 {
		p.Interval = DefaultPollInterval
	}
	if p.MaxBackoff < p.Interval {
		p.MaxBackoff = p.Interval
	}

	_, _ = p.Poll(ctx)
	timer := time.NewTimer(p.nextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		case <-p.refresh:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}
		_, _ = p.Poll(ctx)
		timer.Reset(p.nextDelay())
	}
}
