package limiter

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Giới hạn số lượng request trong 1 giây
type RateLimiter struct {
	requestTimes []time.Time
	maxRequests  int
	throttle     time.Duration
	mu           sync.Mutex
	now          func() time.Time
}

// NewRateLimiter tạo limiter; maxRequests <= 0 nghĩa là không giới hạn.
func NewRateLimiter(maxRequests int, throttle time.Duration) *RateLimiter {
	if throttle <= 0 {
		throttle = 100 * time.Millisecond
	}
	return &RateLimiter{
		requestTimes: make([]time.Time, 0, max(maxRequests, 0)),
		maxRequests:  maxRequests,
		throttle:     throttle,
		now:          time.Now,
	}
}

// Check tra xem có thể thực hiện request mới hay không
func (r *RateLimiter) Allow() bool {
	if r.maxRequests <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	oneSecondAgo := now.Add(-1 * time.Second)

	// Xóa các request cũ hơn 1 giây
	validTimes := r.requestTimes[:0]
	for _, t := range r.requestTimes {
		if t.After(oneSecondAgo) {
			validTimes = append(validTimes, t)
		}
	}
	r.requestTimes = validTimes

	if len(r.requestTimes) < r.maxRequests {
		r.requestTimes = append(r.requestTimes, now)
		return true
	}

	return false
}

// Wait chờ tới khi Allow cho phép hoặc ctx bị hủy.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for !r.Allow() {
		if err := sleep(ctx, r.throttle); err != nil {
			return err
		}
	}
	return nil
}

// Transport applies the limiter to every outbound request.
type Transport struct {
	Base    http.RoundTripper
	Limiter *RateLimiter
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.Limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
