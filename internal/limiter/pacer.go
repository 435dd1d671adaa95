package limiter

import (
	"context"
	"sync/atomic"
	"time"
)

// Pacer enforces a fixed pause between consecutive calls of the same kind.
// The first Wait returns immediately.
type Pacer struct {
	interval atomic.Int64
	last     time.Time
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
}

func NewPacer(interval time.Duration) *Pacer {
	p := &Pacer{now: time.Now, sleep: sleep}
	p.interval.Store(int64(interval))
	return p
}

// SetInterval đổi khoảng chờ khi đang chạy, ví dụ khi file cấu hình thay đổi.
func (p *Pacer) SetInterval(interval time.Duration) {
	p.interval.Store(int64(interval))
}

func (p *Pacer) Interval() time.Duration {
	return time.Duration(p.interval.Load())
}

func (p *Pacer) Wait(ctx context.Context) error {
	if !p.last.IsZero() {
		remaining := p.Interval() - p.now().Sub(p.last)
		if remaining > 0 {
			if err := p.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	p.last = p.now()
	return nil
}
