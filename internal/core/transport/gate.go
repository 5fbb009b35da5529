package transport

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate 接入速率限制，零值和 nil 均不限制
type Gate struct {
	limiter *rate.Limiter
}

// NewGate 创建速率限制；perSecond 为 0 时不限制
func NewGate(perSecond float64, burst int) *Gate {
	if perSecond <= 0 {
		return &Gate{}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Gate{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait 阻塞直到允许接入下一条连接
func (g *Gate) Wait(ctx context.Context) error {
	if g == nil || g.limiter == nil {
		return nil
	}
	return g.limiter.Wait(ctx)
}

// Allow 非阻塞地检查是否允许接入
func (g *Gate) Allow() bool {
	if g == nil || g.limiter == nil {
		return true
	}
	return g.limiter.Allow()
}

// ============================================================================
//                              Accept 重试
// ============================================================================

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// AcceptBackoff Accept 连续失败时的等待时长
type AcceptBackoff struct {
	delay time.Duration
}

// Next 返回下一次等待时长，从 5ms 翻倍至 1s
func (b *AcceptBackoff) Next() time.Duration {
	if b.delay == 0 {
		b.delay = minAcceptDelay
	} else {
		b.delay *= 2
	}
	if b.delay > maxAcceptDelay {
		b.delay = maxAcceptDelay
	}
	return b.delay
}

// Reset 成功后重置
func (b *AcceptBackoff) Reset() {
	b.delay = 0
}
