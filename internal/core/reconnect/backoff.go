package reconnect

import "time"

const (
	// DefaultBaseDelay 默认初始重连间隔
	DefaultBaseDelay = time.Second
	// DefaultMaxDelay 默认最大重连间隔
	DefaultMaxDelay = 30 * time.Second
	// DefaultMonitorInterval 默认的连接状态检查周期
	DefaultMonitorInterval = time.Second
)

// Backoff 指数退避参数
type Backoff struct {
	// Base 初始间隔
	Base time.Duration
	// Max 最大间隔
	Max time.Duration
}

// Delay 返回第 k 次连续失败（从 0 开始）之后的等待时长
//
//	Delay(k) = min(Max, Base·2^k)
//
// k 是此前已经失败的次数：第一次失败后等待 Base，之后每次翻倍，
// 即先等待再翻倍。
func (b Backoff) Delay(k int) time.Duration {
	base, limit := b.normalized()
	if k < 0 {
		k = 0
	}
	d := base
	for i := 0; i < k; i++ {
		if d >= limit || d > limit/2 {
			return limit
		}
		d *= 2
	}
	if d > limit {
		return limit
	}
	return d
}

func (b Backoff) normalized() (time.Duration, time.Duration) {
	base, limit := b.Base, b.Max
	if base <= 0 {
		base = DefaultBaseDelay
	}
	if limit <= 0 {
		limit = DefaultMaxDelay
	}
	if limit < base {
		limit = base
	}
	return base, limit
}
