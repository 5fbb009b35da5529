package idle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/lib/log"
	"github.com/dep2p/go-channels/pkg/types"
)

var logger = log.Logger("core/idle")

// AutoInterval Auto 模式的探测周期
const AutoInterval = 5 * time.Second

// notifier 通道可选实现，用于广播自定义事件
type notifier interface {
	Notify(name string, data any)
}

// Option 服务选项
type Option func(*Service)

// WithClock 指定时钟（测试使用 clock.NewMock）
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithInterval 覆盖检查周期
func WithInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.interval = d
		}
	}
}

// ============================================================================
//                              Service 实现
// ============================================================================

// Service 空闲检测服务
type Service struct {
	mode     types.IdleMode
	timeout  time.Duration
	interval time.Duration
	clock    clock.Clock

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

var _ pkgif.ChannelService = (*Service)(nil)

// New 创建空闲检测服务
func New(mode types.IdleMode, timeout time.Duration, opts ...Option) (*Service, error) {
	if timeout < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimeout, timeout)
	}
	switch mode {
	case types.IdleNone, types.IdleRead, types.IdleWrite, types.IdleBoth:
		// 检查周期为 timeout/2，必须为正
		if timeout/2 <= 0 {
			return nil, fmt.Errorf("%w: mode %s timeout %s", ErrInvalidTimeout, mode, timeout)
		}
	case types.IdleAuto:
	default:
		return nil, fmt.Errorf("%w: %d", types.ErrUnknownIdleMode, mode)
	}

	s := &Service{
		mode:    mode,
		timeout: timeout,
		clock:   clock.New(),
	}
	if mode == types.IdleAuto {
		s.interval = AutoInterval
	} else {
		s.interval = timeout / 2
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Factory 返回为每个通道创建服务实例的工厂
func Factory(mode types.IdleMode, timeout time.Duration, opts ...Option) pkgif.ServiceFactory {
	return func() (pkgif.ChannelService, error) {
		return New(mode, timeout, opts...)
	}
}

// Mode 返回检测模式
func (s *Service) Mode() types.IdleMode {
	return s.mode
}

// Timeout 返回超时
func (s *Service) Timeout() time.Duration {
	return s.timeout
}

// String 返回服务描述
func (s *Service) String() string {
	return fmt.Sprintf("idle(%s,%s)", s.mode, s.timeout)
}

// Start 启动检测循环
//
// 定时器在返回前创建，之后推进时钟即可触发检查。
func (s *Service) Start(_ context.Context, ch pkgif.Channel) error {
	if s.mode == types.IdleNone {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	ticker := s.clock.Ticker(s.interval)

	go s.loop(ctx, ch, ticker, s.done)
	return nil
}

// Stop 停止检测循环并等待其退出
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}

	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close 释放服务（只取消循环，不等待）
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

func (s *Service) loop(ctx context.Context, ch pkgif.Channel, ticker *clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch.Done():
			return
		case <-ticker.C:
			if s.check(ch) {
				// 关闭会调用 Stop 等待本循环退出，所以异步关闭后立即返回
				go func() {
					if err := ch.Close(context.Background()); err != nil {
						logger.Debug("空闲关闭通道出错", "channel", ch.ID().ShortString(), "error", err)
					}
				}()
				return
			}
		}
	}
}

// check 执行一次检查，返回 true 表示应关闭通道
func (s *Service) check(ch pkgif.Channel) bool {
	if ch.IsClosed() {
		return false
	}

	if s.mode == types.IdleAuto {
		if p, ok := ch.(pkgif.Poller); ok && !p.Poll() {
			logger.Warn("套接字探测失败，关闭通道", "channel", ch.ID().ShortString())
			notify(ch, types.EventPollFailed, nil)
			return true
		}
		if s.timeout == 0 {
			return false
		}
	}

	idle := s.IdleFor(ch)
	if idle <= s.timeout {
		return false
	}
	logger.Warn("通道空闲超时，关闭通道", "channel", ch.ID().ShortString(),
		"mode", s.mode, "idle", idle, "timeout", s.timeout)
	notify(ch, types.EventIdleTimeout, idle)
	return true
}

// IdleFor 按服务模式计算通道当前的空闲时长
func (s *Service) IdleFor(ch pkgif.Channel) time.Duration {
	now := s.clock.Now()
	created := ch.CreatedAt()
	read := now.Sub(since(ch.LastReceivedAt(), created))
	write := now.Sub(since(ch.LastSentAt(), created))

	switch s.mode {
	case types.IdleRead:
		return read
	case types.IdleWrite:
		return write
	default:
		if read < write {
			return read
		}
		return write
	}
}

func since(last, created time.Time) time.Time {
	if last.IsZero() {
		return created
	}
	return last
}

func notify(ch pkgif.Channel, name string, data any) {
	if n, ok := ch.(notifier); ok {
		n.Notify(name, data)
	}
}
