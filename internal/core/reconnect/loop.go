package reconnect

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/lib/log"
	"github.com/dep2p/go-channels/pkg/types"
)

var logger = log.Logger("core/reconnect")

// ErrRunning 循环已在运行
var ErrRunning = errors.New("reconnect: loop already running")

// Connector 建立一条新连接并返回已初始化的通道
type Connector interface {
	Connect(ctx context.Context) (pkgif.Channel, error)
}

// ConnectorFunc 函数形式的 Connector
type ConnectorFunc func(ctx context.Context) (pkgif.Channel, error)

// Connect 实现 Connector
func (f ConnectorFunc) Connect(ctx context.Context) (pkgif.Channel, error) {
	return f(ctx)
}

// Config 循环配置
type Config struct {
	// Name 客户端名称（日志使用）
	Name string

	// Backoff 退避参数
	Backoff Backoff

	// MonitorInterval 连接状态检查周期
	MonitorInterval time.Duration

	// Clock 时钟，默认系统时钟
	Clock clock.Clock

	// OnRetry 每次连接失败后、等待之前调用
	OnRetry func(attempt int, delay time.Duration, err error)

	// OnConnected 连接成功后调用
	OnConnected func(ch pkgif.Channel)
}

// ============================================================================
//                              Loop 实现
// ============================================================================

// Loop 重连状态机
type Loop struct {
	cfg       Config
	connector Connector
	clock     clock.Clock

	state   atomic.Int32
	running atomic.Bool

	mu      sync.RWMutex
	current pkgif.Channel
}

// New 创建重连循环
func New(connector Connector, cfg Config) *Loop {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	if cfg.MonitorInterval <= 0 {
		cfg.MonitorInterval = DefaultMonitorInterval
	}
	return &Loop{
		cfg:       cfg,
		connector: connector,
		clock:     clk,
	}
}

// State 返回当前连接状态
func (l *Loop) State() types.ConnState {
	return types.ConnState(l.state.Load())
}

// Channel 返回当前通道，未连接时为 nil
func (l *Loop) Channel() pkgif.Channel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

func (l *Loop) setState(s types.ConnState) {
	l.state.Store(int32(s))
}

func (l *Loop) setChannel(ch pkgif.Channel) {
	l.mu.Lock()
	l.current = ch
	l.mu.Unlock()
}

// Run 运行状态机直到 ctx 取消
//
// 取消时关闭当前通道并返回 nil。
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer l.running.Store(false)
	defer l.setState(types.ConnStateDisconnected)

	for {
		ch, ok := l.connect(ctx)
		if !ok {
			return nil
		}

		l.setChannel(ch)
		if l.cfg.OnConnected != nil {
			l.cfg.OnConnected(ch)
		}
		l.setState(types.ConnStateConnected)
		logger.Info("客户端已连接", "client", l.cfg.Name, "channel", ch.ID().ShortString())

		lost := l.monitor(ctx, ch)
		l.setChannel(nil)
		l.setState(types.ConnStateDisconnected)

		if !lost {
			if err := ch.Close(context.Background()); err != nil {
				logger.Debug("关闭客户端通道出错", "client", l.cfg.Name, "error", err)
			}
			return nil
		}

		logger.Info("客户端连接已断开，准备重连", "client", l.cfg.Name)
		base, _ := l.cfg.Backoff.normalized()
		if !l.sleep(ctx, base) {
			return nil
		}
	}
}

// connect 反复尝试连接直到成功或 ctx 取消
func (l *Loop) connect(ctx context.Context) (pkgif.Channel, bool) {
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, false
		}

		l.setState(types.ConnStateConnecting)
		ch, err := l.connector.Connect(ctx)
		if err == nil && ch != nil {
			return ch, true
		}
		if ctx.Err() != nil {
			return nil, false
		}
		if err == nil {
			err = errors.New("connector returned no channel")
		}

		l.setState(types.ConnStateDisconnected)
		delay := l.cfg.Backoff.Delay(attempt)
		logger.Warn("客户端连接失败", "client", l.cfg.Name, "attempt", attempt+1,
			"retryIn", delay, "error", err)
		if l.cfg.OnRetry != nil {
			l.cfg.OnRetry(attempt, delay, err)
		}
		if !l.sleep(ctx, delay) {
			return nil, false
		}
	}
}

// monitor 定期检查通道状态，通道关闭返回 true，ctx 取消返回 false
func (l *Loop) monitor(ctx context.Context, ch pkgif.Channel) bool {
	ticker := l.clock.Ticker(l.cfg.MonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if ch.IsClosed() {
				return true
			}
		}
	}
}

// sleep 等待 d，ctx 取消时返回 false
func (l *Loop) sleep(ctx context.Context, d time.Duration) bool {
	t := l.clock.Timer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
