package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/semaphore"

	"github.com/dep2p/go-channels/internal/core/transport"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/lib/log"
	"github.com/dep2p/go-channels/pkg/types"
)

var logger = log.Logger("transport/tcp")

// ============================================================================
//                              Listener 实现
// ============================================================================

// Listener TCP 通道监听器
type Listener struct {
	opts     transport.Options
	listener net.Listener
	gate     *transport.Gate
	slots    *semaphore.Weighted // nil 表示不限制连接数
	channels *transport.ChannelSet

	mu     sync.Mutex // 串行化 closed 与 wg.Add
	closed atomic.Bool
	wg     sync.WaitGroup
}

var _ transport.Listener = (*Listener)(nil)

// Listen 创建并绑定 TCP 监听器，接入循环由 Serve 运行
func Listen(ctx context.Context, opts transport.Options) (*Listener, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	ln, err := listen(ctx, opts.HostPort(), opts.Backlog)
	if err != nil {
		return nil, fmt.Errorf("tcp listen %s: %w", opts.HostPort(), err)
	}

	l := &Listener{
		opts:     opts,
		listener: ln,
		gate:     transport.NewGate(opts.AcceptRate, opts.AcceptBurst),
		channels: transport.NewChannelSet(),
	}
	if opts.MaxConnections > 0 {
		l.slots = semaphore.NewWeighted(int64(opts.MaxConnections))
	}

	logger.Info("TCP 监听器已启动", "name", l.Name(), "addr", ln.Addr().String())
	return l, nil
}

// Name 返回监听器名称
func (l *Listener) Name() string {
	return l.opts.Label(types.TransportTCP)
}

// Kind 返回 TransportTCP
func (l *Listener) Kind() types.TransportKind {
	return types.TransportTCP
}

// Addr 返回实际监听地址
func (l *Listener) Addr() net.Addr {
	return l.listener.Addr()
}

// Channels 返回活跃通道
func (l *Listener) Channels() []pkgif.Channel {
	return l.channels.List()
}

// Serve 运行接入循环
//
// ctx 取消时关闭监听器并返回 nil。Accept 连续失败时按 5ms 至 1s 退避重试。
func (l *Listener) Serve(ctx context.Context) error {
	if l.closed.Load() {
		return transport.ErrListenerClosed
	}
	stop := context.AfterFunc(ctx, func() { _ = l.Close() })
	defer stop()

	var backoff transport.AcceptBackoff
	for {
		if err := l.gate.Wait(ctx); err != nil {
			return l.serveDone(ctx, err)
		}
		release, err := l.acquire(ctx)
		if err != nil {
			return l.serveDone(ctx, err)
		}

		conn, err := l.listener.Accept()
		if err != nil {
			release()
			if l.closed.Load() {
				return nil
			}
			delay := backoff.Next()
			logger.Warn("接受连接失败", "name", l.Name(), "error", err, "retryIn", delay)
			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return nil
			}
		}
		backoff.Reset()

		if !l.track() {
			_ = conn.Close()
			release()
			return nil
		}
		go func() {
			defer l.wg.Done()
			l.handle(ctx, conn, release)
		}()
	}
}

func (l *Listener) serveDone(ctx context.Context, err error) error {
	if l.closed.Load() || ctx.Err() != nil {
		return nil
	}
	return err
}

// track 登记一个连接处理 goroutine，监听器已关闭时返回 false
func (l *Listener) track() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed.Load() {
		return false
	}
	l.wg.Add(1)
	return true
}

// acquire 占用一个连接名额，返回只生效一次的释放函数
func (l *Listener) acquire(ctx context.Context) (func(), error) {
	if l.slots == nil {
		return func() {}, nil
	}
	if err := l.slots.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	var once sync.Once
	return func() { once.Do(func() { l.slots.Release(1) }) }, nil
}

// handle 为接入连接创建通道并运行接收循环
func (l *Listener) handle(ctx context.Context, nc net.Conn, release func()) {
	tc, ok := nc.(*net.TCPConn)
	if !ok {
		logger.Error("拒绝连接", "name", l.Name(), "error", ErrNotTCPConn)
		_ = nc.Close()
		release()
		return
	}
	conn := newConn(tc)

	ch, err := transport.NewChannel(ctx, &l.opts, conn)
	if err != nil {
		logger.Error("创建通道失败", "name", l.Name(), "remote", tc.RemoteAddr().String(), "error", err)
		_ = conn.Close()
		release()
		return
	}
	ch.OnClose(release)
	l.channels.Add(ch)

	// Close 可能发生在登记之前
	if l.closed.Load() {
		_ = ch.Close(context.Background())
		return
	}

	ch.Initialize(ctx)
	transport.ReceiveLoop(ch, conn, l.opts.BufferSize())
}

// Close 停止监听、关闭所有通道并等待接收循环退出
func (l *Listener) Close() error {
	l.mu.Lock()
	if !l.closed.CompareAndSwap(false, true) {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	var errs error
	if err := l.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		errs = multierr.Append(errs, err)
	}
	errs = multierr.Append(errs, l.channels.CloseAll(context.Background()))
	l.wg.Wait()

	logger.Info("TCP 监听器已关闭", "name", l.Name())
	return errs
}
