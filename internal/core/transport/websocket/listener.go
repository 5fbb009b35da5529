package websocket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/multierr"
	"golang.org/x/net/netutil"

	"github.com/dep2p/go-channels/internal/core/transport"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/lib/log"
	"github.com/dep2p/go-channels/pkg/types"
)

var logger = log.Logger("transport/websocket")

// ============================================================================
//                              Listener 实现
// ============================================================================

// Listener WebSocket 通道监听器，同时是一个 http.Handler
type Listener struct {
	opts     Options
	upgrader websocket.Upgrader
	gate     *transport.Gate
	channels *transport.ChannelSet

	// 独立服务器模式下非 nil
	server   *http.Server
	listener net.Listener

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex // 串行化 closed 与 wg.Add
	closed atomic.Bool
	wg     sync.WaitGroup
}

var (
	_ transport.Listener = (*Listener)(nil)
	_ http.Handler       = (*Listener)(nil)
)

// NewHandler 创建只作为 http.Handler 使用的监听器
func NewHandler(opts Options) (*Listener, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = allowAll
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Listener{
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   opts.BufferSize(),
			WriteBufferSize:  opts.WriteBufferSize,
			HandshakeTimeout: opts.writeTimeout(),
			CheckOrigin:      checkOrigin,
		},
		gate:     transport.NewGate(opts.AcceptRate, opts.AcceptBurst),
		channels: transport.NewChannelSet(),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Listen 创建独立监听的 WebSocket 服务器，升级路径为 opts.Path
func Listen(ctx context.Context, opts Options) (*Listener, error) {
	l, err := NewHandler(opts)
	if err != nil {
		return nil, err
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", opts.HostPort())
	if err != nil {
		l.cancel()
		return nil, fmt.Errorf("websocket listen %s: %w", opts.HostPort(), err)
	}
	if opts.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, opts.MaxConnections)
	}

	mux := http.NewServeMux()
	mux.Handle(opts.path(), l)
	l.listener = ln
	l.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: opts.writeTimeout(),
	}

	logger.Info("WebSocket 监听器已启动", "name", l.Name(), "addr", ln.Addr().String(), "path", opts.path())
	return l, nil
}

// Name 返回监听器名称
func (l *Listener) Name() string {
	return l.opts.Label(types.TransportWebSocket)
}

// Kind 返回 TransportWebSocket
func (l *Listener) Kind() types.TransportKind {
	return types.TransportWebSocket
}

// Addr 返回监听地址，只作为 Handler 使用时为 nil
func (l *Listener) Addr() net.Addr {
	if l.listener == nil {
		return nil
	}
	return l.listener.Addr()
}

// Channels 返回活跃通道
func (l *Listener) Channels() []pkgif.Channel {
	return l.channels.List()
}

// Serve 运行独立服务器，ctx 取消时关闭监听器
func (l *Listener) Serve(ctx context.Context) error {
	if l.closed.Load() {
		return transport.ErrListenerClosed
	}
	if l.server == nil {
		return ErrNoSocket
	}
	stop := context.AfterFunc(ctx, func() { _ = l.Close() })
	defer stop()

	err := l.server.Serve(l.listener)
	if errors.Is(err, http.ErrServerClosed) || l.closed.Load() {
		return nil
	}
	return err
}

// ServeHTTP 升级连接并运行通道，直到连接断开
func (l *Listener) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !l.track() {
		http.Error(w, "listener closed", http.StatusServiceUnavailable)
		return
	}
	defer l.wg.Done()

	if limit := l.opts.MaxConnections; limit > 0 && l.channels.Len() >= limit {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}
	if !l.gate.Allow() {
		http.Error(w, "accept rate exceeded", http.StatusTooManyRequests)
		return
	}

	ws, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已写回错误响应
		logger.Debug("WebSocket 升级失败", "name", l.Name(), "remote", r.RemoteAddr, "error", err)
		return
	}
	conn := newConn(ws, l.opts.writeTimeout())

	ch, err := transport.NewChannel(l.ctx, &l.opts.Options, conn)
	if err != nil {
		logger.Error("创建通道失败", "name", l.Name(), "remote", r.RemoteAddr, "error", err)
		_ = conn.Close()
		return
	}
	l.channels.Add(ch)
	if l.closed.Load() {
		_ = ch.Close(context.Background())
		return
	}

	ch.Initialize(l.ctx)
	run(ch, conn, &l.opts)
}

// track 登记一个连接处理过程，监听器已关闭时返回 false
func (l *Listener) track() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed.Load() {
		return false
	}
	l.wg.Add(1)
	return true
}

// Close 停止服务器、关闭所有通道并等待处理过程退出
func (l *Listener) Close() error {
	l.mu.Lock()
	if !l.closed.CompareAndSwap(false, true) {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()
	l.cancel()

	var errs error
	if l.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		if err := l.server.Shutdown(ctx); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = multierr.Append(errs, l.server.Close())
		}
		cancel()
	}
	errs = multierr.Append(errs, l.channels.CloseAll(context.Background()))
	l.wg.Wait()

	logger.Info("WebSocket 监听器已关闭", "name", l.Name())
	return errs
}
