package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/multierr"

	"github.com/dep2p/go-channels/internal/core/channel"
	"github.com/dep2p/go-channels/internal/core/transport"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/lib/log"
	"github.com/dep2p/go-channels/pkg/types"
)

var logger = log.Logger("transport/udp")

// peer 一个远端对应的通道和收件队列
type peer struct {
	ch    *channel.Channel
	inbox chan []byte
}

// deliver 投递数据报，队列满时丢弃
func (p *peer) deliver(data []byte) {
	select {
	case p.inbox <- data:
	default:
		logger.Warn("收件队列已满，丢弃数据报", "channel", p.ch.String(), "size", len(data))
		p.ch.Notify(types.EventInboxOverflow, len(data))
	}
}

// run 按到达顺序把数据报送入通道，直到通道关闭
func (p *peer) run() {
	for {
		select {
		case data := <-p.inbox:
			if err := p.ch.Receive(p.ch.Context(), data); err != nil && p.ch.IsClosed() {
				return
			}
		case <-p.ch.Done():
			return
		}
	}
}

// ============================================================================
//                              Listener 实现
// ============================================================================

// Listener UDP 通道监听器
type Listener struct {
	opts Options
	conn *net.UDPConn
	gate *transport.Gate

	mu    sync.Mutex // 保护 peers，并串行化 closed 与 wg.Add
	peers *lru.Cache[string, *peer]

	closed atomic.Bool
	wg     sync.WaitGroup
}

var _ transport.Listener = (*Listener)(nil)

// Listen 绑定 UDP 套接字
func Listen(_ context.Context, opts Options) (*Listener, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	addr, err := net.ResolveUDPAddr("udp", opts.HostPort())
	if err != nil {
		return nil, fmt.Errorf("udp resolve %s: %w", opts.HostPort(), err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("udp listen %s: %w", opts.HostPort(), err)
	}

	l := &Listener{
		opts: opts,
		conn: conn,
		gate: transport.NewGate(opts.AcceptRate, opts.AcceptBurst),
	}
	peers, err := lru.NewWithEvict[string, *peer](opts.maxPeers(), l.evicted)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	l.peers = peers

	logger.Info("UDP 监听器已启动", "name", l.Name(), "addr", conn.LocalAddr().String(), "maxPeers", opts.maxPeers())
	return l, nil
}

// Name 返回监听器名称
func (l *Listener) Name() string {
	return l.opts.Label(types.TransportUDP)
}

// Kind 返回 TransportUDP
func (l *Listener) Kind() types.TransportKind {
	return types.TransportUDP
}

// Addr 返回实际监听地址
func (l *Listener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// Channels 返回活跃通道
func (l *Listener) Channels() []pkgif.Channel {
	l.mu.Lock()
	peers := l.peers.Values()
	l.mu.Unlock()

	out := make([]pkgif.Channel, 0, len(peers))
	for _, p := range peers {
		out = append(out, p.ch)
	}
	return out
}

// Serve 读取数据报并分发到对应通道，ctx 取消时关闭监听器
func (l *Listener) Serve(ctx context.Context) error {
	if l.closed.Load() {
		return transport.ErrListenerClosed
	}
	stop := context.AfterFunc(ctx, func() { _ = l.Close() })
	defer stop()

	buf := make([]byte, MaxDatagramSize)
	var backoff transport.AcceptBackoff
	for {
		n, addr, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if l.closed.Load() {
				return nil
			}
			delay := backoff.Next()
			logger.Warn("读取数据报失败", "name", l.Name(), "error", err, "retryIn", delay)
			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return nil
			}
		}
		backoff.Reset()

		data := make([]byte, n)
		copy(data, buf[:n])

		p, err := l.peerFor(ctx, addr)
		if err != nil {
			logger.Debug("丢弃数据报", "name", l.Name(), "remote", addr.String(), "error", err)
			continue
		}
		p.deliver(data)
	}
}

// peerFor 返回远端对应的通道，不存在时创建
func (l *Listener) peerFor(ctx context.Context, addr *net.UDPAddr) (*peer, error) {
	key := addr.String()

	l.mu.Lock()
	if l.closed.Load() {
		l.mu.Unlock()
		return nil, transport.ErrListenerClosed
	}
	if p, ok := l.peers.Get(key); ok && !p.ch.IsClosed() {
		l.mu.Unlock()
		return p, nil
	}
	if !l.gate.Allow() {
		l.mu.Unlock()
		return nil, ErrPeerRejected
	}

	ch, err := transport.NewChannel(ctx, &l.opts.Options, &peerConn{conn: l.conn, remote: addr})
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}
	p := &peer{ch: ch, inbox: make(chan []byte, l.opts.inboxSize())}
	l.peers.Add(key, p)
	l.wg.Add(1)
	l.mu.Unlock()

	ch.OnClose(func() { l.remove(key, p) })

	go func() {
		defer l.wg.Done()
		p.run()
	}()
	ch.Initialize(ctx)
	return p, nil
}

// remove 通道关闭后从表中移除，表中已是新通道时不动
func (l *Listener) remove(key string, p *peer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cur, ok := l.peers.Peek(key); ok && cur == p {
		l.peers.Remove(key)
	}
}

// evicted LRU 淘汰回调，关闭被淘汰的通道
func (l *Listener) evicted(key string, p *peer) {
	if p.ch.IsClosed() {
		return
	}
	logger.Info("通道表已满，淘汰最久未活动的远端", "name", l.Name(), "remote", key)
	p.ch.Notify(types.EventPeerEvicted, key)
	// 回调可能在持有 l.mu 时触发，关闭会回调 remove
	go func() { _ = p.ch.Close(context.Background()) }()
}

// Close 关闭套接字和所有通道
func (l *Listener) Close() error {
	l.mu.Lock()
	if !l.closed.CompareAndSwap(false, true) {
		l.mu.Unlock()
		return nil
	}
	peers := l.peers.Values()
	l.mu.Unlock()

	var errs error
	if err := l.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		errs = multierr.Append(errs, err)
	}

	for _, p := range peers {
		errs = multierr.Append(errs, p.ch.Close(context.Background()))
	}
	l.wg.Wait()

	logger.Info("UDP 监听器已关闭", "name", l.Name())
	return errs
}
