package host

import (
	"context"
	"fmt"

	"github.com/dep2p/go-channels/config"
	"github.com/dep2p/go-channels/internal/core/channel"
	"github.com/dep2p/go-channels/internal/core/reconnect"
	"github.com/dep2p/go-channels/internal/core/transport"
	"github.com/dep2p/go-channels/internal/core/transport/tcp"
	"github.com/dep2p/go-channels/internal/core/transport/udp"
	"github.com/dep2p/go-channels/internal/core/transport/websocket"
	"github.com/dep2p/go-channels/pkg/buffer"
	"github.com/dep2p/go-channels/pkg/types"
)

// ============================================================================
//                              监听器
// ============================================================================

// listenerOptions 把监听器配置转换为传输选项
func (h *Host) listenerOptions(cfg config.ListenerConfig, pipes *channel.Pipelines) (transport.Options, error) {
	order, err := buffer.ParseEndianness(cfg.Endianness)
	if err != nil {
		return transport.Options{}, err
	}
	mode, err := types.ParseIdleMode(cfg.Idle.Mode)
	if err != nil {
		return transport.Options{}, err
	}
	return transport.Options{
		Name:           cfg.Name,
		Address:        cfg.Address,
		Port:           cfg.Port,
		Backlog:        cfg.Backlog,
		MaxConnections: cfg.MaxConnections,
		AcceptRate:     cfg.AcceptRate,
		Endianness:     order,
		IdleMode:       mode,
		IdleTimeout:    cfg.Idle.Timeout.Duration(),
		Pipelines:      pipes,
		Listeners:      h.events,
		Clock:          h.clock,
		ReadBufferSize: cfg.ReadBufferSize,
	}, nil
}

// newListener 按传输类型创建并绑定监听器
func (h *Host) newListener(ctx context.Context, cfg config.ListenerConfig, pipes *channel.Pipelines) (transport.Listener, error) {
	kind, err := types.ParseTransportKind(cfg.Transport)
	if err != nil {
		return nil, err
	}
	opts, err := h.listenerOptions(cfg, pipes)
	if err != nil {
		return nil, err
	}

	switch kind {
	case types.TransportTCP:
		return tcp.Listen(ctx, opts)
	case types.TransportUDP:
		return udp.Listen(ctx, udp.Options{
			Options:   opts,
			MaxPeers:  cfg.MaxPeers,
			InboxSize: cfg.InboxSize,
		})
	case types.TransportWebSocket:
		return websocket.Listen(ctx, websocket.Options{
			Options:         opts,
			Path:            cfg.Path,
			WriteBufferSize: cfg.WriteBufferSize,
		})
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownTransport, kind)
	}
}

// ============================================================================
//                              客户端
// ============================================================================

// clientOptions 把客户端配置转换为传输选项
func (h *Host) clientOptions(cfg config.ClientConfig, pipes *channel.Pipelines) (transport.Options, error) {
	order, err := buffer.ParseEndianness(cfg.Endianness)
	if err != nil {
		return transport.Options{}, err
	}
	mode, err := types.ParseIdleMode(cfg.Idle.Mode)
	if err != nil {
		return transport.Options{}, err
	}
	return transport.Options{
		Name:           cfg.Name,
		Address:        cfg.Host,
		Port:           cfg.Port,
		Endianness:     order,
		IdleMode:       mode,
		IdleTimeout:    cfg.Idle.Timeout.Duration(),
		Pipelines:      pipes,
		Listeners:      h.events,
		Clock:          h.clock,
		ReadBufferSize: cfg.ReadBufferSize,
	}, nil
}

// newConnector 按传输类型创建连接器
func (h *Host) newConnector(cfg config.ClientConfig, pipes *channel.Pipelines) (reconnect.Connector, types.TransportKind, error) {
	kind, err := types.ParseTransportKind(cfg.Transport)
	if err != nil {
		return nil, kind, err
	}
	opts, err := h.clientOptions(cfg, pipes)
	if err != nil {
		return nil, kind, err
	}

	var c reconnect.Connector
	switch kind {
	case types.TransportTCP:
		c, err = tcp.NewClient(opts)
	case types.TransportUDP:
		c, err = udp.NewClient(opts)
	case types.TransportWebSocket:
		c, err = websocket.NewClient(websocket.Options{Options: opts, URL: cfg.URL})
	default:
		err = fmt.Errorf("%w: %s", types.ErrUnknownTransport, kind)
	}
	return c, kind, err
}

// newClient 创建客户端及其重连循环
func (h *Host) newClient(cfg config.ClientConfig, pipes *channel.Pipelines) (*Client, error) {
	connector, kind, err := h.newConnector(cfg, pipes)
	if err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("%s-client", kind)
	}
	loop := reconnect.New(connector, reconnect.Config{
		Name: name,
		Backoff: reconnect.Backoff{
			Base: cfg.ReconnectDelay.Duration(),
			Max:  cfg.MaxReconnectDelay.Duration(),
		},
		MonitorInterval: cfg.MonitorInterval.Duration(),
		Clock:           h.clock,
	})
	return &Client{name: name, kind: kind, loop: loop}, nil
}
