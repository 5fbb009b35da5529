package types

import (
	"fmt"
	"strings"
)

// ============================================================================
//                              TransportKind - 传输类型
// ============================================================================

// TransportKind 通道底层传输类型
type TransportKind int

const (
	// TransportUnknown 未知传输
	TransportUnknown TransportKind = iota
	// TransportTCP TCP 字节流
	TransportTCP
	// TransportUDP UDP 数据报
	TransportUDP
	// TransportWebSocket WebSocket 消息
	TransportWebSocket
)

// String 返回传输类型名称
func (k TransportKind) String() string {
	switch k {
	case TransportTCP:
		return "tcp"
	case TransportUDP:
		return "udp"
	case TransportWebSocket:
		return "websocket"
	default:
		return "unknown"
	}
}

// ParseTransportKind 解析传输类型名称
func ParseTransportKind(s string) (TransportKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tcp":
		return TransportTCP, nil
	case "udp":
		return TransportUDP, nil
	case "websocket", "ws":
		return TransportWebSocket, nil
	default:
		return TransportUnknown, fmt.Errorf("%w: %q", ErrUnknownTransport, s)
	}
}

// ============================================================================
//                              IdleMode - 空闲检测模式
// ============================================================================

// IdleMode 空闲检测模式
type IdleMode int

const (
	// IdleNone 不检测
	IdleNone IdleMode = iota
	// IdleAuto 周期性探测套接字存活
	IdleAuto
	// IdleRead 以最后接收时间为准
	IdleRead
	// IdleWrite 以最后发送时间为准
	IdleWrite
	// IdleBoth 以收发中较近的一次为准
	IdleBoth
)

// String 返回模式名称
func (m IdleMode) String() string {
	switch m {
	case IdleAuto:
		return "auto"
	case IdleRead:
		return "read"
	case IdleWrite:
		return "write"
	case IdleBoth:
		return "both"
	default:
		return "none"
	}
}

// ParseIdleMode 解析模式名称，空字符串视为 none
func ParseIdleMode(s string) (IdleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return IdleNone, nil
	case "auto":
		return IdleAuto, nil
	case "read":
		return IdleRead, nil
	case "write":
		return IdleWrite, nil
	case "both":
		return IdleBoth, nil
	default:
		return IdleNone, fmt.Errorf("%w: %q", ErrUnknownIdleMode, s)
	}
}

// ============================================================================
//                              MessageType - 消息类型
// ============================================================================

// MessageType WebSocket 消息类型
type MessageType int

const (
	// MessageText 文本消息
	MessageText MessageType = iota + 1
	// MessageBinary 二进制消息
	MessageBinary
	// MessageClose 关闭帧
	MessageClose
)

// String 返回消息类型名称
func (t MessageType) String() string {
	switch t {
	case MessageText:
		return "text"
	case MessageBinary:
		return "binary"
	case MessageClose:
		return "close"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              ConnState - 客户端连接状态
// ============================================================================

// ConnState 重连客户端的连接状态
type ConnState int32

const (
	// ConnStateDisconnected 未连接
	ConnStateDisconnected ConnState = iota
	// ConnStateConnecting 连接中
	ConnStateConnecting
	// ConnStateConnected 已连接
	ConnStateConnected
)

// String 返回状态名称
func (s ConnState) String() string {
	switch s {
	case ConnStateConnecting:
		return "connecting"
	case ConnStateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}
