package interfaces

import (
	"context"
	"net"
	"time"

	"github.com/dep2p/go-channels/pkg/buffer"
	"github.com/dep2p/go-channels/pkg/types"
)

// Channel 单个逻辑连接（TCP 流、UDP 对端或 WebSocket）
//
// 关闭状态是单调的：一旦 IsClosed 返回 true 就不会再变回 false。
type Channel interface {
	// ID 返回通道唯一标识
	ID() types.ChannelID

	// Transport 返回底层传输类型
	Transport() types.TransportKind

	// CreatedAt 返回创建时间
	CreatedAt() time.Time

	// LastReceivedAt 返回最后一次接收数据的时间，尚未接收时为零值
	LastReceivedAt() time.Time

	// LastSentAt 返回最后一次发送数据的时间，尚未发送时为零值
	LastSentAt() time.Time

	// Metadata 返回通道元数据表
	Metadata() *types.Metadata

	// Endianness 返回通道缓冲区字节序
	Endianness() buffer.Endianness

	// LocalAddr 返回本地地址
	LocalAddr() net.Addr

	// RemoteAddr 返回远端地址
	RemoteAddr() net.Addr

	// Write 把对象送入输出管道，最终写到传输层
	//
	// 通道已关闭时返回错误，不会写出任何数据。
	Write(ctx context.Context, v any) error

	// Close 关闭通道（幂等）
	Close(ctx context.Context) error

	// IsClosed 是否已关闭
	IsClosed() bool

	// Done 返回在通道关闭时被关闭的 channel
	Done() <-chan struct{}
}

// Poller 可以主动探测底层套接字是否存活
type Poller interface {
	// Poll 返回 false 表示套接字已断开或出错
	Poll() bool
}
