package transport

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-channels/internal/core/channel"
	"github.com/dep2p/go-channels/internal/core/idle"
	"github.com/dep2p/go-channels/pkg/buffer"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/types"
)

// DefaultReadBufferSize 单次读取的默认块大小
const DefaultReadBufferSize = 4096

// Options 监听器与客户端共用的选项
type Options struct {
	// Name 名称（日志使用）
	Name string

	// Address 监听或连接的主机，空表示所有地址
	Address string

	// Port 端口，0 表示由系统分配
	Port int

	// Backlog 监听积压队列长度，0 使用系统默认值
	Backlog int

	// MaxConnections 同时存在的最大连接数，0 不限制
	MaxConnections int

	// AcceptRate 每秒允许接入的连接数，0 不限制
	AcceptRate float64

	// AcceptBurst 接入速率的突发量，默认为 1
	AcceptBurst int

	// Endianness 通道缓冲区字节序
	Endianness buffer.Endianness

	// IdleMode 空闲检测模式
	IdleMode types.IdleMode

	// IdleTimeout 空闲超时
	IdleTimeout time.Duration

	// Pipelines 通道使用的管道（必需），由创建者负责释放
	Pipelines *channel.Pipelines

	// Listeners 通道事件监听器
	Listeners pkgif.ChannelEventListener

	// Clock 时钟，默认系统时钟
	Clock clock.Clock

	// ReadBufferSize 单次读取的块大小
	ReadBufferSize int
}

// Validate 检查选项
func (o *Options) Validate() error {
	if o.Pipelines == nil {
		return ErrNoPipelines
	}
	if o.Port < 0 || o.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalidOptions, o.Port)
	}
	if o.Backlog < 0 || o.MaxConnections < 0 || o.AcceptRate < 0 || o.AcceptBurst < 0 || o.ReadBufferSize < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalidOptions)
	}
	if o.IdleMode != types.IdleNone {
		if _, err := idle.New(o.IdleMode, o.IdleTimeout); err != nil {
			return err
		}
	}
	return nil
}

// HostPort 返回 host:port 形式的地址
func (o *Options) HostPort() string {
	return net.JoinHostPort(o.Address, strconv.Itoa(o.Port))
}

// BufferSize 返回读取块大小
func (o *Options) BufferSize() int {
	if o.ReadBufferSize > 0 {
		return o.ReadBufferSize
	}
	return DefaultReadBufferSize
}

// Label 返回日志使用的名称
func (o *Options) Label(kind types.TransportKind) string {
	if o.Name != "" {
		return o.Name
	}
	return kind.String() + "://" + o.HostPort()
}
