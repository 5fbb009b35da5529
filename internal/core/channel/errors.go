package channel

import (
	"errors"
	"io"
	"net"

	"github.com/dep2p/go-channels/pkg/types"
)

var (
	// ErrChannelClosed 通道已关闭
	ErrChannelClosed = types.ErrChannelClosed

	// ErrNoTransport 未提供传输句柄
	ErrNoTransport = errors.New("channel: transport is required")

	// ErrNoPipelines 未提供管道
	ErrNoPipelines = errors.New("channel: pipelines are required")

	// ErrNotChannel 终端阶段运行在非 Channel 的上下文中
	ErrNotChannel = errors.New("channel: terminal stage used outside a channel")
)

// IsNormalClose 判断错误是否属于正常断开
//
// 已关闭或已释放的套接字按正常断开处理，不记录为错误。
func IsNormalClose(err error) bool {
	return err == nil ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, ErrChannelClosed)
}
