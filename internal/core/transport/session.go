package transport

import (
	"context"
	"io"

	"go.uber.org/multierr"

	"github.com/dep2p/go-channels/internal/core/channel"
	"github.com/dep2p/go-channels/internal/core/idle"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/types"
)

// NewChannel 为一条新连接构造通道
//
// 按配置为通道新建服务实例，空闲检测启用时追加 idle 服务。
// 返回的通道尚未初始化，调用方在登记完成后调用 Initialize。
// 构造失败时已创建的服务会被释放，传输句柄由调用方关闭。
func NewChannel(ctx context.Context, opts *Options, tr pkgif.Transport) (*channel.Channel, error) {
	if opts.Pipelines == nil {
		return nil, ErrNoPipelines
	}

	var services []pkgif.ChannelService
	if opts.Pipelines.Profile != nil {
		created, err := opts.Pipelines.Profile.NewServices()
		if err != nil {
			return nil, multierr.Append(err, closeServices(created))
		}
		services = created
	}

	if opts.IdleMode != types.IdleNone {
		svc, err := idle.New(opts.IdleMode, opts.IdleTimeout, idle.WithClock(opts.Clock))
		if err != nil {
			return nil, multierr.Append(err, closeServices(services))
		}
		services = append(services, svc)
	}

	ch, err := channel.New(channel.Config{
		Transport:  tr,
		Pipelines:  opts.Pipelines,
		Endianness: opts.Endianness,
		Services:   services,
		Listeners:  opts.Listeners,
		Clock:      opts.Clock,
		Context:    ctx,
	})
	if err != nil {
		return nil, multierr.Append(err, closeServices(services))
	}
	return ch, nil
}

func closeServices(services []pkgif.ChannelService) error {
	var errs error
	for _, svc := range services {
		errs = multierr.Append(errs, svc.Close())
	}
	return errs
}

// ReceiveLoop 从字节流读取数据并交给通道，直到连接断开或通道关闭
//
// 读取以 size 为块大小；每块数据拷贝后送入 Receive。
// 读取出错时关闭通道，正常断开只记录调试日志。
func ReceiveLoop(ch *channel.Channel, r io.Reader, size int) {
	buf := make([]byte, size)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			if rerr := ch.Receive(ch.Context(), data); rerr != nil && ch.IsClosed() {
				return
			}
		}
		if err != nil {
			if channel.IsNormalClose(err) || ch.IsClosed() {
				logger.Debug("连接已断开", "channel", ch.String(), "error", err)
			} else {
				logger.Warn("读取失败，关闭通道", "channel", ch.String(), "error", err)
			}
			if cerr := ch.Close(context.Background()); cerr != nil {
				logger.Debug("关闭通道出错", "channel", ch.String(), "error", cerr)
			}
			return
		}
	}
}
