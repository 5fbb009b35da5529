package channel

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
)

// ============================================================================
//                              关闭
// ============================================================================

// Close 关闭通道
//
// 只有第一次调用生效：标记关闭、通知 ChannelClosed、逐个停止并释放服务、
// 关闭传输句柄、执行 OnClose 回调。单个服务失败不影响其他服务，
// 所有失败合并后返回。
func (c *Channel) Close(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c.cancel()
	close(c.done)

	logger.Info("通道已关闭", c.logAttrs()...)
	c.listeners.ChannelClosed(c)

	var err error
	for _, svc := range c.services {
		if serr := c.stopService(ctx, svc); serr != nil {
			logger.Error("停止通道服务失败", append(c.logAttrs(), "service", serviceName(svc), "error", serr)...)
			err = multierr.Append(err, serr)
		}
	}
	for _, svc := range c.services {
		if serr := c.disposeService(svc); serr != nil {
			logger.Error("释放通道服务失败", append(c.logAttrs(), "service", serviceName(svc), "error", serr)...)
			err = multierr.Append(err, serr)
		}
	}

	if terr := c.transport.Close(); terr != nil && !IsNormalClose(terr) {
		logger.Debug("关闭传输句柄出错", append(c.logAttrs(), "error", terr)...)
		err = multierr.Append(err, terr)
	}

	c.hooksMu.Lock()
	hooks := c.onClose
	c.onClose = nil
	c.hooksMu.Unlock()
	for _, fn := range hooks {
		fn()
	}

	return err
}

func (c *Channel) stopService(ctx context.Context, svc pkgif.ChannelService) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	return svc.Stop(ctx)
}

func (c *Channel) disposeService(svc pkgif.ChannelService) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	return svc.Close()
}

func serviceName(svc pkgif.ChannelService) string {
	if s, ok := svc.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", svc)
}

func panicError(r any) error {
	return fmt.Errorf("panic: %v", r)
}
