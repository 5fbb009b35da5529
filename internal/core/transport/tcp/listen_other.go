//go:build !linux

package tcp

import (
	"context"
	"net"
)

// listen 创建 TCP 监听；非 Linux 平台使用系统默认积压队列
func listen(ctx context.Context, address string, backlog int) (net.Listener, error) {
	if backlog > 0 {
		logger.Debug("当前平台忽略 backlog 设置", "backlog", backlog)
	}
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", address)
}
