package interfaces

import "context"

// ChannelService 附加在通道上的长期运行服务
//
// 每个通道持有独立的服务实例，服务只通过 Start 获得通道引用，
// 不拥有通道，也不延长通道生命周期。
// 每个通道生命周期内 Start 和 Stop 各调用一次。
type ChannelService interface {
	// Start 启动服务
	Start(ctx context.Context, ch Channel) error

	// Stop 停止服务
	Stop(ctx context.Context) error

	// Close 释放服务资源
	Close() error
}

// ServiceFactory 为每个新通道创建服务实例
type ServiceFactory func() (ChannelService, error)
