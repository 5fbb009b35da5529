package eventbus

import (
	"context"

	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"go.uber.org/fx"
)

// ============================================================================
// Fx 模块
// ============================================================================

// ListenerGroup fx 值组名称，组内的监听器在启动时注册
const ListenerGroup = "channel_listeners"

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Registry *Registry
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("eventbus",
		fx.Provide(ProvideRegistry),
		fx.Invoke(registerListeners),
	)
}

// ProvideRegistry 提供 Registry 实例
func ProvideRegistry() Result {
	return Result{
		Registry: NewRegistry(),
	}
}

// listenersInput 监听器注册输入参数
type listenersInput struct {
	fx.In

	LC        fx.Lifecycle
	Registry  *Registry
	Listeners []pkgif.ChannelEventListener `group:"channel_listeners"`
}

// registerListeners 注册值组中的监听器，停止时注销
func registerListeners(input listenersInput) {
	var unregister []func()
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			for _, l := range input.Listeners {
				unregister = append(unregister, input.Registry.Register(l))
			}
			logger.Debug("通道事件监听器已注册", "count", len(input.Listeners))
			return nil
		},
		OnStop: func(_ context.Context) error {
			for _, fn := range unregister {
				fn()
			}
			return nil
		},
	})
}

// ============================================================================
// 模块元信息
// ============================================================================

const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "eventbus"
	// Description 模块描述
	Description = "通道事件监听器注册表，同步分发并隔离监听器异常"
)
