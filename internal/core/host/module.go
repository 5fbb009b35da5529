package host

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-channels/config"
	"github.com/dep2p/go-channels/internal/core/eventbus"
	"github.com/dep2p/go-channels/pkg/middleware"
)

// ProfileGroup fx 值组名称，组内的 ChannelProfile 注册到 Host
const ProfileGroup = "channel_profiles"

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config     `optional:"true"`
	Registry   *eventbus.Registry `optional:"true"`
	Clock      clock.Clock        `optional:"true"`

	Profiles []*middleware.ChannelProfile `group:"channel_profiles"`
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Host *Host
}

// ProvideHost 提供 Host 服务
func ProvideHost(input ModuleInput) (ModuleOutput, error) {
	opts := []Option{
		WithConfig(input.UnifiedCfg),
		WithProfiles(input.Profiles...),
		WithClock(input.Clock),
	}
	if input.Registry != nil {
		opts = append(opts, WithEventListener(input.Registry))
	}

	h, err := New(opts...)
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{Host: h}, nil
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("host",
		fx.Provide(ProvideHost),
		fx.Invoke(registerLifecycle),
	)
}

// lifecycleInput Lifecycle 注册输入
type lifecycleInput struct {
	fx.In

	LC   fx.Lifecycle
	Host *Host
}

// registerLifecycle 注册生命周期钩子
//
// eventbus 的监听器注册钩子先于本钩子执行，通道创建时监听器已就绪。
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return input.Host.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			return input.Host.Close()
		},
	})
}
