// Package eventbus 实现通道事件监听器注册表
//
// Registry 持有一个普通的监听器列表，同步地逐个通知，
// 每个监听器的 panic 单独恢复并记录日志，不会影响其他监听器和通道逻辑。
//
// 通道在构造时显式获得注册表引用，而不是通过全局查找。
//
//	reg := eventbus.NewRegistry()
//	reg.Register(metricsCollector)
//	ch := channel.New(channel.Config{Listeners: reg, ...})
//
// 通过 fx 使用时，向 ListenerGroup 组提供监听器即可自动注册：
//
//	fx.Provide(fx.Annotate(newAuditListener,
//	    fx.As(new(interfaces.ChannelEventListener)),
//	    fx.ResultTags(`group:"channel_listeners"`)))
package eventbus
