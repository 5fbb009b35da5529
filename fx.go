package channels

import (
	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-channels/config"
	"github.com/dep2p/go-channels/internal/core/eventbus"
	"github.com/dep2p/go-channels/internal/core/host"
	"github.com/dep2p/go-channels/internal/core/metrics"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/lib/log"
	"github.com/dep2p/go-channels/pkg/middleware"
)

var fxLogger = log.Logger("channels/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置注入
//  2. EventBus：监听器注册表，OnStart 时注册值组中的监听器
//  3. Metrics：Prometheus 监听器（配置禁用时不提供）
//  4. Host：按配置创建监听器和客户端，OnStart 时启动
//
// EventBus 必须在 Host 之前加载，保证通道创建时监听器已注册。
func buildFxApp(o *options, cfg *config.Config, h *Host) *fx.App {
	modules := []fx.Option{
		fx.Supply(cfg),
		eventbus.Module(),
		metrics.Module(),
		host.Module(),
	}

	// ════════════════════════════════════════════════════════════════════════
	// 用户组件注入值组
	// ════════════════════════════════════════════════════════════════════════
	for _, p := range o.profiles {
		modules = append(modules, fx.Provide(
			fx.Annotate(supplyProfile(p), fx.ResultTags(`group:"`+host.ProfileGroup+`"`)),
		))
	}
	for _, l := range o.eventListeners {
		modules = append(modules, fx.Provide(
			fx.Annotate(supplyListener(l), fx.ResultTags(`group:"`+eventbus.ListenerGroup+`"`)),
		))
	}
	if o.registerer != nil {
		reg := o.registerer
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return reg }))
	}
	if o.clock != nil {
		clk := o.clock
		modules = append(modules, fx.Provide(func() clock.Clock { return clk }))
	}
	modules = append(modules, o.userFxOptions...)

	// ════════════════════════════════════════════════════════════════════════
	// 组件注入
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.Invoke(injectComponents(h)))

	modules = append(modules, fx.WithLogger(func() fxevent.Logger {
		if o.fxLogging {
			if l, err := zap.NewDevelopment(); err == nil {
				return &fxevent.ZapLogger{Logger: l}
			}
			fxLogger.Warn("创建 zap 日志失败，禁用 fx 日志")
		}
		// 禁用 Fx 日志输出（避免干扰用户日志）
		return &fxevent.ZapLogger{Logger: zap.NewNop()}
	}))

	return fx.New(modules...)
}

func supplyProfile(p *middleware.ChannelProfile) func() *middleware.ChannelProfile {
	return func() *middleware.ChannelProfile { return p }
}

func supplyListener(l pkgif.ChannelEventListener) func() pkgif.ChannelEventListener {
	return func() pkgif.ChannelEventListener { return l }
}

// injectParams 组件注入参数
type injectParams struct {
	fx.In

	Host     *host.Host
	Registry *eventbus.Registry
	Metrics  *metrics.Collector `optional:"true"`
}

// injectComponents 把装配好的组件交给 Host 门面
func injectComponents(h *Host) interface{} {
	return func(p injectParams) {
		h.host = p.Host
		h.registry = p.Registry
		h.metrics = p.Metrics
	}
}
