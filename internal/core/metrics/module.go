package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-channels/config"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
)

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config         `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

// Result Metrics 模块输出
//
// 禁用时 Collector 为 nil，不加入监听器组。
type Result struct {
	fx.Out

	Collector *Collector
	Listeners []pkgif.ChannelEventListener `group:"channel_listeners,flatten"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideCollector),
	)
}

// ProvideCollector 按配置创建 Collector 并注册到 Registerer
//
// 未提供 Registerer 时使用 prometheus.DefaultRegisterer。
func ProvideCollector(p Params) (Result, error) {
	cfg := config.DefaultMetricsConfig()
	if p.UnifiedCfg != nil {
		cfg = p.UnifiedCfg.Metrics
	}
	if !cfg.Enabled {
		logger.Debug("通道指标已禁用")
		return Result{}, nil
	}

	c := NewCollector(cfg.Namespace)
	reg := p.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := c.Register(reg); err != nil {
		return Result{}, err
	}
	logger.Debug("通道指标已注册", "namespace", cfg.Namespace)
	return Result{
		Collector: c,
		Listeners: []pkgif.ChannelEventListener{c},
	}, nil
}
