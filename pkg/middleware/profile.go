package middleware

import (
	"fmt"

	"github.com/dep2p/go-channels/pkg/interfaces"
)

// ChannelProfile 命名的通道管道配置
//
// 列表顺序即执行顺序，运行时不会被修改。
// 同一个 ChannelProfile 可以被多个通道共享：阶段实例在通道之间共享，
// 服务则通过 ServiceFactory 为每个通道新建。
type ChannelProfile struct {
	// Name 配置名称，监听器和客户端按名称引用
	Name string

	// InputAdapters 输入适配器（按顺序）
	InputAdapters []Stage

	// Handlers 输入处理器（按顺序）
	Handlers []Stage

	// OutputAdapters 输出适配器（按顺序），之后是传输终端
	OutputAdapters []Stage

	// Services 附加到每个通道的服务工厂
	Services []interfaces.ServiceFactory
}

// Validate 检查配置
func (p *ChannelProfile) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil profile", ErrInvalidProfile)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidProfile)
	}
	if err := checkStages(p.Name, "input adapter", p.InputAdapters, KindAdapter); err != nil {
		return err
	}
	if err := checkStages(p.Name, "handler", p.Handlers, KindHandler); err != nil {
		return err
	}
	if err := checkStages(p.Name, "output adapter", p.OutputAdapters, KindAdapter); err != nil {
		return err
	}
	for i, f := range p.Services {
		if f == nil {
			return fmt.Errorf("%w: %s: service factory %d is nil", ErrInvalidProfile, p.Name, i)
		}
	}
	return nil
}

func checkStages(profile, role string, stages []Stage, want Kind) error {
	for i, s := range stages {
		if s == nil {
			return fmt.Errorf("%w: %s: %s %d is nil", ErrInvalidProfile, profile, role, i)
		}
		if s.Kind() != want {
			return fmt.Errorf("%w: %s: %s %d (%s) is a %s", ErrInvalidProfile, profile, role, i, s.Name(), s.Kind())
		}
	}
	return nil
}

// NewServices 为一个通道创建全部服务实例
//
// 某个工厂失败时返回已成功创建的服务和错误，由调用方决定如何处理。
func (p *ChannelProfile) NewServices() ([]interfaces.ChannelService, error) {
	services := make([]interfaces.ChannelService, 0, len(p.Services))
	for i, f := range p.Services {
		svc, err := f()
		if err != nil {
			return services, fmt.Errorf("%s: service %d: %w", p.Name, i, err)
		}
		if svc != nil {
			services = append(services, svc)
		}
	}
	return services, nil
}
