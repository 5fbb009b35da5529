package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/lib/log"
	"github.com/dep2p/go-channels/pkg/middleware"
	"github.com/dep2p/go-channels/pkg/types"
)

var logger = log.Logger("core/pipeline")

// Direction 管道方向
type Direction int

const (
	// Input 输入管道
	Input Direction = iota
	// Output 输出管道
	Output
)

// String 返回方向名称
func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// ============================================================================
//                              Pipeline 实现
// ============================================================================

// Pipeline 有序的适配器和处理器序列
type Pipeline struct {
	name      string
	direction Direction
	adapters  []middleware.Stage
	handlers  []middleware.Stage

	mu     sync.RWMutex
	closed bool
}

// NewInput 创建输入管道
func NewInput(name string, adapters, handlers []middleware.Stage) *Pipeline {
	return newPipeline(name, Input, adapters, handlers)
}

// NewOutput 创建输出管道，terminals 是最终把数据写到传输层的处理器
func NewOutput(name string, adapters, terminals []middleware.Stage) *Pipeline {
	return newPipeline(name, Output, adapters, terminals)
}

func newPipeline(name string, dir Direction, adapters, handlers []middleware.Stage) *Pipeline {
	return &Pipeline{
		name:      name,
		direction: dir,
		adapters:  compact(adapters),
		handlers:  compact(handlers),
	}
}

func compact(stages []middleware.Stage) []middleware.Stage {
	out := make([]middleware.Stage, 0, len(stages))
	for _, s := range stages {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Name 返回管道名称
func (p *Pipeline) Name() string {
	return p.name
}

// Direction 返回管道方向
func (p *Pipeline) Direction() Direction {
	return p.direction
}

// Execute 执行一次管道
//
// 正常结束返回 nil；中断时返回包装了 ErrInterrupted 的错误。
// 输入管道正常结束后，输出槽中的值按顺序通过 ch.Write 写回。
func (p *Pipeline) Execute(ctx context.Context, ch pkgif.Channel, v any) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	pc := newExecContext(ctx, ch, p.direction == Input)
	pc.Forward(v)

	// 适配器阶段
	for _, a := range p.adapters {
		items := pc.flush()
		if len(items) == 0 {
			return p.interrupt(pc, a, ErrNoData)
		}
		for _, item := range items {
			if _, err := a.Invoke(pc, item); err != nil {
				return p.interrupt(pc, a, err)
			}
		}
	}

	// 处理器阶段
	items := pc.flush()
	switch {
	case len(items) == 0 && len(p.adapters) > 0:
		// 最后一个适配器没有转发任何数据
		return p.interrupt(pc, p.adapters[len(p.adapters)-1], ErrNoData)
	case len(items) == 0 || len(p.handlers) == 0:
		logger.Debug("跳过处理器阶段", "pipeline", p.name, "direction", p.direction,
			"items", len(items), "handlers", len(p.handlers))
	default:
		for _, h := range p.handlers {
			for _, item := range items {
				rule, err := h.Invoke(pc, item)
				if err != nil {
					return p.interrupt(pc, h, err)
				}
				if rule == middleware.RuleReject && p.direction == Output {
					logger.Debug("传输终端不接受该值", "pipeline", p.name,
						"terminal", h.Name(), "type", fmt.Sprintf("%T", item))
				}
			}
		}
	}

	if pc.out != nil {
		p.flushOutput(pc)
	}
	return nil
}

// interrupt 记录中断并返回包装后的错误
func (p *Pipeline) interrupt(pc *execContext, stage middleware.Stage, cause error) error {
	err := fmt.Errorf("%w: %s %s: %w", ErrInterrupted, p.direction, stage.Name(), cause)
	attrs := []any{"pipeline", p.name, "direction", p.direction, "stage", stage.Name()}
	if pc.ch != nil {
		attrs = append(attrs, "channel", pc.ch.ID().ShortString())
	}

	if errors.Is(cause, ErrNoData) {
		logger.Debug("管道等待更多数据", attrs...)
		return err
	}

	logger.Warn("管道执行中断", append(attrs, "error", cause)...)
	pc.Notify(types.EventPipelineInterrupted, err)
	return err
}

// flushOutput 把输出槽中的值依次写回通道
func (p *Pipeline) flushOutput(pc *execContext) {
	if pc.ch == nil {
		return
	}
	pc.out.drain(func(v any) bool {
		err := pc.ch.Write(pc.ctx, v)
		if err == nil {
			return true
		}
		if errors.Is(err, types.ErrChannelClosed) {
			logger.Debug("通道已关闭，丢弃剩余输出", "pipeline", p.name,
				"channel", pc.ch.ID().ShortString())
			return false
		}
		logger.Warn("写回输出失败", "pipeline", p.name,
			"channel", pc.ch.ID().ShortString(), "error", err)
		return true
	})
}

// Close 释放管道持有的适配器（处理器不归管道所有）
func (p *Pipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var err error
	for _, a := range p.adapters {
		if cerr := a.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", a.Name(), cerr))
		}
	}
	return err
}
