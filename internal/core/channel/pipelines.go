package channel

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/dep2p/go-channels/internal/core/pipeline"
	"github.com/dep2p/go-channels/pkg/buffer"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/middleware"
	"github.com/dep2p/go-channels/pkg/types"
)

// Pipelines 按一个 ChannelProfile 构建的输入/输出管道
//
// 管道在使用同一配置的所有通道之间共享，由创建者（通常是 Host）释放，
// 通道关闭时不会释放管道。
type Pipelines struct {
	Profile *middleware.ChannelProfile
	Input   *pipeline.Pipeline
	Output  *pipeline.Pipeline
}

// NewPipelines 校验配置并构建管道，输出管道末端追加传输终端
func NewPipelines(profile *middleware.ChannelProfile) (*Pipelines, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &Pipelines{
		Profile: profile,
		Input:   pipeline.NewInput(profile.Name, profile.InputAdapters, profile.Handlers),
		Output:  pipeline.NewOutput(profile.Name, profile.OutputAdapters, Terminals()),
	}, nil
}

// Close 释放两条管道持有的适配器
func (p *Pipelines) Close() error {
	return multierr.Combine(p.Input.Close(), p.Output.Close())
}

// ============================================================================
//                              传输终端
// ============================================================================

// Terminals 返回输出管道末端的传输终端
//
// 只有一个终端，按值的类型选择写法，每个值最多写出一次：
//
//   - []byte 或 *buffer.Buffer：原始字节
//   - *types.Message：消息传输按消息发送，其他传输发送负载字节
//   - string：消息传输按文本消息发送，其他传输发送 UTF-8 字节
//   - 以上类型的切片逐个写出
func Terminals() []middleware.Stage {
	return []middleware.Stage{
		middleware.HandlerFunc("transport", func(ctx pkgif.PipelineContext, v any) error {
			ch, err := owner(ctx)
			if err != nil {
				return err
			}
			return ch.emit(ctx, v)
		}),
	}
}

// emit 把一个输出值写到传输层
func (c *Channel) emit(ctx pkgif.PipelineContext, v any) error {
	switch x := v.(type) {
	case []byte:
		return c.send(ctx, x)
	case *buffer.Buffer:
		if x == nil {
			return nil
		}
		return c.send(ctx, remaining(x))
	case *types.Message:
		return c.sendMessage(ctx, x)
	case string:
		return c.sendMessage(ctx, types.NewTextMessage(x))
	case [][]byte:
		return emitEach(c, ctx, x)
	case []*types.Message:
		return emitEach(c, ctx, x)
	case []string:
		return emitEach(c, ctx, x)
	case []any:
		return emitEach(c, ctx, x)
	default:
		logger.Debug("传输终端不接受该值", append(c.logAttrs(), "type", fmt.Sprintf("%T", v))...)
		return nil
	}
}

func emitEach[E any](c *Channel, ctx pkgif.PipelineContext, items []E) error {
	for _, item := range items {
		if err := c.emit(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// remaining 取出缓冲区尚未读取的字节
func remaining(b *buffer.Buffer) []byte {
	if b.IsWritable() {
		return b.ToArray()
	}
	p, err := b.ReadBytes(b.ReadableBytes())
	if err != nil {
		return nil
	}
	return p
}

func owner(ctx pkgif.PipelineContext) (*Channel, error) {
	ch, ok := ctx.Channel().(*Channel)
	if !ok || ch == nil {
		return nil, fmt.Errorf("%w: %T", ErrNotChannel, ctx.Channel())
	}
	return ch, nil
}
