package middleware

import (
	"fmt"
	"io"

	"github.com/dep2p/go-channels/pkg/buffer"
	"github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/types"
)

// ============================================================================
//                              Stage 接口
// ============================================================================

// Stage 管道中的一个阶段
//
// 适配器和处理器共用同一个实现，只有拒绝策略不同。
type Stage interface {
	// Name 返回阶段名称（日志使用）
	Name() string

	// Kind 返回阶段类别
	Kind() Kind

	// Invoke 按分派规则执行阶段，返回实际采用的规则
	//
	// 阶段返回的错误或 panic 原样上报，由管道决定是否中断。
	Invoke(ctx interfaces.AdapterContext, v any) (Rule, error)

	// Close 释放实现了 io.Closer 的阶段实现
	Close() error
}

// ============================================================================
//                              构造函数
// ============================================================================

// Adapter 从 interfaces.Adapter[T] 构造适配器阶段
func Adapter[T any](a interfaces.Adapter[T]) Stage {
	if a == nil {
		return nil
	}
	return newStage[T](fmt.Sprintf("%T", a), KindAdapter, a, resolveSingle[T], a.Execute)
}

// AdapterFunc 从函数构造适配器阶段
func AdapterFunc[T any](name string, fn func(ctx interfaces.AdapterContext, data T) error) Stage {
	if fn == nil {
		return nil
	}
	return newStage[T](name, KindAdapter, nil, resolveSingle[T], fn)
}

// SequenceAdapter 构造期望 []E 的适配器阶段，单个 E 会被包装后调用
func SequenceAdapter[E any](a interfaces.Adapter[[]E]) Stage {
	if a == nil {
		return nil
	}
	return newStage[[]E](fmt.Sprintf("%T", a), KindAdapter, a, resolveSequence[E], a.Execute)
}

// SequenceAdapterFunc 从函数构造期望 []E 的适配器阶段
func SequenceAdapterFunc[E any](name string, fn func(ctx interfaces.AdapterContext, data []E) error) Stage {
	if fn == nil {
		return nil
	}
	return newStage[[]E](name, KindAdapter, nil, resolveSequence[E], fn)
}

// Handler 从 interfaces.Handler[T] 构造处理器阶段
func Handler[T any](h interfaces.Handler[T]) Stage {
	if h == nil {
		return nil
	}
	exec := func(ctx interfaces.AdapterContext, data T) error {
		return h.Execute(ctx, data)
	}
	return newStage[T](fmt.Sprintf("%T", h), KindHandler, h, resolveSingle[T], exec)
}

// HandlerFunc 从函数构造处理器阶段
func HandlerFunc[T any](name string, fn func(ctx interfaces.PipelineContext, data T) error) Stage {
	if fn == nil {
		return nil
	}
	exec := func(ctx interfaces.AdapterContext, data T) error {
		return fn(ctx, data)
	}
	return newStage[T](name, KindHandler, nil, resolveSingle[T], exec)
}

// SequenceHandler 构造期望 []E 的处理器阶段
func SequenceHandler[E any](h interfaces.Handler[[]E]) Stage {
	if h == nil {
		return nil
	}
	exec := func(ctx interfaces.AdapterContext, data []E) error {
		return h.Execute(ctx, data)
	}
	return newStage[[]E](fmt.Sprintf("%T", h), KindHandler, h, resolveSequence[E], exec)
}

// SequenceHandlerFunc 从函数构造期望 []E 的处理器阶段
func SequenceHandlerFunc[E any](name string, fn func(ctx interfaces.PipelineContext, data []E) error) Stage {
	if fn == nil {
		return nil
	}
	exec := func(ctx interfaces.AdapterContext, data []E) error {
		return fn(ctx, data)
	}
	return newStage[[]E](name, KindHandler, nil, resolveSequence[E], exec)
}

// ============================================================================
//                              stage 实现
// ============================================================================

type stage[T any] struct {
	name    string
	kind    Kind
	impl    any
	resolve resolver[T]
	exec    func(ctx interfaces.AdapterContext, data T) error

	// 构造时确定：转换得到的 *buffer.Buffer / []byte / string 能否被接受
	acceptsBuffer bool
	acceptsBytes  bool
	acceptsText   bool
}

var _ Stage = (*stage[int])(nil)

func newStage[T any](name string, kind Kind, impl any, resolve resolver[T], exec func(interfaces.AdapterContext, T) error) *stage[T] {
	return &stage[T]{
		name:          name,
		kind:          kind,
		impl:          impl,
		resolve:       resolve,
		exec:          exec,
		acceptsBuffer: accepts(resolve, (*buffer.Buffer)(nil)),
		acceptsBytes:  accepts(resolve, []byte(nil)),
		acceptsText:   accepts(resolve, ""),
	}
}

// Name 返回阶段名称
func (s *stage[T]) Name() string {
	return s.name
}

// Kind 返回阶段类别
func (s *stage[T]) Kind() Kind {
	return s.kind
}

// Invoke 按分派规则执行阶段
func (s *stage[T]) Invoke(ctx interfaces.AdapterContext, v any) (Rule, error) {
	if v == nil {
		return RuleSkip, nil
	}

	rule, items := s.resolve(v)
	if rule == RuleReject {
		// 转换最多一次
		if converted, ok := s.convert(ctx, v); ok {
			if r, convItems := s.resolve(converted); r != RuleReject {
				rule, items = RuleConvert, convItems
			}
		}
	}

	if rule == RuleReject {
		if s.kind == KindAdapter {
			ctx.Forward(v)
		}
		return RuleReject, nil
	}

	for _, item := range items {
		if err := s.call(ctx, item); err != nil {
			return rule, err
		}
	}
	return rule, nil
}

// Close 释放阶段实现
func (s *stage[T]) Close() error {
	if c, ok := s.impl.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// String 返回 "kind:name"
func (s *stage[T]) String() string {
	return s.kind.String() + ":" + s.name
}

func (s *stage[T]) call(ctx interfaces.AdapterContext, data T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrStagePanic, s.name, r)
		}
	}()
	return s.exec(ctx, data)
}

// convert 内置转换：[]byte 与 *buffer.Buffer 互转，完整消息取出负载
func (s *stage[T]) convert(ctx interfaces.AdapterContext, v any) (any, bool) {
	switch x := v.(type) {
	case []byte:
		if !s.acceptsBuffer {
			return nil, false
		}
		return buffer.NewReadable(x, endiannessOf(ctx)), true
	case *buffer.Buffer:
		if !s.acceptsBytes || x == nil {
			return nil, false
		}
		return drain(x), true
	case *types.Message:
		return s.unwrap(x)
	default:
		return nil, false
	}
}

// unwrap 按缓冲区、字节、文本的顺序选择阶段能接受的消息负载
func (s *stage[T]) unwrap(m *types.Message) (any, bool) {
	if m == nil || m.Payload == nil {
		return nil, false
	}
	switch {
	case s.acceptsBuffer:
		return m.Payload, true
	case s.acceptsBytes:
		return drain(m.Payload), true
	case s.acceptsText && m.Type == types.MessageText:
		return string(drain(m.Payload)), true
	default:
		return nil, false
	}
}
