package pipeline

import (
	"context"

	"github.com/eapache/queue"

	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
)

// notifier 通道可选实现，用于广播自定义事件
type notifier interface {
	Notify(name string, data any)
}

// execContext 单次执行的上下文
type execContext struct {
	ctx       context.Context
	ch        pkgif.Channel
	out       *outputSink
	forwarded []any
}

var _ pkgif.AdapterContext = (*execContext)(nil)

func newExecContext(ctx context.Context, ch pkgif.Channel, withOutput bool) *execContext {
	c := &execContext{ctx: ctx, ch: ch}
	if withOutput {
		c.out = &outputSink{q: queue.New()}
	}
	return c
}

// Context 返回执行使用的 context
func (c *execContext) Context() context.Context {
	return c.ctx
}

// Channel 返回所属通道
func (c *execContext) Channel() pkgif.Channel {
	return c.ch
}

// Output 返回输出槽，输出管道中为 nil
func (c *execContext) Output() pkgif.OutputSink {
	if c.out == nil {
		return nil
	}
	return c.out
}

// Notify 广播自定义事件
func (c *execContext) Notify(name string, data any) {
	if n, ok := c.ch.(notifier); ok {
		n.Notify(name, data)
	}
}

// Forward 把值转发给下一阶段
func (c *execContext) Forward(v any) {
	c.forwarded = append(c.forwarded, v)
}

// flush 取出并清空转发列表
func (c *execContext) flush() []any {
	items := c.forwarded
	c.forwarded = nil
	return items
}

// ============================================================================
//                              输出槽
// ============================================================================

// outputSink 按写入顺序保存待写回的值
type outputSink struct {
	q *queue.Queue
}

// Push 追加待写出的值
func (s *outputSink) Push(v any) {
	if v == nil {
		return
	}
	s.q.Add(v)
}

// Len 返回待写出的数量
func (s *outputSink) Len() int {
	return s.q.Length()
}

// drain 按 FIFO 顺序取出所有值，fn 返回 false 时停止并丢弃剩余值
func (s *outputSink) drain(fn func(v any) bool) {
	for s.q.Length() > 0 {
		if !fn(s.q.Remove()) {
			for s.q.Length() > 0 {
				s.q.Remove()
			}
			return
		}
	}
}
