package interfaces

import "context"

// OutputSink 处理器写回响应的输出槽
//
// 管道正常结束后按写入顺序把其中的值写到通道。
type OutputSink interface {
	// Push 追加一个待写出的值，nil 被忽略
	Push(v any)

	// Len 返回待写出的数量
	Len() int
}

// PipelineContext 单次管道执行的上下文
//
// 上下文只在一次执行内有效，不要在执行结束后保存。
type PipelineContext interface {
	// Context 返回执行使用的 context
	Context() context.Context

	// Channel 返回所属通道
	Channel() Channel

	// Output 返回输出槽（输出管道中为 nil）
	Output() OutputSink

	// Notify 向通道事件监听器广播自定义事件
	Notify(name string, data any)
}

// AdapterContext 适配器阶段的上下文，额外提供转发能力
type AdapterContext interface {
	PipelineContext

	// Forward 把值转发给下一阶段，可调用零次或多次
	Forward(v any)
}

// Adapter 处理类型 T 的适配器
type Adapter[T any] interface {
	Execute(ctx AdapterContext, data T) error
}

// Handler 处理类型 T 的处理器
type Handler[T any] interface {
	Execute(ctx PipelineContext, data T) error
}
