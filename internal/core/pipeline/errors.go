package pipeline

import "errors"

var (
	// ErrInterrupted 管道执行被中断
	ErrInterrupted = errors.New("pipeline interrupted")

	// ErrNoData 适配器没有转发任何数据
	ErrNoData = errors.New("no data forwarded")

	// ErrClosed 管道已释放
	ErrClosed = errors.New("pipeline closed")
)
