package channel

import (
	"context"
	"errors"
	"fmt"

	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/types"
)

// ============================================================================
//                              接收
// ============================================================================

// Receive 处理一次从传输层收到的字节
//
// 数据追加到通道缓冲区，以只读快照执行输入管道；
// 执行结束后丢弃已消费的字节，未消费的尾部保留到下一次接收。
// 同一通道的多次调用严格串行。返回管道执行结果，管道中断不会关闭通道。
func (c *Channel) Receive(ctx context.Context, data []byte) error {
	if c.IsClosed() {
		return ErrChannelClosed
	}

	c.recvMu.Lock()
	defer c.recvMu.Unlock()

	c.touch(&c.lastReceived)
	c.listeners.DataReceived(c, data)

	if err := c.buf.WriteBytes(data); err != nil {
		return err
	}
	snapshot := c.buf.MakeReadOnly()

	err := c.pipes.Input.Execute(ctx, c, snapshot)

	if derr := snapshot.DiscardReadBytes(); derr != nil {
		logger.Warn("整理接收缓冲区失败", append(c.logAttrs(), "error", derr)...)
	}
	c.buf = snapshot.MakeWritable()
	return err
}

// ReceiveMessage 处理一条完整的消息（面向消息的传输使用）
//
// 消息不经过通道缓冲区，直接作为输入管道的初始值。
func (c *Channel) ReceiveMessage(ctx context.Context, msg *types.Message) error {
	if c.IsClosed() {
		return ErrChannelClosed
	}
	if msg == nil {
		return nil
	}

	c.recvMu.Lock()
	defer c.recvMu.Unlock()

	c.touch(&c.lastReceived)
	c.listeners.DataReceived(c, msg.Bytes())
	return c.pipes.Input.Execute(ctx, c, msg)
}

// Pending 返回缓冲区中尚未被消费的字节数
func (c *Channel) Pending() int {
	c.recvMu.Lock()
	defer c.recvMu.Unlock()
	return c.buf.Len()
}

// ============================================================================
//                              写出
// ============================================================================

// writerKey 标记 context 正处于某个通道的输出管道中
type writerKey struct{}

// Write 把对象送入输出管道
//
// 同一通道的写入串行执行。输出阶段内用 ctx.Context() 再次写入同一通道时
// 在当前写入中直接执行，不会等待自己持有的锁；使用其他 context 会死锁。
func (c *Channel) Write(ctx context.Context, v any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.IsClosed() {
		logger.Debug("拒绝写入已关闭的通道", c.logAttrs()...)
		return ErrChannelClosed
	}
	if w, _ := ctx.Value(writerKey{}).(*Channel); w == c {
		return c.pipes.Output.Execute(ctx, c, v)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.IsClosed() {
		return ErrChannelClosed
	}
	return c.pipes.Output.Execute(context.WithValue(ctx, writerKey{}, c), c, v)
}

// send 由传输终端调用，写出原始字节
func (c *Channel) send(ctx pkgif.PipelineContext, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	n, err := c.transport.Send(ctx.Context(), p)
	if err != nil {
		return c.sendFailed(err)
	}
	c.sent(n)
	return nil
}

// sendMessage 由传输终端调用，写出一条消息
func (c *Channel) sendMessage(ctx pkgif.PipelineContext, m *types.Message) error {
	if m == nil {
		return nil
	}
	mt, ok := c.transport.(pkgif.MessageTransport)
	if !ok {
		return c.send(ctx, m.Bytes())
	}
	n, err := mt.SendMessage(ctx.Context(), m)
	if err != nil {
		return c.sendFailed(err)
	}
	c.sent(n)
	return nil
}

func (c *Channel) sent(n int) {
	c.touch(&c.lastSent)
	c.listeners.DataSent(c, n)
}

// sendFailed 发送失败时关闭通道
func (c *Channel) sendFailed(err error) error {
	if IsNormalClose(err) {
		logger.Debug("发送时连接已断开", append(c.logAttrs(), "error", err)...)
	} else {
		logger.Warn("发送失败，关闭通道", append(c.logAttrs(), "error", err)...)
	}
	if cerr := c.Close(context.Background()); cerr != nil {
		logger.Debug("关闭通道出错", append(c.logAttrs(), "error", cerr)...)
	}
	if errors.Is(err, ErrChannelClosed) {
		return err
	}
	return fmt.Errorf("send: %w", err)
}
