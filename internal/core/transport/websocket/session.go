package websocket

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/websocket"

	"github.com/dep2p/go-channels/internal/core/channel"
	"github.com/dep2p/go-channels/pkg/buffer"
	"github.com/dep2p/go-channels/pkg/types"
)

// receiveLoop 读取消息直到连接断开或通道关闭
//
// 每条消息按 chunkSize 分块读取，分块经重组后整条交给通道。
func receiveLoop(ch *channel.Channel, c *Conn, chunkSize int) {
	asm := newReassembler(ch.Endianness())
	chunk := make([]byte, chunkSize)

	for {
		messageType, r, err := c.ws.NextReader()
		if err != nil {
			readFailed(ch, err)
			return
		}

		kind := types.MessageBinary
		if messageType == websocket.TextMessage {
			kind = types.MessageText
		}

		for {
			n, rerr := r.Read(chunk)
			if rerr != nil && !errors.Is(rerr, io.EOF) {
				readFailed(ch, rerr)
				return
			}
			end := errors.Is(rerr, io.EOF)
			if n == 0 && !end {
				continue
			}

			msg, err := asm.add(&types.Message{
				Type:         kind,
				Payload:      buffer.NewReadable(chunk[:n], ch.Endianness()),
				EndOfMessage: end,
			})
			if err != nil {
				readFailed(ch, err)
				return
			}
			if msg != nil && !deliver(ch, msg) {
				return
			}
			if end {
				break
			}
		}
	}
}

// deliver 把完整消息交给通道，通道已关闭时返回 false
func deliver(ch *channel.Channel, msg *types.Message) bool {
	var err error
	switch msg.Type {
	case types.MessageText:
		err = ch.ReceiveMessage(ch.Context(), msg)
	default:
		if msg.Payload.Len() == 0 {
			return true
		}
		err = ch.Receive(ch.Context(), msg.Payload.ToArray())
	}
	return err == nil || !ch.IsClosed()
}

// readFailed 读取结束时关闭通道
func readFailed(ch *channel.Channel, err error) {
	switch {
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		logger.Debug("对端关闭连接", "channel", ch.String(), "error", err)
	case channel.IsNormalClose(err) || ch.IsClosed():
		logger.Debug("连接已断开", "channel", ch.String(), "error", err)
	default:
		logger.Warn("读取失败，关闭通道", "channel", ch.String(), "error", err)
	}
	if cerr := ch.Close(context.Background()); cerr != nil {
		logger.Debug("关闭通道出错", "channel", ch.String(), "error", cerr)
	}
}

// monitor 周期性发送 ping，失败时关闭通道
func monitor(ch *channel.Channel, c *Conn, interval time.Duration, clk clock.Clock) {
	if interval <= 0 {
		return
	}
	ticker := clk.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ch.Done():
			return
		case <-ticker.C:
			if err := c.Ping(); err != nil {
				if !ch.IsClosed() {
					logger.Warn("心跳失败，关闭通道", "channel", ch.String(), "error", err)
				}
				_ = ch.Close(context.Background())
				return
			}
		}
	}
}

// run 启动心跳并在当前 goroutine 运行接收循环
func run(ch *channel.Channel, c *Conn, opts *Options) {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	go monitor(ch, c, opts.pingInterval(), clk)
	receiveLoop(ch, c, opts.BufferSize())
}
