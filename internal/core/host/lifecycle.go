package host

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-channels/internal/core/channel"
)

// Start 绑定全部监听器并启动接入循环和重连循环
//
// 任一监听器绑定失败时关闭已创建的部分并返回错误。
// ctx 只用于绑定阶段，循环的生命周期由 Close 控制。
func (h *Host) Start(ctx context.Context) error {
	if h.closed.Load() {
		return ErrHostClosed
	}
	if !h.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	logger.Info("正在启动 Host", "listeners", len(h.cfg.Listeners), "clients", len(h.cfg.Clients))

	if err := h.open(ctx); err != nil {
		logger.Error("启动 Host 失败", "error", err)
		close(h.done)
		return multierr.Append(err, h.release())
	}

	runCtx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(runCtx)
	h.cancel = cancel
	h.group = g

	for _, l := range h.Listeners() {
		g.Go(func() error {
			if err := l.Serve(gctx); err != nil {
				return fmt.Errorf("listener %s: %w", l.Name(), err)
			}
			return nil
		})
	}
	for _, c := range h.Clients() {
		g.Go(func() error {
			return c.loop.Run(gctx)
		})
	}

	go func() {
		h.err = g.Wait()
		if h.err != nil {
			logger.Error("Host 循环异常退出", "error", h.err)
		}
		close(h.done)
	}()

	logger.Info("Host 启动成功")
	return nil
}

// open 创建监听器和客户端
func (h *Host) open(ctx context.Context) error {
	for _, lc := range h.cfg.Listeners {
		pipes, err := h.pipelinesFor(lc.Profile)
		if err != nil {
			return err
		}
		l, err := h.newListener(ctx, lc, pipes)
		if err != nil {
			return fmt.Errorf("listener %s: %w", lc.Name, err)
		}
		h.mu.Lock()
		h.listeners = append(h.listeners, l)
		h.mu.Unlock()
	}

	for _, cc := range h.cfg.Clients {
		pipes, err := h.pipelinesFor(cc.Profile)
		if err != nil {
			return err
		}
		c, err := h.newClient(cc, pipes)
		if err != nil {
			return fmt.Errorf("client %s: %w", cc.Name, err)
		}
		h.mu.Lock()
		h.clients = append(h.clients, c)
		h.mu.Unlock()
	}
	return nil
}

// Wait 等待全部循环退出
func (h *Host) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close 停止全部循环，关闭监听器和客户端通道，释放管道（幂等）
func (h *Host) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	logger.Info("正在关闭 Host")

	if h.started.CompareAndSwap(false, true) {
		close(h.done)
	} else if h.cancel != nil {
		h.cancel()
		<-h.done
	}
	err := h.release()

	logger.Info("Host 已关闭")
	return err
}

// release 关闭监听器并释放管道
//
// 客户端通道由重连循环在 ctx 取消时关闭。
func (h *Host) release() error {
	h.mu.Lock()
	listeners := h.listeners
	pipelines := h.pipelines
	h.listeners = nil
	h.pipelines = make(map[string]*channel.Pipelines)
	h.mu.Unlock()

	var err error
	for _, l := range listeners {
		err = multierr.Append(err, l.Close())
	}
	for name, p := range pipelines {
		if perr := p.Close(); perr != nil {
			err = multierr.Append(err, fmt.Errorf("pipelines %s: %w", name, perr))
		}
	}
	return err
}
