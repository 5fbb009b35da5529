// Package transporttest 传输实现测试共用的辅助函数
package transporttest

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-channels/internal/core/channel"
	"github.com/dep2p/go-channels/pkg/buffer"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/middleware"
)

// EchoProfile 原样回写收到的字节
func EchoProfile() *middleware.ChannelProfile {
	return &middleware.ChannelProfile{
		Name: "echo",
		Handlers: []middleware.Stage{
			middleware.HandlerFunc("echo", func(ctx pkgif.PipelineContext, p []byte) error {
				ctx.Output().Push(p)
				return nil
			}),
		},
	}
}

// LineProfile 按 '\n' 切分，回写 "<line>!\n"
func LineProfile() *middleware.ChannelProfile {
	return &middleware.ChannelProfile{
		Name: "lines",
		InputAdapters: []middleware.Stage{
			middleware.AdapterFunc("lines", func(ctx pkgif.AdapterContext, b *buffer.Buffer) error {
				for {
					i, err := b.IndexOf('\n', buffer.CurrentOffset)
					if err != nil || i < 0 {
						return err
					}
					line, err := b.ReadBytes(i - b.Offset())
					if err != nil {
						return err
					}
					if err := b.SkipBytes(1); err != nil {
						return err
					}
					ctx.Forward(string(line))
				}
			}),
		},
		Handlers: []middleware.Stage{
			middleware.HandlerFunc("reply", func(ctx pkgif.PipelineContext, line string) error {
				ctx.Output().Push([]byte(line + "!\n"))
				return nil
			}),
		},
	}
}

// Pipelines 构建管道并在测试结束时释放
func Pipelines(t testing.TB, profile *middleware.ChannelProfile) *channel.Pipelines {
	t.Helper()
	pipes, err := channel.NewPipelines(profile)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pipes.Close() })
	return pipes
}

// ============================================================================
//                              Recorder
// ============================================================================

// Recorder 记录通道事件的监听器
type Recorder struct {
	pkgif.NoopEventListener

	mu      sync.Mutex
	created int
	closed  int
	events  []string
}

// ChannelCreated 实现 ChannelEventListener
func (r *Recorder) ChannelCreated(pkgif.Channel) {
	r.mu.Lock()
	r.created++
	r.mu.Unlock()
}

// ChannelClosed 实现 ChannelEventListener
func (r *Recorder) ChannelClosed(pkgif.Channel) {
	r.mu.Lock()
	r.closed++
	r.mu.Unlock()
}

// CustomEvent 实现 ChannelEventListener
func (r *Recorder) CustomEvent(_ pkgif.Channel, name string, _ any) {
	r.mu.Lock()
	r.events = append(r.events, name)
	r.mu.Unlock()
}

// Created 返回创建事件数
func (r *Recorder) Created() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created
}

// Closed 返回关闭事件数
func (r *Recorder) Closed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Events 返回自定义事件名称
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}
