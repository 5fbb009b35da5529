package main

import (
	"io"
	"strings"

	"github.com/dep2p/go-channels/internal/core/idle"
	"github.com/dep2p/go-channels/pkg/buffer"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/middleware"
	"github.com/dep2p/go-channels/pkg/types"
)

// echoProfile 原样回写收到的字节
func echoProfile() *middleware.ChannelProfile {
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

// linesProfile 按行切分，每行回复大写形式（文本消息的内容同样按行处理）
func linesProfile() *middleware.ChannelProfile {
	return &middleware.ChannelProfile{
		Name:          "lines",
		InputAdapters: []middleware.Stage{lineSplitter()},
		Handlers: []middleware.Stage{
			middleware.HandlerFunc("upper", func(ctx pkgif.PipelineContext, line string) error {
				ctx.Output().Push(strings.ToUpper(line) + "\n")
				return nil
			}),
		},
		Services: []pkgif.ServiceFactory{
			idle.Factory(types.IdleAuto, 0),
		},
	}
}

// printProfile 把收到的字节或文本消息内容写到 w（客户端使用）
func printProfile(w io.Writer) *middleware.ChannelProfile {
	return &middleware.ChannelProfile{
		Name: "print",
		Handlers: []middleware.Stage{
			middleware.HandlerFunc("print", func(_ pkgif.PipelineContext, p []byte) error {
				_, err := w.Write(p)
				return err
			}),
		},
	}
}

// lineSplitter 从缓冲区中取出以 '\n' 结尾的行（去掉 '\r'）
func lineSplitter() middleware.Stage {
	return middleware.AdapterFunc("lines", func(ctx pkgif.AdapterContext, b *buffer.Buffer) error {
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
			ctx.Forward(strings.TrimSuffix(string(line), "\r"))
		}
	})
}
