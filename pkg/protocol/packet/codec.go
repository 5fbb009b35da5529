package packet

import (
	"github.com/dep2p/go-channels/pkg/buffer"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/middleware"
)

// Decoder 返回输入适配器
//
// 一次执行中解出所有完整的包，包内消息按顺序逐条转发。
// 格式错误时返回错误，管道中断，已读取的坏字节被丢弃。
func Decoder() middleware.Stage {
	return middleware.AdapterFunc("packet.decoder", func(ctx pkgif.AdapterContext, r *buffer.Buffer) error {
		for r.ReadableBytes() > 0 {
			p, ok, err := Decode(r)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			for _, m := range p.Messages {
				ctx.Forward(m)
			}
		}
		return nil
	})
}

// Encoder 返回把 *Packet 编码为字节的输出适配器
func Encoder() middleware.Stage {
	return middleware.AdapterFunc("packet.encoder", func(ctx pkgif.AdapterContext, p *Packet) error {
		data, err := Encode(p, channelOrder(ctx))
		if err != nil {
			return err
		}
		ctx.Forward(data)
		return nil
	})
}

// MessageEncoder 返回把单条 *Message 包装成包的输出适配器，结果交给后续阶段
func MessageEncoder() middleware.Stage {
	return middleware.AdapterFunc("packet.message", func(ctx pkgif.AdapterContext, m *Message) error {
		ctx.Forward(NewPacket(m))
		return nil
	})
}

// Encoders 返回按顺序排列的输出适配器：*Message → *Packet → []byte
func Encoders() []middleware.Stage {
	return []middleware.Stage{MessageEncoder(), Encoder()}
}

func channelOrder(ctx pkgif.PipelineContext) buffer.Endianness {
	if ch := ctx.Channel(); ch != nil {
		return ch.Endianness()
	}
	return buffer.BigEndian
}
