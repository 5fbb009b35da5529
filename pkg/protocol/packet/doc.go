// Package packet 长度前缀的二进制包编解码适配器
//
// 包格式：
//
//	HEAD(1) | count uint32 | count × Message | TAIL(1)
//
// 每条 Message：
//
//	string ID | string ContentType | contentLength uint16 | content | string Signature
//
// string 字段编码为 1 字节长度加 UTF-8 字节，最长 255 字节，空串编码为单个 0。
// 多字节整数使用通道的字节序。
//
// Decoder 是输入适配器：从通道缓冲区中取出完整的包，逐条转发 *Message；
// 包不完整时回退已读取的字节，等待下一次接收。Encoder 是输出适配器，
// 把 *Packet 或 *Message 编码为字节。
//
//	profile := &middleware.ChannelProfile{
//	    Name:           "packets",
//	    InputAdapters:  []middleware.Stage{packet.Decoder()},
//	    Handlers:       []middleware.Stage{handleMessage},
//	    OutputAdapters: packet.Encoders(),
//	}
package packet
