// Package transport 提供各传输实现共用的监听器基础设施
//
// TCP、UDP、WebSocket 三种传输都建立在这里的公共部分之上：
//
//   - Options：地址、积压队列、最大连接数、接入速率、字节序、空闲检测、管道
//   - NewChannel：为一条新连接创建服务实例并构造通道
//   - ChannelSet：活跃通道表，通道关闭时自动移除
//   - Gate：接入速率限制
//
// # 使用示例
//
//	pipes, _ := channel.NewPipelines(profile)
//	opts := transport.Options{Port: 9000, Pipelines: pipes}
//	l, err := tcp.Listen(ctx, opts)
//	go l.Serve(ctx)
//
// # 并发安全
//
// ChannelSet 与 Gate 可并发使用。Options 在监听器创建后不应再修改。
package transport
