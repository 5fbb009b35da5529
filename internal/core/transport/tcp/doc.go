// Package tcp 实现基于 TCP 字节流的通道监听器与客户端
//
// 每条接入连接对应一个通道，由独立的 goroutine 读取数据并送入通道的
// 输入管道。读取以固定大小的块进行，管道未消费的字节保留在通道缓冲区，
// 等待下一次读取补齐。
//
// # 使用示例
//
//	l, err := tcp.Listen(ctx, transport.Options{Port: 9000, Pipelines: pipes})
//	go l.Serve(ctx)
//
//	client, err := tcp.NewClient(transport.Options{Address: "127.0.0.1", Port: 9000, Pipelines: pipes})
//	loop := reconnect.New(client, reconnect.Config{Name: "echo"})
//	go loop.Run(ctx)
//
// # 连接限制
//
//   - Backlog：Linux 上通过原始套接字设置 listen 积压队列
//   - MaxConnections：信号量限制同时存在的连接数，满额时暂停 Accept
//   - AcceptRate：令牌桶限制接入速率
package tcp
