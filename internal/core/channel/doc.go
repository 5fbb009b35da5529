// Package channel 实现通道实体
//
// 通道是一个逻辑连接（TCP 流、UDP 对端或 WebSocket），拥有自己的
// 缓冲区、元数据、服务列表和传输句柄，并引用按配置构建的输入/输出管道。
//
// # 生命周期
//
//	Open ──Close()/断开──▶ Closed（终态，幂等）
//
//   - Initialize：记录日志、通知 ChannelCreated、逐个启动服务
//   - Receive：记录时间戳、通知 DataReceived、追加到缓冲区、
//     以只读快照执行输入管道、丢弃已消费字节后转回可写
//   - Write：已关闭时拒绝，否则经输出管道写到传输层
//   - Close：标记关闭、通知 ChannelClosed、停止并释放服务、关闭传输句柄
//
// # 并发
//
// 同一通道的接收严格串行，前一次管道执行和剩余字节处理完成后
// 才会处理下一次接收。写出也逐个进行。不同通道之间完全并发。
package channel
