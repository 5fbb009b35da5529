// Package websocket 实现基于 gorilla/websocket 的通道监听器与客户端
//
// 消息以固定大小的块读取，文本和二进制各有一个重组缓冲区，
// 收到消息的最后一块后才交给通道：
//
//   - 二进制消息按字节流送入通道缓冲区，由输入管道切分
//   - 文本消息作为完整的 *types.Message 直接进入输入管道
//   - 关闭帧关闭通道
//
// 每个通道另有一个心跳循环，按周期发送 ping，发送失败即关闭通道。
//
// Listener 本身是 http.Handler，可以挂到已有的 HTTP 服务上；
// 也可以通过 Listen 创建独立监听的服务器。
package websocket
