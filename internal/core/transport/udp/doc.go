// Package udp 实现基于 UDP 数据报的通道监听器与客户端
//
// 监听器只持有一个套接字，按远端地址把数据报分发到各自的通道：
// 首次收到某个地址的数据报时创建通道，通道表用 LRU 限制大小，
// 被淘汰的通道会被关闭。每个通道有一个有界收件队列和一个处理 goroutine，
// 队列满时丢弃数据报并广播 inbox.overflow 事件。
//
// 通道关闭只把它从通道表中移除，不会关闭共享的套接字。
package udp
