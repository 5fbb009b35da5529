// Package types 定义 go-channels 的公共数据结构
//
// 这是除 pkg/buffer 之外最底层的包，只包含值类型和少量线程安全容器，
// 用于在 channel、pipeline、transport 等模块之间传递数据。
//
// # 文件组织
//
//   - ids.go       - ChannelID
//   - enums.go     - TransportKind, IdleMode, MessageType, ConnState
//   - message.go   - 面向消息的传输（WebSocket）使用的 Message
//   - metadata.go  - 通道级元数据表
//   - events.go    - 自定义事件名称
//   - errors.go    - 公共错误定义
package types
