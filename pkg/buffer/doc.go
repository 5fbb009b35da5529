// Package buffer 提供通道使用的二进制缓冲区
//
// Buffer 在任意时刻只处于一种模式：
//
//   - 可读（readable）：内容固定，带读取偏移量，可随机访问，不可追加
//   - 可写（writable）：只能追加，没有偏移量，不可读取
//
// 两种模式之间只能通过 MakeReadOnly / MakeWritable 转换，
// 模式与字节序一致时返回自身，否则返回一份拷贝。
//
// # 字节序
//
// 所有数值读写使用构造时确定的字节序（默认大端），不要求对齐。
//
// # 典型生命周期
//
//	buf := buffer.NewWritable(buffer.BigEndian)
//	buf.WriteBytes(received)
//
//	snapshot := buf.MakeReadOnly()
//	// ... 流水线从 snapshot 读取 ...
//	snapshot.DiscardReadBytes()
//	buf = snapshot.MakeWritable() // 只保留尚未消费的尾部字节
//
// # 字符串序列化
//
// 缓冲区可以序列化为 Base64 或大写十六进制字符串（每字节两位），
// 结构体字段通过 Base64 / Hex 包装类型选择编码方式。
//
// Buffer 不是并发安全的，由所属通道独占使用。
package buffer
