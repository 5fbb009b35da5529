// Package lib 包含基础设施工具库
//
// 本目录包含与通道组件无关的通用工具库：
//
//   - log: 日志封装，按子系统输出结构化日志
//
// # 与 pkg/ 其他目录的关系
//
// pkg/ 目录包含以下内容：
//
//   - interfaces/: 组件公共接口
//   - types/: 公共类型定义
//   - buffer/: 字节缓冲区
//   - middleware/: 管道阶段与 ChannelProfile
//   - protocol/: 示例协议编解码
//   - lib/: 基础设施工具库（本目录）
//
// # 使用示例
//
//	import "github.com/dep2p/go-channels/pkg/lib/log"
//
//	var logger = log.Logger("app/server")
package lib
