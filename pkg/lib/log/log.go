// Package log 提供 go-channels 对外的日志接口
//
// 库内部各子系统通过 internal/util/logger 获取 Logger，
// 应用程序使用本包统一调整输出目标和级别。
//
// 示例：
//
//	file, _ := os.OpenFile("channels.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
//	log.SetOutput(file)
//	log.SetLevel(log.LevelDebug)
//	log.SetSubsystemLevel("core/pipeline", log.LevelWarn)
package log

import (
	"io"
	"log/slog"

	"github.com/dep2p/go-channels/internal/util/logger"
)

// 日志级别常量（从 slog 导出，方便使用）
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger 返回指定组件的 Logger
//
// 与库内部子系统共享同一套级别和输出配置。
func Logger(component string) *slog.Logger {
	return logger.Logger(component)
}

// SetOutput 设置所有 Logger 的输出目标
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetLevel 设置所有子系统的日志级别
func SetLevel(level slog.Level) {
	logger.SetGlobalLevel(level)
}

// SetSubsystemLevel 设置单个子系统的日志级别
func SetSubsystemLevel(subsystem string, level slog.Level) {
	logger.SetLevel(subsystem, level)
}

// ParseLevel 解析级别名称（debug/info/warn/error）
func ParseLevel(name string) (slog.Level, bool) {
	return logger.ParseLevel(name)
}
