// Package logger 提供 go-channels 的统一日志系统
//
// 基于标准库 log/slog，支持：
//   - 按子系统配置日志级别
//   - 环境变量配置（CHANNELS_LOG_LEVEL, CHANNELS_LOG_FORMAT）
//   - 运行时切换输出目标和级别
//
// 使用示例:
//
//	package channel
//
//	import "github.com/dep2p/go-channels/internal/util/logger"
//
//	var log = logger.Logger("core/channel")
//
//	func foo() {
//	    log.Info("通道已创建", "channel", id, "remote", addr)
//	    log.Debug("收到数据", "bytes", n)
//	}
//
// 环境变量配置:
//
//	# 所有子系统 info，core/channel 为 debug
//	CHANNELS_LOG_LEVEL=core/channel=debug,info
//
//	# JSON 输出
//	CHANNELS_LOG_FORMAT=json
package logger

import (
	"io"
	"log/slog"
	"sync"
)

var (
	// loggers 缓存各子系统的 Logger
	loggers sync.Map // map[string]*slog.Logger

	// handlers 缓存各子系统的 Handler（用于动态调整级别）
	handlers sync.Map // map[string]*subsystemHandler

	globalLogger     *slog.Logger
	globalLoggerOnce sync.Once
)

// Logger 获取指定子系统的 Logger
//
// 同一子系统多次调用返回相同实例。
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	cfg := ConfigFromEnv()
	level := cfg.LevelForSubsystem(subsystem)

	handler := newHandler(subsystem, level, cfg.Format)
	logger := slog.New(handler)

	actual, loaded := loggers.LoadOrStore(subsystem, logger)
	if !loaded {
		handlers.Store(subsystem, handler)
	}

	return actual.(*slog.Logger)
}

// GlobalLogger 返回全局 Logger
func GlobalLogger() *slog.Logger {
	globalLoggerOnce.Do(func() {
		globalLogger = Logger("channels")
	})
	return globalLogger
}

// SetLevel 动态设置子系统的日志级别
//
// 子系统尚未创建 Logger 时，级别记录到配置中，创建时生效。
func SetLevel(subsystem string, level slog.Level) {
	if h, ok := handlers.Load(subsystem); ok {
		h.(*subsystemHandler).SetLevel(level)
		return
	}
	ConfigFromEnv().setSubsystemLevel(subsystem, level)
}

// SetGlobalLevel 设置所有子系统的日志级别
func SetGlobalLevel(level slog.Level) {
	ConfigFromEnv().setDefaultLevel(level)
	handlers.Range(func(_, value any) bool {
		value.(*subsystemHandler).SetLevel(level)
		return true
	})
}

// Discard 返回丢弃所有日志的 Logger
//
// 主要用于测试。
func Discard() *slog.Logger {
	return slog.New(DiscardHandler())
}

// With 创建带有预设属性的 Logger
func With(subsystem string, args ...any) *slog.Logger {
	return Logger(subsystem).With(args...)
}

// SetOutput 设置全局日志输出目标
//
// 已创建的 Logger 同样生效（输出经 dynamicWriter 间接查找）。
func SetOutput(w io.Writer) {
	globalOutputMu.Lock()
	globalOutput = w
	globalOutputMu.Unlock()
}
