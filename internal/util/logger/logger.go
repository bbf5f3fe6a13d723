// Package logger 提供 go-dds 的统一日志系统
//
// 基于标准库 log/slog，支持：
//   - 按子系统配置日志级别
//   - 环境变量配置（DDS_LOG_LEVEL, DDS_LOG_FORMAT）
//   - 结构化日志
//
// 使用示例:
//
//	package domain
//
//	import "github.com/dep2p/go-dds/internal/util/logger"
//
//	var log = logger.Logger("core/domain")
//
//	func foo() {
//	    log.Info("domain created", "domainID", id)
//	    log.Error("stack start failed", "err", err)
//	}
//
// 环境变量配置:
//
//	# 所有子系统 info，core/typelib 子系统 debug
//	DDS_LOG_LEVEL=core/typelib=debug,info
//
//	# 使用 JSON 格式输出
//	DDS_LOG_FORMAT=json
package logger

import (
	"log/slog"
	"sync"
)

var (
	// loggers 缓存各子系统的 Logger
	loggers sync.Map // map[string]*slog.Logger

	// handlers 缓存各子系统的 Handler（用于动态调整级别）
	handlers sync.Map // map[string]*subsystemHandler
)

// Logger 获取指定子系统的 Logger
//
// 级别与格式由 DDS_LOG_LEVEL / DDS_LOG_FORMAT 决定；
// 同一子系统多次调用返回同一实例。
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	cfg := configFromEnv()
	h := newHandler(subsystem, cfg.levelFor(subsystem), cfg.format)
	l := slog.New(h)

	actual, loaded := loggers.LoadOrStore(subsystem, l)
	if !loaded {
		handlers.Store(subsystem, h)
	}
	return actual.(*slog.Logger)
}

// SetLevel 动态设置子系统的日志级别
func SetLevel(subsystem string, level slog.Level) {
	if h, ok := handlers.Load(subsystem); ok {
		h.(*subsystemHandler).setLevel(level)
	}
}

// SetGlobalLevel 设置所有已创建子系统的日志级别
func SetGlobalLevel(level slog.Level) {
	handlers.Range(func(_, value any) bool {
		value.(*subsystemHandler).setLevel(level)
		return true
	})
}

// Discard 返回丢弃所有日志的 Logger，用于测试
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}
