package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// logFormat 日志输出格式
type logFormat int

const (
	formatText logFormat = iota
	formatJSON
)

// envConfig 由环境变量解析出的日志配置
type envConfig struct {
	defaultLevel    slog.Level
	subsystemLevels map[string]slog.Level
	format          logFormat
}

var (
	envCfg     envConfig
	envCfgOnce sync.Once
)

// configFromEnv 解析 DDS_LOG_LEVEL / DDS_LOG_FORMAT（只解析一次）
//
// DDS_LOG_LEVEL 格式: 子系统=级别[,子系统=级别...][,默认级别]
// 例: DDS_LOG_LEVEL=core/domain=debug,core/typelib=warn,info
func configFromEnv() envConfig {
	envCfgOnce.Do(func() {
		envCfg = envConfig{
			defaultLevel:    slog.LevelInfo,
			subsystemLevels: make(map[string]slog.Level),
		}
		for _, part := range strings.Split(os.Getenv("DDS_LOG_LEVEL"), ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if sub, lvl, ok := strings.Cut(part, "="); ok {
				envCfg.subsystemLevels[strings.TrimSpace(sub)] = parseLevel(lvl)
			} else {
				envCfg.defaultLevel = parseLevel(part)
			}
		}
		if strings.EqualFold(os.Getenv("DDS_LOG_FORMAT"), "json") {
			envCfg.format = formatJSON
		}
	})
	return envCfg
}

func (c envConfig) levelFor(subsystem string) slog.Level {
	if lvl, ok := c.subsystemLevels[subsystem]; ok {
		return lvl
	}
	return c.defaultLevel
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// subsystemHandler 支持按子系统动态调级的 slog.Handler
type subsystemHandler struct {
	mu    sync.RWMutex
	level slog.Level
	inner slog.Handler
}

func newHandler(subsystem string, level slog.Level, format logFormat) *subsystemHandler {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug, // 级别由外层 Enabled 控制
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}

	var inner slog.Handler
	if format == formatJSON {
		inner = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		inner = slog.NewTextHandler(os.Stderr, opts)
	}
	inner = inner.WithAttrs([]slog.Attr{slog.String("subsystem", subsystem)})

	return &subsystemHandler{level: level, inner: inner}
}

func (h *subsystemHandler) Enabled(_ context.Context, level slog.Level) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return level >= h.level
}

func (h *subsystemHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *subsystemHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &subsystemHandler{level: h.level, inner: h.inner.WithAttrs(attrs)}
}

func (h *subsystemHandler) WithGroup(name string) slog.Handler {
	return &subsystemHandler{level: h.level, inner: h.inner.WithGroup(name)}
}

func (h *subsystemHandler) setLevel(level slog.Level) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.level = level
}

// discardHandler 丢弃所有日志
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
