package dds

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-dds/internal/core/domain"
)

// Modules 返回运行时的 fx 模块集合
//
// 供把本库嵌入 fx 应用的使用方组装依赖图；直接使用包级 API
// 的使用方不需要它。
func Modules() fx.Option {
	return fx.Options(
		domain.Module(),
	)
}

// buildFxApp 构建独立的 fx 应用（命令行入口使用）
func buildFxApp(extra ...fx.Option) *fx.App {
	opts := []fx.Option{
		Modules(),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	}
	opts = append(opts, extra...)
	return fx.New(opts...)
}
