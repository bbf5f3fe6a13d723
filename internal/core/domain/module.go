package domain

import (
	"context"

	"go.uber.org/fx"
)

// ============================================================================
//                              模块输出服务
// ============================================================================

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	// Registry 域注册表（命名依赖）
	Registry *Instance `name:"domain_registry"`
}

// ============================================================================
//                              服务提供
// ============================================================================

// ProvideServices 提供模块服务
func ProvideServices() ModuleOutput {
	return ModuleOutput{Registry: Global()}
}

// ============================================================================
//                              模块定义
// ============================================================================

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("domain",
		fx.Provide(ProvideServices),
		fx.Invoke(registerLifecycle),
	)
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In
	LC       fx.Lifecycle
	Registry *Instance `name:"domain_registry"`
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// 注册表按需创建域，启动阶段无需动作
			return nil
		},
		OnStop: func(_ context.Context) error {
			// 域的销毁由所有权引用驱动，停止阶段只记录遗留
			if n := input.Registry.DomainCount(); n > 0 {
				log.Warn("domains still alive at shutdown", "count", n)
			}
			return nil
		},
	})
}

// ============================================================================
//                              模块元信息
// ============================================================================

// 模块元信息常量
const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "domain"
	// Description 模块描述
	Description = "域生命周期模块，提供域的创建共享销毁、看门狗单例和类型解析等待能力"
)
