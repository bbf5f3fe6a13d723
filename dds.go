package dds

import (
	"time"

	"github.com/dep2p/go-dds/config"
	"github.com/dep2p/go-dds/internal/core/domain"
	"github.com/dep2p/go-dds/internal/core/entity"
	"github.com/dep2p/go-dds/internal/core/typelib"
	"github.com/dep2p/go-dds/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              版本信息
// ════════════════════════════════════════════════════════════════════════════

// Version 当前版本
const Version = "v0.1.0"

// BuildInfo 构建信息（通过 ldflags 注入）
var (
	// GitCommit Git 提交哈希
	GitCommit string

	// BuildDate 构建日期
	BuildDate string
)

// VersionInfo 返回完整版本信息字符串
func VersionInfo() string {
	info := "go-dds " + Version
	if GitCommit != "" {
		n := len(GitCommit)
		if n > 8 {
			n = 8
		}
		info += " (" + GitCommit[:n] + ")"
	}
	if BuildDate != "" {
		info += " built " + BuildDate
	}
	return info
}

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

// Domain 域
type Domain = domain.Domain

// Participant 域内参与者
type Participant = domain.Participant

// Writer 域内写者
type Writer = domain.Writer

// Config 完整配置结构
type Config = config.Config

// Handle 实体句柄
type Handle = entity.Handle

// DomainID 域 id
type DomainID = types.DomainID

// DomainDefault 默认域 id 哨兵
const DomainDefault = types.DomainDefault

// DurationInfinite 无限时长哨兵
const DurationInfinite = types.DurationInfinite

// TypeID 类型标识符
type TypeID = types.TypeID

// SerType 序列化类型
type SerType = typelib.SerType

// TypeObj 类型对象
type TypeObj = typelib.TypeObj

// ════════════════════════════════════════════════════════════════════════════
//                              域操作
// ════════════════════════════════════════════════════════════════════════════

// CreateDomain 显式创建域
//
// id 必须是具体值，默认哨兵以参数错误拒绝；同 id 的域已存在时
// 以前置条件错误失败。configText 为 JSON 配置文本，空文本使用
// 全默认配置。成功时调用方持有一个所有权引用。
func CreateDomain(id DomainID, configText string) (*Domain, error) {
	return domain.Global().CreateExplicit(id, domain.TextConfig(configText))
}

// CreateDomainWithRawConfig 以原始配置结构显式创建域
//
// cfg 为 nil 时以参数错误拒绝；结构被深拷贝，调用返回后对 cfg
// 的修改不影响域。
func CreateDomainWithRawConfig(id DomainID, cfg *Config) (*Domain, error) {
	if cfg == nil {
		return nil, types.ErrBadParameter
	}
	return domain.Global().CreateExplicit(id, domain.RawConfig(cfg))
}

// CreateParticipant 创建参与者
//
// id 指定的域不存在时隐式创建；为默认哨兵时加入 id 最小的
// 存活域（没有则创建 id 0）。参与者存活期间维持域的生命周期。
func CreateParticipant(id DomainID, configText string) (*Participant, error) {
	g := domain.Global()
	d, err := g.FindOrCreate(id, domain.TextConfig(configText))
	if err != nil {
		return nil, err
	}
	p, err := domain.CreateParticipant(d)
	if err != nil {
		_ = d.Release()
		return nil, err
	}
	// 创建方的获取引用移交给参与者持有的引用
	if err := d.Release(); err != nil {
		_ = p.Release()
		return nil, err
	}
	return p, nil
}

// CreateWriter 在参与者下创建写者
//
// 批量发送开关取所属域的当前默认值。
func CreateWriter(p *Participant) (*Writer, error) {
	return domain.CreateWriter(p)
}

// SetWriteBatch 全局写者批量开关
//
// 改写每个存活域的批量默认值并下推到全部存量写者。遍历与并发
// 的域创建/销毁共存，不做快照一致性承诺。
func SetWriteBatch(enabled bool) {
	domain.Global().SetWriteBatch(enabled)
}

// SetDeafMute 设置 h 所属域的收/发抑制
//
// resetAfter 为非无限时长时到期自动恢复。h 可以是域或域内任意
// 实体的句柄；不归属任何域的实体以非法操作拒绝。
func SetDeafMute(h Handle, deaf, mute bool, resetAfter time.Duration) error {
	return domain.Global().SetDeafMute(h, deaf, mute, resetAfter)
}

// ════════════════════════════════════════════════════════════════════════════
//                              类型解析
// ════════════════════════════════════════════════════════════════════════════

// ResolveType 等待类型解析并借出序列化类型
//
// typeID 必须是哈希类标识符。缓存命中立即返回；否则发出远端
// 解析请求并等待，最长 timeout。截止期到达而未解析时返回
// (nil, nil)：成功但输出为空，调用方据此判断。返回的序列化
// 类型由调用方 Unref。
func ResolveType(h Handle, typeID TypeID, timeout time.Duration) (*SerType, error) {
	st, _, err := domain.Global().WaitForTypeResolved(h, typeID, timeout, true, false)
	return st, err
}

// GetTypeObj 等待类型解析并物化类型对象
//
// 语义同 ResolveType，但不要求依赖类型解析完整。
func GetTypeObj(h Handle, typeID TypeID, timeout time.Duration) (*TypeObj, error) {
	_, obj, err := domain.Global().WaitForTypeResolved(h, typeID, timeout, false, true)
	return obj, err
}
