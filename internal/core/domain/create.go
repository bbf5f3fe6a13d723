package domain

import (
	"github.com/dep2p/go-dds/config"
	"github.com/dep2p/go-dds/internal/core/entity"
	"github.com/dep2p/go-dds/pkg/types"
)

// ConfigSource 域的配置来源
//
// 文本来源在初始化时经解析器展开；原始结构来源被深拷贝后
// 直接使用。零值等价于空文本（全默认配置）。
type ConfigSource struct {
	raw   *config.Config
	text  string
	isRaw bool
}

// TextConfig 以配置文本为来源
func TextConfig(text string) ConfigSource {
	return ConfigSource{text: text}
}

// RawConfig 以原始配置结构为来源
func RawConfig(cfg *config.Config) ConfigSource {
	return ConfigSource{raw: cfg, isRaw: true}
}

// CreateExplicit 显式创建域
//
// id 必须是具体值；同 id 的域已存在时以前置条件错误失败，
// 不与既有域共享。成功时调用方持有一个所有权引用。
func (g *Instance) CreateExplicit(id types.DomainID, src ConfigSource) (*Domain, error) {
	if id == types.DomainDefault {
		return nil, types.ErrBadParameter
	}
	return g.createInternal(id, false, src)
}

// FindOrCreate 隐式获取域
//
// id 为具体值时查找该 id；为默认哨兵时取注册表中 id 最小的域。
// 查得的域若正在销毁则等待其销毁完成后整体重试。未查得时创建
// 新域。成功时调用方持有一个所有权引用。
func (g *Instance) FindOrCreate(id types.DomainID, src ConfigSource) (*Domain, error) {
	return g.createInternal(id, true, src)
}

// createInternal 域获取的核心协议
//
// 重试循环处理"查得的域正在销毁"：销毁中的域已置关闭标志但
// 仍在注册表中，此时在销毁广播门上等待，被唤醒后重查。广播
// 发生在注册表移除之后，因此重查要么查不到（走创建），要么
// 查到一个新的存活域（走共享）。
func (g *Instance) createInternal(id types.DomainID, implicit bool, src ConfigSource) (*Domain, error) {
	g.mu.Lock()
	for {
		var dom *Domain
		if id != types.DomainDefault {
			dom, _ = g.domains.Lookup(id)
		} else if implicit {
			_, dom, _ = g.domains.Min()
		}

		if dom != nil {
			if !implicit {
				g.mu.Unlock()
				return nil, types.ErrPreconditionNotMet
			}
			dom.ent.Lock()
			if dom.ent.IsClosedLocked() {
				dom.ent.Unlock()
				gate := g.teardownGate
				g.mu.Unlock()
				<-gate
				g.mu.Lock()
				continue
			}
			dom.ent.AddRefLocked()
			dom.ent.Unlock()
			g.mu.Unlock()
			log.Debug("domain shared", "domainID", dom.id)
			return dom, nil
		}

		d := &Domain{}
		if err := g.initDomainLocked(d, id, src); err != nil {
			g.mu.Unlock()
			return nil, err
		}
		if !g.domains.Insert(d.id, d) {
			// 初始化全程在注册表锁内，不可能撞 id
			log.Error("domain registry insert collision", "domainID", d.id)
		}
		entity.RegisterChild(g.root, &d.ent)

		g.mu.Unlock()
		metricDomainsCreated.Inc()
		metricDomainsActive.Inc()
		return d, nil
	}
}
