package domain

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/dep2p/go-dds/config"
	"github.com/dep2p/go-dds/internal/core/builtin"
	"github.com/dep2p/go-dds/internal/core/entity"
	"github.com/dep2p/go-dds/internal/core/rtps"
	"github.com/dep2p/go-dds/internal/core/shmmon"
	"github.com/dep2p/go-dds/pkg/types"
)

// Domain 一个已初始化的域
//
// 域是实体树中挂在进程根节点下的节点，同一 id 的域在进程内
// 唯一；隐式创建方共享同一个域对象，各自持有一个所有权引用。
type Domain struct {
	ent entity.Entity

	id types.DomainID

	// cfg 协议栈运行配置快照，初始化后归域所有
	cfg rtps.Config

	// whcBatch 写者批量发送默认值
	//
	// 初值来自配置快照；全局批量开关在注册表锁内改写，新建
	// 写者读到的总是最近一次写入。
	whcBatch atomic.Bool

	stack rtps.Stack

	// cfgst 文本配置的解析状态；原始配置结构创建的域为 nil
	cfgst *config.ParseState

	shm *shmmon.Monitor
	bt  *builtin.State

	inst   *Instance
	tstart time.Time
}

// Entity 返回实体基类
func (d *Domain) Entity() *entity.Entity { return &d.ent }

// Handle 返回实体句柄
func (d *Domain) Handle() entity.Handle { return d.ent.Handle() }

// ID 返回域 id
func (d *Domain) ID() types.DomainID { return d.id }

// Stack 返回协议栈实例
func (d *Domain) Stack() rtps.Stack { return d.stack }

// DomainID 实现 threadmon.Watched
func (d *Domain) DomainID() types.DomainID { return d.id }

// Progress 实现 threadmon.Watched
func (d *Domain) Progress() uint64 { return d.stack.Progress() }

// Release 释放调用方的所有权引用
//
// 最后一个引用释放触发域的完整销毁，返回时销毁已完成。
func (d *Domain) Release() error {
	err := d.ent.DropRef()
	if err == types.ErrNoData {
		return nil
	}
	return err
}

// ============================================================================
//                              初始化
// ============================================================================

// initDomainLocked 执行域的完整初始化；调用方持注册表锁
//
// 每一步成功后把对应的回滚动作压栈，任何一步失败时逆序执行
// 已压栈的回滚并返回首错，保证不会留下半初始化的域。
func (g *Instance) initDomainLocked(d *Domain, id types.DomainID, src ConfigSource) error {
	var undo []func()
	fail := func(err error) error {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		return err
	}

	// 1. 实体基类与句柄
	d.inst = g
	d.tstart = time.Now()
	d.ent.Init(types.KindDomain, d)
	d.ent.SetDomain(d)
	undo = append(undo, func() { d.ent.FinalDeinitBeforeFree() })

	// 2. 配置来源解析
	snap, err := g.resolveConfig(d, id, src)
	if err != nil {
		return fail(err)
	}
	undo = append(undo, func() {
		if d.cfgst != nil {
			d.cfgst.Release()
		}
	})

	// 3. 导出协议栈运行配置
	if d.cfg, err = rtps.PrepareConfig(snap); err != nil {
		return fail(err)
	}
	d.id = d.cfg.DomainID
	d.whcBatch.Store(d.cfg.WHCBatch)

	// 4. 协议栈初始化
	d.stack = g.stackFactory(d.cfg)
	if err := d.stack.Init(); err != nil {
		return fail(fmt.Errorf("domain %d: stack init: %w", d.id, err))
	}
	undo = append(undo, func() {
		if err := d.stack.Fini(); err != nil {
			log.Error("stack fini during unwind failed", "domainID", d.id, "err", err)
		}
	})

	// 5. 共享内存监视器
	if d.cfg.EnableSHM {
		if d.shm, err = shmmon.New(d.id); err != nil {
			return fail(fmt.Errorf("domain %d: shm monitor: %w", d.id, err))
		}
		undo = append(undo, func() {
			if err := d.shm.Destroy(); err != nil {
				log.Error("shm monitor destroy during unwind failed", "domainID", d.id, "err", err)
			}
		})
	}

	// 6. 线程存活看门狗（引用计数在注册表锁内切换）
	if d.cfg.LivelinessMonitoring {
		if err := g.acquireThreadMonLocked(d.cfg.MonitorPeriod); err != nil {
			return fail(fmt.Errorf("domain %d: thread monitor: %w", d.id, err))
		}
		undo = append(undo, func() { g.releaseThreadMonLocked() })
	}

	// 7. 内建主题
	d.bt = builtin.Init(d.id, d.stack.TypeLib())
	undo = append(undo, func() {
		if err := d.bt.Fini(); err != nil {
			log.Error("builtin fini during unwind failed", "domainID", d.id, "err", err)
		}
	})

	// 8. 协议栈启动
	if err := d.stack.Start(); err != nil {
		return fail(fmt.Errorf("domain %d: stack start: %w", d.id, err))
	}

	// 9. 纳入看门狗巡检
	if d.cfg.LivelinessMonitoring {
		g.threadmon.RegisterDomain(d)
	}

	// 10. 初始化完成，句柄对外可用
	d.ent.InitComplete()

	log.Info("domain initialized", "domainID", d.id, "guid", d.stack.GUID())
	return nil
}

// resolveConfig 解析配置来源，返回用于导出运行配置的快照
//
// 文本来源走解析器并持有解析状态；原始结构来源拷贝一份并按
// 与解析器相同的优先级表解析域 id，不持有解析状态。
func (g *Instance) resolveConfig(d *Domain, id types.DomainID, src ConfigSource) (*config.Config, error) {
	if src.isRaw {
		if src.raw == nil {
			return nil, types.ErrBadParameter
		}
		snap := src.raw.Clone()
		switch {
		case id != types.DomainDefault:
			snap.Domain.ID = id
		case snap.Domain.ID == types.DomainDefault:
			snap.Domain.ID = 0
		}
		return snap, nil
	}

	st, err := config.Parse(src.text, id)
	if err != nil {
		return nil, fmt.Errorf("domain config: %w", err)
	}
	d.cfgst = st
	return st.Config(), nil
}

// ============================================================================
//                              销毁
// ============================================================================

// Delete 实现 entity.Deriver：所有权引用归零后的完整销毁流程
//
// 锁外部分逆序拆除初始化建立的资源；随后进入注册表临界区完成
// 看门狗释放、注册表移除、实体最终释放与销毁广播。广播必须在
// 移除之后，重试中的创建方被唤醒后才能观察到"同 id 不在表中"。
func (d *Domain) Delete(e *entity.Entity) error {
	g := d.inst
	log.Info("domain teardown started", "domainID", d.id, "uptime", time.Since(d.tstart))

	d.stack.Stop()

	var errs error
	if err := d.bt.Fini(); err != nil {
		errs = multierr.Append(errs, err)
	}

	if d.cfg.LivelinessMonitoring {
		g.mu.Lock()
		g.threadmon.UnregisterDomain(d)
		g.mu.Unlock()
	}

	if d.shm != nil {
		if err := d.shm.Destroy(); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if err := d.stack.Fini(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		log.Error("domain teardown errors", "domainID", d.id, "err", errs)
	}

	if g.freeReacquireHook != nil {
		g.freeReacquireHook()
	}

	g.mu.Lock()
	if d.cfg.LivelinessMonitoring {
		g.releaseThreadMonLocked()
	}
	g.domains.Delete(d.id)
	d.ent.FinalDeinitBeforeFree()
	if d.cfgst != nil {
		d.cfgst.Release()
	}
	g.broadcastTeardownLocked()
	g.mu.Unlock()

	metricDomainsActive.Dec()
	log.Info("domain torn down", "domainID", d.id)
	return types.ErrNoData
}
