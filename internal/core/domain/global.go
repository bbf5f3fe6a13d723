// Package domain 实现域生命周期管理
//
// 域是运行时的顶级容器：持有一个协议栈实例、一棵参与者/写者/
// 读者实体树，以及进程级共享资源（线程存活看门狗、类型库）。
// 本包负责域的创建/共享/销毁协议、看门狗单例的引用计数、类型
// 解析等待协议和写者批量开关的树下推。
package domain

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-dds/internal/core/entity"
	"github.com/dep2p/go-dds/internal/core/rtps"
	"github.com/dep2p/go-dds/internal/core/threadmon"
	"github.com/dep2p/go-dds/internal/util/logger"
	"github.com/dep2p/go-dds/pkg/lib/ordmap"
	"github.com/dep2p/go-dds/pkg/types"
)

var log = logger.Logger("core/domain")

// Instance 进程级注册表与共享资源
//
// 一把互斥锁保护：域注册表、看门狗单例及其引用计数。把单例
// 计数放在注册表锁下（而不是独立锁）是有意的——0→1/1→0 的
// 切换必须与域的插入/移除原子，独立锁会引入嵌套顺序问题。
type Instance struct {
	mu sync.Mutex

	// teardownGate 销毁广播门
	//
	// 每个域完成销毁时关闭并更换；对关闭中的域重试的创建方
	// 在旧门上阻塞，被唤醒后整体重查。
	teardownGate chan struct{}

	// domains 域注册表，按域 id 有序
	domains *ordmap.Map[types.DomainID, *Domain]

	// root 进程级根实体，所有域的父节点
	root *entity.Entity

	// threadmon 看门狗单例；refcount > 0 时非 nil
	threadmon      *threadmon.Monitor
	threadmonCount int

	// stackFactory 协议栈构造器（测试可注入失败栈）
	stackFactory rtps.Factory

	// monitorNew 看门狗构造器（测试可注入失败构造）
	monitorNew func(period time.Duration) (*threadmon.Monitor, error)

	clk clock.Clock

	// freeReacquireHook 销毁流程重取注册表锁之前的测试注入点
	freeReacquireHook func()
}

// rootDeriver 根实体的删除回调；根实体与进程同生命周期，
// 正常运行中不会触发
type rootDeriver struct{}

func (rootDeriver) Delete(e *entity.Entity) error {
	e.FinalDeinitBeforeFree()
	return types.ErrNoData
}

var (
	global     *Instance
	globalOnce sync.Once
)

// Global 返回进程级单例（首次调用时构造）
func Global() *Instance {
	globalOnce.Do(func() {
		global = NewInstance()
	})
	return global
}

// NewInstance 构造一份独立的注册表状态
//
// 进程正常使用 Global；独立实例用于测试隔离。
func NewInstance() *Instance {
	g := &Instance{
		teardownGate: make(chan struct{}),
		domains:      ordmap.New[types.DomainID, *Domain](),
		root:         &entity.Entity{},
		stackFactory: rtps.New,
		clk:          clock.New(),
	}
	g.monitorNew = func(period time.Duration) (*threadmon.Monitor, error) {
		return threadmon.NewWithClock(period, true, g.clk)
	}
	g.root.Init(types.KindRuntime, rootDeriver{})
	g.root.InitComplete()
	return g
}

// SetStackFactory 替换协议栈构造器（测试用）
func (g *Instance) SetStackFactory(f rtps.Factory) {
	g.stackFactory = f
}

// SetClock 替换时钟（测试用）
func (g *Instance) SetClock(clk clock.Clock) {
	g.clk = clk
}

// DomainCount 返回注册表中的域数
func (g *Instance) DomainCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.domains.Len()
}

// ThreadMonRefs 返回看门狗引用计数（测试用）
func (g *Instance) ThreadMonRefs() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.threadmonCount
}

// ThreadMonAlive 返回看门狗实例是否存在（测试用）
func (g *Instance) ThreadMonAlive() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.threadmon != nil
}

// ============================================================================
//                              看门狗引用计数
// ============================================================================

// acquireThreadMonLocked 获取看门狗；调用方持注册表锁
//
// 0→1 切换时创建并启动单例；创建失败映射为资源不足，
// 启动失败原样上抛，两种失败都不改变计数。
func (g *Instance) acquireThreadMonLocked(period time.Duration) error {
	if g.threadmonCount == 0 {
		m, err := g.monitorNew(period)
		if err != nil {
			log.Error("thread monitor creation failed", "err", err)
			return types.ErrOutOfResources
		}
		if err := m.Start("threadmon"); err != nil {
			m.Free()
			log.Error("thread monitor start failed", "err", err)
			return err
		}
		g.threadmon = m
	}
	g.threadmonCount++
	return nil
}

// releaseThreadMonLocked 释放看门狗；调用方持注册表锁
//
// 1→0 切换时停止并销毁单例。
func (g *Instance) releaseThreadMonLocked() {
	g.threadmonCount--
	if g.threadmonCount == 0 {
		g.threadmon.Stop()
		g.threadmon.Free()
		g.threadmon = nil
	}
}

// broadcastTeardownLocked 广播一次域销毁完成；调用方持注册表锁
func (g *Instance) broadcastTeardownLocked() {
	close(g.teardownGate)
	g.teardownGate = make(chan struct{})
}
