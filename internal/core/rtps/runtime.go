// Package rtps 提供协议栈实例的生命周期管理
//
// 协议栈负责一个域的网络发现与数据交换；对域生命周期核心而言
// 它是一个不透明资源，只暴露严格有序的生命周期调用：
//
//	PrepareConfig → Init → Start → Stop → Fini
//
// Init 失败后不会有 Start/Stop；Fini 与 Init 配对。Stack 接口
// 允许测试注入失败栈以验证初始化的逆序回滚。
package rtps

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/dep2p/go-dds/internal/core/typelib"
	"github.com/dep2p/go-dds/internal/util/logger"
	"github.com/dep2p/go-dds/pkg/types"
)

var log = logger.Logger("core/rtps")

// 生命周期状态
const (
	stateCreated int32 = iota
	stateInited
	stateStarted
	stateStopped
	stateFinied
)

// Stack 协议栈实例
//
// 方法必须按 Init → Start → Stop → Fini 顺序调用；
// Init 失败后实例作废，调用方不得再调用任何方法。
type Stack interface {
	// Init 初始化协议栈
	Init() error
	// Start 启动网络活动
	Start() error
	// Stop 停止网络活动
	Stop()
	// Fini 释放协议栈
	Fini() error

	// SetDeafMute 设置收/发抑制，resetAfter 到期后自动恢复
	SetDeafMute(deaf, mute bool, resetAfter time.Duration)

	// TypeLib 返回协议栈的类型库
	TypeLib() *typelib.Library

	// GUID 返回实例标识
	GUID() uuid.UUID

	// Progress 返回心跳计数
	//
	// 网络活动期间由协议栈线程推进；看门狗比较相邻两次巡检
	// 的计数判断线程存活。
	Progress() uint64
}

// Factory 构造协议栈实例
type Factory func(cfg Config) Stack

// Runtime 默认协议栈实现
//
// 本核心只关心生命周期簿记；发现协议与数据通路在独立的
// 传输层实现中，不在此包。
type Runtime struct {
	cfg   Config
	guid  uuid.UUID
	clk   clock.Clock
	state atomic.Int32

	tlib *typelib.Library

	deaf atomic.Bool
	mute atomic.Bool

	// proxies 存活的远端代理数；类型解析请求需要至少一个
	proxies atomic.Int32

	// progress 心跳计数，看门狗据此判断线程存活
	progress   atomic.Uint64
	housekeep  chan struct{}
	resetTimer *clock.Timer
}

// New 创建默认协议栈
func New(cfg Config) Stack {
	return NewWithClock(cfg, clock.New())
}

// NewWithClock 以指定时钟创建默认协议栈（测试用）
func NewWithClock(cfg Config, clk clock.Clock) *Runtime {
	r := &Runtime{
		cfg:  cfg,
		guid: uuid.New(),
		clk:  clk,
	}
	r.tlib = typelib.New(clk, r.requestType)
	return r
}

// GUID 返回实例标识
func (r *Runtime) GUID() uuid.UUID { return r.guid }

// TypeLib 返回类型库
func (r *Runtime) TypeLib() *typelib.Library { return r.tlib }

// Config 返回运行配置快照
func (r *Runtime) Config() Config { return r.cfg }

// ============================================================================
//                              生命周期
// ============================================================================

// Init 初始化协议栈
func (r *Runtime) Init() error {
	if !r.state.CompareAndSwap(stateCreated, stateInited) {
		return fmt.Errorf("stack init: bad state %d", r.state.Load())
	}
	log.Debug("stack initialized", "domainID", r.cfg.DomainID, "guid", r.guid)
	return nil
}

// Start 启动网络活动
func (r *Runtime) Start() error {
	if !r.state.CompareAndSwap(stateInited, stateStarted) {
		return fmt.Errorf("stack start: bad state %d", r.state.Load())
	}

	r.housekeep = make(chan struct{})
	go r.housekeepLoop(r.housekeep)

	log.Info("stack started", "domainID", r.cfg.DomainID, "guid", r.guid)
	return nil
}

// Stop 停止网络活动
func (r *Runtime) Stop() {
	if !r.state.CompareAndSwap(stateStarted, stateStopped) {
		return
	}
	close(r.housekeep)
	log.Info("stack stopped", "domainID", r.cfg.DomainID)
}

// Fini 释放协议栈
func (r *Runtime) Fini() error {
	s := r.state.Load()
	if s == stateStarted {
		return errors.New("stack fini: still started")
	}
	if !r.state.CompareAndSwap(s, stateFinied) {
		return fmt.Errorf("stack fini: bad state %d", r.state.Load())
	}
	log.Debug("stack finalized", "domainID", r.cfg.DomainID)
	return nil
}

// Progress 返回心跳计数
func (r *Runtime) Progress() uint64 {
	return r.progress.Load()
}

// housekeepLoop 后勤循环：推进心跳
func (r *Runtime) housekeepLoop(done chan struct{}) {
	ticker := r.clk.Ticker(r.housekeepPeriod())
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			r.progress.Add(1)
		}
	}
}

func (r *Runtime) housekeepPeriod() time.Duration {
	if r.cfg.MonitorPeriod > 0 {
		return r.cfg.MonitorPeriod / 3
	}
	return 100 * time.Millisecond
}

// ============================================================================
//                              收发抑制
// ============================================================================

// SetDeafMute 设置收/发抑制
//
// resetAfter 为非无限时长时，到期自动恢复为不抑制。
func (r *Runtime) SetDeafMute(deaf, mute bool, resetAfter time.Duration) {
	r.deaf.Store(deaf)
	r.mute.Store(mute)
	log.Info("deaf/mute set",
		"domainID", r.cfg.DomainID,
		"deaf", deaf,
		"mute", mute,
		"resetAfter", resetAfter)

	if r.resetTimer != nil {
		r.resetTimer.Stop()
		r.resetTimer = nil
	}
	if (deaf || mute) && !types.IsInfinite(resetAfter) && resetAfter > 0 {
		r.resetTimer = r.clk.AfterFunc(resetAfter, func() {
			r.deaf.Store(false)
			r.mute.Store(false)
			log.Info("deaf/mute reset", "domainID", r.cfg.DomainID)
		})
	}
}

// Deaf 返回是否抑制接收
func (r *Runtime) Deaf() bool { return r.deaf.Load() }

// Mute 返回是否抑制发送
func (r *Runtime) Mute() bool { return r.mute.Load() }

// ============================================================================
//                              远端代理与类型请求
// ============================================================================

// NoteProxyAlive 记录一个远端代理上线（发现层调用）
func (r *Runtime) NoteProxyAlive() { r.proxies.Add(1) }

// NoteProxyGone 记录一个远端代理下线
func (r *Runtime) NoteProxyGone() { r.proxies.Add(-1) }

// requestType 发出类型解析请求
//
// 没有存活代理或网络未启动时请求无法发出。
func (r *Runtime) requestType(id types.TypeID, includeDeps bool) bool {
	if r.state.Load() != stateStarted {
		return false
	}
	if r.proxies.Load() <= 0 {
		return false
	}
	log.Debug("type lookup request issued",
		"domainID", r.cfg.DomainID,
		"typeID", id,
		"includeDeps", includeDeps)
	return true
}
