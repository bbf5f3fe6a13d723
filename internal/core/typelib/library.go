// Package typelib 提供域内类型库
//
// 类型库缓存已知/解析中的类型标识符及其解析结果。解析由网络
// 侧的应答线程异步驱动：应答到达时写入记录并广播，阻塞中的
// 等待方据此重查。类型库使用独立于实体锁的专用锁，避免应答
// 线程与对象树操作争锁。
package typelib

import (
	"sync"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-dds/internal/util/logger"
	"github.com/dep2p/go-dds/pkg/types"
)

var log = logger.Logger("core/typelib")

// typeObjCacheSize 物化类型对象缓存容量
const typeObjCacheSize = 128

// RequestFunc 发出远端类型解析请求
//
// fire-and-forget：返回 false 表示请求根本无法发出（例如没有
// 存活的远端代理）；解析完成与否经由 ResolveRemote 异步回报。
type RequestFunc func(id types.TypeID, includeDeps bool) bool

// Library 域内类型库
type Library struct {
	mu sync.Mutex

	// resolvedGate 解析广播门
	//
	// 每次有记录完成解析时关闭并更换；等待方在锁外阻塞于
	// 旧门上，被唤醒后重新取锁检查状态，容忍虚假唤醒。
	resolvedGate chan struct{}

	recs map[types.TypeID]*Record

	// objCache 物化类型对象缓存，避免重复拷贝载荷
	objCache *lru.Cache[types.TypeID, *TypeObj]

	clk       clock.Clock
	requestFn RequestFunc
}

// New 创建类型库
//
// requestFn 为 nil 时远端解析请求一律视为无法发出。
func New(clk clock.Clock, requestFn RequestFunc) *Library {
	cache, _ := lru.New[types.TypeID, *TypeObj](typeObjCacheSize)
	return &Library{
		resolvedGate: make(chan struct{}),
		recs:         make(map[types.TypeID]*Record),
		objCache:     cache,
		clk:          clk,
		requestFn:    requestFn,
	}
}

// Clock 返回类型库使用的时钟
func (l *Library) Clock() clock.Clock { return l.clk }

// Lock 锁定类型库
func (l *Library) Lock() { l.mu.Lock() }

// Unlock 解锁类型库
func (l *Library) Unlock() { l.mu.Unlock() }

// ============================================================================
//                              记录维护
// ============================================================================

// LookupLocked 按标识符查找记录；调用方持锁
func (l *Library) LookupLocked(id types.TypeID) (*Record, bool) {
	r, ok := l.recs[id]
	return r, ok
}

// RegisterLocal 注册本地类型
//
// 由本地类型的创建路径调用：记录立即处于本地已解析状态，
// 依赖视为完整。返回借出的序列化类型引用，由调用方 Unref。
func (l *Library) RegisterLocal(name string, repr []byte) (types.TypeID, *SerType) {
	id := types.HashTypeID(repr)

	l.mu.Lock()
	defer l.mu.Unlock()

	if r, ok := l.recs[id]; ok && r.sertype != nil {
		return id, r.sertype.Ref()
	}

	st := NewSerType(name, id)
	l.recs[id] = &Record{
		id:           id,
		state:        StateResolvedLocal,
		depsResolved: true,
		sertype:      st,
		payload:      append([]byte(nil), repr...),
	}
	l.broadcastLocked()

	log.Debug("local type registered", "typeID", id, "name", name)
	return id, st.Ref()
}

// NotePending 登记一个已发现但未解析的远端类型标识符
//
// 由发现路径在遇到未知的哈希类标识符时调用。
func (l *Library) NotePending(id types.TypeID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.recs[id]; !ok {
		l.recs[id] = &Record{id: id, state: StateUnresolved}
	}
}

// ResolveRemote 由网络应答线程写入远端解析结果
//
// depsComplete 表示依赖类型也已全部解析。写入后广播唤醒等待方。
func (l *Library) ResolveRemote(id types.TypeID, payload []byte, depsComplete bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.recs[id]
	if !ok {
		r = &Record{id: id}
		l.recs[id] = r
	}
	if r.state == StateUnresolved {
		r.state = StateResolvedRemote
	}
	if payload != nil {
		r.payload = append([]byte(nil), payload...)
	}
	if depsComplete {
		r.depsResolved = true
	}
	l.broadcastLocked()

	log.Debug("remote type resolved", "typeID", id, "depsComplete", depsComplete)
}

// broadcastLocked 关闭并更换解析广播门；调用方持锁
func (l *Library) broadcastLocked() {
	close(l.resolvedGate)
	l.resolvedGate = make(chan struct{})
}

// GateLocked 返回当前解析广播门；调用方持锁
func (l *Library) GateLocked() <-chan struct{} {
	return l.resolvedGate
}

// ============================================================================
//                              解析状态与结果
// ============================================================================

// ResolvedLocked 判断记录是否已解析；调用方持锁
//
// includeDeps 要求依赖类型也已解析完整（请求序列化类型时必需，
// 依赖不完整无法构造序列化类型）。
func (l *Library) ResolvedLocked(r *Record, includeDeps bool) bool {
	if r.state == StateUnresolved {
		return false
	}
	return !includeDeps || r.depsResolved
}

// SertypeLocked 借出记录的序列化类型；调用方持锁
//
// 仅收到远端类型对象而没有本地注册时，序列化类型可能不存在，
// 此时返回 nil——即便记录已处于已解析状态。
func (l *Library) SertypeLocked(r *Record) *SerType {
	if r.sertype == nil {
		return nil
	}
	return r.sertype.Ref()
}

// TypeObjLocked 物化记录的类型对象；调用方持锁
//
// 载荷不可用时返回 nil。物化结果进缓存，同一标识符的重复
// 请求返回同一对象。
func (l *Library) TypeObjLocked(r *Record) *TypeObj {
	if r.payload == nil {
		return nil
	}
	if obj, ok := l.objCache.Get(r.id); ok {
		return obj
	}
	obj := &TypeObj{ID: r.id, Payload: append([]byte(nil), r.payload...)}
	l.objCache.Add(r.id, obj)
	return obj
}

// Request 发出远端解析请求（在锁外调用）
func (l *Library) Request(id types.TypeID, includeDeps bool) bool {
	if l.requestFn == nil {
		return false
	}
	return l.requestFn(id, includeDeps)
}
