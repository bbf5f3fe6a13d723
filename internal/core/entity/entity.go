// Package entity 提供引用计数与可 pin 的实体原语
//
// 实体是运行时对象树的节点：域、参与者、写者、读者都嵌入一个
// Entity。原语区分两种获取方式：
//
//   - 所有权引用（ref）：长生命周期的共享所有权，计数归零触发
//     派生对象的删除回调，进入删除流程；
//   - pin：短生命周期的存活保证借用，保证对象在 unpin 之前不被
//     释放，但不阻止其进入关闭（closed）状态。
//
// 已关闭但未释放的实体仍可被 pin（用于排空场景）；初始化尚未
// 完成或已从句柄表移除的实体无法被 pin。最终释放会等待所有
// pin 排空。
package entity

import (
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-dds/internal/util/logger"
	"github.com/dep2p/go-dds/pkg/lib/ordmap"
	"github.com/dep2p/go-dds/pkg/types"
)

var log = logger.Logger("core/entity")

// iidCounter 实例标识分配器，进程内单调递增
var iidCounter atomic.Uint64

// NextIID 分配一个新的实例标识
func NextIID() types.InstanceHandle {
	return types.InstanceHandle(iidCounter.Add(1))
}

// Deriver 派生对象的生命周期回调
type Deriver interface {
	// Delete 在所有权引用计数归零后被调用，执行派生对象的
	// 完整销毁流程。返回 types.ErrNoData 表示删除完成且无
	// 后续通知数据。
	Delete(e *Entity) error
}

// Entity 实体基类
//
// 字段由 mu 保护；children 以实例标识为键，支持后继游标遍历。
type Entity struct {
	mu       sync.Mutex
	pinDrain *sync.Cond

	hdl  Handle
	kind types.EntityKind
	iid  types.InstanceHandle

	parent   *Entity
	children *ordmap.Map[types.InstanceHandle, *Entity]

	deriver Deriver

	refs   int32
	pins   int32
	closed bool

	// complete 表示初始化已结束，句柄对外可用
	complete bool

	// domain 归属域（*domain.Domain，由 domain 包设置；
	// 根实体与域自身的该字段含义见 SetDomain）
	domain any
}

// Init 初始化实体基类并登记句柄
//
// 新实体携带一个所有权引用（创建者的）；句柄此刻已分配，但在
// InitComplete 之前无法被 pin。对象树插入由调用方负责。
func (e *Entity) Init(kind types.EntityKind, deriver Deriver) Handle {
	e.kind = kind
	e.iid = NextIID()
	e.deriver = deriver
	e.children = ordmap.New[types.InstanceHandle, *Entity]()
	e.refs = 1
	e.pinDrain = sync.NewCond(&e.mu)
	e.hdl = registerHandle(e)
	return e.hdl
}

// InitComplete 标记初始化完成，此后句柄可被 pin
func (e *Entity) InitComplete() {
	e.mu.Lock()
	e.complete = true
	e.mu.Unlock()
}

// Handle 返回实体句柄
func (e *Entity) Handle() Handle { return e.hdl }

// Kind 返回实体类别
func (e *Entity) Kind() types.EntityKind { return e.kind }

// IID 返回实例标识
func (e *Entity) IID() types.InstanceHandle { return e.iid }

// Parent 返回父实体
func (e *Entity) Parent() *Entity { return e.parent }

// Deriver 返回派生对象
//
// 树遍历经由它还原具体实体类型（域/参与者/写者）。
func (e *Entity) Deriver() Deriver { return e.deriver }

// SetDomain 记录归属域
func (e *Entity) SetDomain(d any) { e.domain = d }

// Domain 返回归属域；根实体返回 nil
func (e *Entity) Domain() any { return e.domain }

// Lock 锁定实体
//
// 树遍历需要按"锁父、pin 子、放父、处理子"的顺序交错持锁，
// 因此锁对包外（internal 内）可见。
func (e *Entity) Lock() { e.mu.Lock() }

// Unlock 解锁实体
func (e *Entity) Unlock() { e.mu.Unlock() }

// ============================================================================
//                              引用与 pin
// ============================================================================

// AddRefLocked 增加所有权引用；调用方持有实体锁
func (e *Entity) AddRefLocked() {
	e.refs++
}

// RepinLocked 追加一个 pin；调用方持有实体锁
//
// 用于已查得且已锁定的实体，为返回给调用方的句柄建立存活保证。
func (e *Entity) RepinLocked() {
	e.pins++
}

// Unpin 释放一个 pin
func (e *Entity) Unpin() {
	e.mu.Lock()
	e.pins--
	if e.pins < 0 {
		log.Error("pin count went negative", "handle", e.hdl, "kind", e.kind)
		e.pins = 0
	}
	if e.pins == 0 {
		e.pinDrain.Broadcast()
	}
	e.mu.Unlock()
}

// DropRef 释放一个所有权引用
//
// 计数归零时置 closed 并同步执行派生对象的删除回调；
// 调用时不得持有该实体的 pin 或锁。
func (e *Entity) DropRef() error {
	e.mu.Lock()
	e.refs--
	last := e.refs == 0
	if last {
		e.closed = true
	}
	e.mu.Unlock()

	if !last {
		return nil
	}
	return e.deriver.Delete(e)
}

// UnpinAndDropRef 先释放 pin 再释放所有权引用
func (e *Entity) UnpinAndDropRef() error {
	e.Unpin()
	return e.DropRef()
}

// IsClosedLocked 返回关闭标志；调用方持有实体锁
func (e *Entity) IsClosedLocked() bool { return e.closed }

// IsClosed 返回关闭标志
func (e *Entity) IsClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// ============================================================================
//                              对象树
// ============================================================================

// RegisterChild 将 child 挂入 parent 的子节点表
func RegisterChild(parent, child *Entity) {
	parent.mu.Lock()
	parent.children.Insert(child.iid, child)
	child.parent = parent
	parent.mu.Unlock()
}

// ChildSuccLocked 返回实例标识严格大于 last 的第一个子节点；
// 调用方持有实体锁
func (e *Entity) ChildSuccLocked(last types.InstanceHandle) (*Entity, bool) {
	_, c, ok := e.children.Succ(last)
	return c, ok
}

// ============================================================================
//                              最终释放
// ============================================================================

// FinalDeinitBeforeFree 执行释放前的最后一步
//
// 顺序：从句柄表摘除（此后 pin 必然失败）→ 从父节点摘除 →
// 等待存量 pin 排空。返回后实体内存即可释放。
func (e *Entity) FinalDeinitBeforeFree() {
	unregisterHandle(e.hdl)

	if e.parent != nil {
		e.parent.mu.Lock()
		e.parent.children.Delete(e.iid)
		e.parent.mu.Unlock()
	}

	e.mu.Lock()
	e.closed = true
	for e.pins > 0 {
		e.pinDrain.Wait()
	}
	e.mu.Unlock()
}
