package typelib

import (
	"sync/atomic"

	"github.com/dep2p/go-dds/pkg/types"
)

// ResolutionState 类型记录的解析状态
type ResolutionState int

// 解析状态常量
const (
	// StateUnresolved 标识符已知，内容未解析
	StateUnresolved ResolutionState = iota
	// StateResolvedLocal 由本地注册解析，带序列化类型
	StateResolvedLocal
	// StateResolvedRemote 由远端类型对象解析
	StateResolvedRemote
)

// SerType 本地序列化类型引用
//
// 按引用计数借出；Ref 返回的引用由调用方负责 Unref。
type SerType struct {
	name string
	id   types.TypeID
	refs atomic.Int32
}

// NewSerType 创建序列化类型（初始引用计数 1，属于类型库）
func NewSerType(name string, id types.TypeID) *SerType {
	st := &SerType{name: name, id: id}
	st.refs.Store(1)
	return st
}

// Name 返回类型名
func (s *SerType) Name() string { return s.name }

// TypeID 返回类型标识符
func (s *SerType) TypeID() types.TypeID { return s.id }

// Ref 借出一个引用
func (s *SerType) Ref() *SerType {
	s.refs.Add(1)
	return s
}

// Unref 归还一个引用
func (s *SerType) Unref() {
	s.refs.Add(-1)
}

// RefCount 返回当前引用计数（测试用）
func (s *SerType) RefCount() int32 {
	return s.refs.Load()
}

// TypeObj 不透明的类型对象载荷
type TypeObj struct {
	// ID 类型标识符
	ID types.TypeID
	// Payload 序列化的类型描述
	Payload []byte
}

// Record 类型库中的一条类型记录
//
// 仅在持有所属类型库锁时读写。
type Record struct {
	id           types.TypeID
	state        ResolutionState
	depsResolved bool
	sertype      *SerType
	payload      []byte
}

// ID 返回记录的类型标识符
func (r *Record) ID() types.TypeID { return r.id }

// State 返回解析状态
func (r *Record) State() ResolutionState { return r.state }
