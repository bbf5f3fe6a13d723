package entity

import (
	"fmt"
	"sync"

	"github.com/dep2p/go-dds/pkg/types"
)

// Handle 实体句柄
//
// 进程内唯一的整数标识，经句柄表解析为实体引用。句柄在实体
// 最终释放时失效，此后的 pin 以参数错误失败。
type Handle int32

// HandleNil 无效句柄
const HandleNil Handle = 0

// String 返回句柄的字符串表示
func (h Handle) String() string {
	return fmt.Sprintf("entity:%d", int32(h))
}

// handleTable 进程级句柄表
var handleTable = struct {
	sync.RWMutex
	entities map[Handle]*Entity
	next     int32
}{entities: make(map[Handle]*Entity)}

// registerHandle 分配句柄并登记实体
func registerHandle(e *Entity) Handle {
	handleTable.Lock()
	handleTable.next++
	h := Handle(handleTable.next)
	handleTable.entities[h] = e
	handleTable.Unlock()
	return h
}

// unregisterHandle 从句柄表摘除
func unregisterHandle(h Handle) {
	handleTable.Lock()
	delete(handleTable.entities, h)
	handleTable.Unlock()
}

// Pin 按句柄 pin 实体
//
// 句柄已失效（对象已最终释放）或初始化尚未完成（InitComplete
// 之前）时返回 types.ErrBadParameter：句柄是顺序分配的小整数，
// 必须拒绝探测到处于构建中途的对象。已关闭但未释放的实体可以
// 被 pin，调用方应自行检查关闭标志，避免把排空中的对象当作
// 可共享对象交出。
//
// pin 的增加在句柄表读锁内完成，与"摘除句柄后排空 pin"的释放
// 顺序配合，保证不会在释放判定之后再出现新 pin。
func Pin(h Handle) (*Entity, error) {
	handleTable.RLock()
	defer handleTable.RUnlock()

	e, ok := handleTable.entities[h]
	if !ok {
		return nil, types.ErrBadParameter
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.complete {
		return nil, types.ErrBadParameter
	}
	e.pins++
	return e, nil
}
