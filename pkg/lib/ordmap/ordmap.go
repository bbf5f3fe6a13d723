// Package ordmap 提供按键有序的关联容器
//
// 支持最小键查找与"大于指定键的第一个键"（后继）查询。后继查询
// 是并发容忍遍历的基础：遍历方记录上一次见到的键，每轮重新查询
// 后继，因此容器在遍历间隙发生插入/删除也不会使游标失效。这种
// 遍历是 at-least-once 语义，不提供快照一致性，属于有意取舍。
//
// 容器本身不加锁，由调用方的互斥锁保护。
package ordmap

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Map 按键有序的关联容器
//
// 键维护在有序切片中，值存于哈希表；适合读多写少、需要有序
// 游标的小规模集合（域注册表、实体子节点表）。
type Map[K constraints.Ordered, V any] struct {
	keys []K
	vals map[K]V
}

// New 创建空容器
func New[K constraints.Ordered, V any]() *Map[K, V] {
	return &Map[K, V]{vals: make(map[K]V)}
}

// Len 返回元素个数
func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Lookup 按键查找
func (m *Map[K, V]) Lookup(k K) (V, bool) {
	v, ok := m.vals[k]
	return v, ok
}

// Insert 插入键值；键已存在时返回 false 且不覆盖
func (m *Map[K, V]) Insert(k K, v V) bool {
	if _, ok := m.vals[k]; ok {
		return false
	}
	i := sort.Search(len(m.keys), func(i int) bool { return m.keys[i] >= k })
	m.keys = append(m.keys, k)
	copy(m.keys[i+1:], m.keys[i:])
	m.keys[i] = k
	m.vals[k] = v
	return true
}

// Delete 按键删除；键不存在时返回 false
func (m *Map[K, V]) Delete(k K) bool {
	if _, ok := m.vals[k]; !ok {
		return false
	}
	i := sort.Search(len(m.keys), func(i int) bool { return m.keys[i] >= k })
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	delete(m.vals, k)
	return true
}

// Min 返回最小键的元素
func (m *Map[K, V]) Min() (K, V, bool) {
	if len(m.keys) == 0 {
		var zk K
		var zv V
		return zk, zv, false
	}
	k := m.keys[0]
	return k, m.vals[k], true
}

// Succ 返回严格大于 k 的最小键元素
func (m *Map[K, V]) Succ(k K) (K, V, bool) {
	i := sort.Search(len(m.keys), func(i int) bool { return m.keys[i] > k })
	if i == len(m.keys) {
		var zk K
		var zv V
		return zk, zv, false
	}
	key := m.keys[i]
	return key, m.vals[key], true
}

// SuccEq 返回大于等于 k 的最小键元素
func (m *Map[K, V]) SuccEq(k K) (K, V, bool) {
	i := sort.Search(len(m.keys), func(i int) bool { return m.keys[i] >= k })
	if i == len(m.keys) {
		var zk K
		var zv V
		return zk, zv, false
	}
	key := m.keys[i]
	return key, m.vals[key], true
}
