// Package types 定义 go-dds 的公共基础类型
//
// 本包只包含跨组件共享的值类型与错误分类，不依赖任何内部实现包。
package types

import "fmt"

// DomainID 域标识符
//
// 域是发布/订阅运行时的顶级容器，每个域持有一个协议栈实例
// 和一棵参与者/写者/读者实体树。
type DomainID uint32

// DomainDefault 域 id 哨兵值
//
// 含义为"使用配置中指定的域 id"；在隐式获取场景下，
// 若配置也未指定，则共享当前 id 最小的已存在域。
const DomainDefault DomainID = 0xffffffff

// String 返回域 id 的字符串表示
func (id DomainID) String() string {
	if id == DomainDefault {
		return "default"
	}
	return fmt.Sprintf("%d", uint32(id))
}

// InstanceHandle 实体实例标识
//
// 进程内单调递增，作为实体树"后继游标"遍历的排序键。
type InstanceHandle uint64

// EntityKind 实体类别
type EntityKind int

// 实体类别常量
const (
	// KindRuntime 进程级根实体，所有域的父节点
	KindRuntime EntityKind = iota
	// KindDomain 域实体
	KindDomain
	// KindParticipant 参与者实体
	KindParticipant
	// KindTopic 主题实体
	KindTopic
	// KindWriter 写者实体
	KindWriter
	// KindReader 读者实体
	KindReader
)

// String 返回实体类别的字符串表示
func (k EntityKind) String() string {
	switch k {
	case KindRuntime:
		return "runtime"
	case KindDomain:
		return "domain"
	case KindParticipant:
		return "participant"
	case KindTopic:
		return "topic"
	case KindWriter:
		return "writer"
	case KindReader:
		return "reader"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}
