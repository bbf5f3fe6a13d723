package types

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// TypeIDKind 类型标识符类别
type TypeIDKind int

// 类型标识符类别常量
const (
	// TypeIDNone 空标识符
	TypeIDNone TypeIDKind = iota
	// TypeIDHash 基于内容哈希的标识符，支持远程解析
	TypeIDHash
	// TypeIDName 基于名称的标识符，仅限本地查找
	TypeIDName
)

// typeIDHashSize 哈希类标识符的等价哈希长度（字节）
const typeIDHashSize = 14

// TypeID 类型标识符
//
// 哈希类标识符由类型描述的内容哈希派生，是远程类型解析唯一支持
// 的形式；名称类标识符只能用于本地查找。零值即空标识符。
type TypeID struct {
	kind TypeIDKind
	hash [typeIDHashSize]byte
	name string
}

// HashTypeID 由类型描述内容构造哈希类标识符
func HashTypeID(repr []byte) TypeID {
	sum := blake3.Sum256(repr)
	var id TypeID
	id.kind = TypeIDHash
	copy(id.hash[:], sum[:typeIDHashSize])
	return id
}

// NameTypeID 由类型名构造名称类标识符
func NameTypeID(name string) TypeID {
	return TypeID{kind: TypeIDName, name: name}
}

// Kind 返回标识符类别
func (t TypeID) Kind() TypeIDKind {
	return t.kind
}

// IsNone 判断是否为空标识符
func (t TypeID) IsNone() bool {
	return t.kind == TypeIDNone
}

// IsHash 判断是否为哈希类标识符
func (t TypeID) IsHash() bool {
	return t.kind == TypeIDHash
}

// String 返回标识符的字符串表示
func (t TypeID) String() string {
	switch t.kind {
	case TypeIDHash:
		return "hash:" + hex.EncodeToString(t.hash[:])
	case TypeIDName:
		return "name:" + t.name
	default:
		return "none"
	}
}
