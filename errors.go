package dds

import "github.com/dep2p/go-dds/pkg/types"

// 公共错误定义
//
// 与内部实现共享同一组哨兵，调用方用 errors.Is 判别。
var (
	// ────────────────────────────────────────────────────────────────────────
	// 参数与状态错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrBadParameter 参数非法（含句柄已失效）
	ErrBadParameter = types.ErrBadParameter

	// ErrPreconditionNotMet 前置条件不满足
	//
	// 显式创建撞上既有域、等待从未见过的类型、解析请求无法
	// 发出，都属于这一类。
	ErrPreconditionNotMet = types.ErrPreconditionNotMet

	// ErrIllegalOperation 对象不支持该操作
	ErrIllegalOperation = types.ErrIllegalOperation

	// ErrAlreadyDeleted 对象已删除
	ErrAlreadyDeleted = types.ErrAlreadyDeleted

	// ────────────────────────────────────────────────────────────────────────
	// 资源与时限错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrOutOfResources 资源不足
	ErrOutOfResources = types.ErrOutOfResources

	// ErrTimeout 超时（零超时的缓存探测未命中也用它）
	ErrTimeout = types.ErrTimeout
)
