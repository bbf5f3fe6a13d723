package types

import "errors"

// 返回码分类
//
// 所有公开操作都以下列分类之一（或其包装）作为失败结果；
// 普通失败路径不会 panic。
var (
	// ErrBadParameter 参数非法或自相矛盾
	//
	// 例如在要求具体域 id 处传入默认哨兵，或在要求哈希类
	// 类型标识符处传入名称类标识符。
	ErrBadParameter = errors.New("bad parameter")

	// ErrPreconditionNotMet 前置条件不满足
	//
	// 例如显式创建一个 id 已被占用的域，或类型解析请求无法发出。
	ErrPreconditionNotMet = errors.New("precondition not met")

	// ErrIllegalOperation 操作对象不支持该操作
	//
	// 例如对不归属任何域的实体执行域级操作。
	ErrIllegalOperation = errors.New("illegal operation")

	// ErrOutOfResources 资源不足
	ErrOutOfResources = errors.New("out of resources")

	// ErrTimeout 超时
	//
	// 仅用于零超时探测未命中；带截止时刻的等待到期不解析
	// 以"成功 + 空结果"返回，调用方通过输出判别。
	ErrTimeout = errors.New("timeout")

	// ErrAlreadyDeleted 对象已删除
	ErrAlreadyDeleted = errors.New("already deleted")

	// ErrNoData 删除契约哨兵：无后续通知数据
	//
	// 不是失败；实体原语的删除回调以此表示删除完成且无需进一步通知。
	ErrNoData = errors.New("no data")
)
