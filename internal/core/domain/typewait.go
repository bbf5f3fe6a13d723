package domain

import (
	"time"

	"github.com/dep2p/go-dds/internal/core/entity"
	"github.com/dep2p/go-dds/internal/core/typelib"
	"github.com/dep2p/go-dds/pkg/types"
)

// WaitForTypeResolved 等待类型解析完成
//
// 经 h 所属域的类型库解析 typeID。wantSertype/wantTypeobj 至少
// 其一为真；请求序列化类型时要求依赖类型也解析完整。
//
// 行为分支：
//   - typeID 不是哈希类标识符，或两个输出都未请求：参数错误；
//   - 类型库中无记录：前置条件错误（从未见过的类型不发请求）；
//   - 缓存命中走快速路径，不发远端请求；
//   - timeout 为 0 且未命中：超时错误；
//   - 远端请求无法发出：前置条件错误；
//   - 等待中截止期到达：返回成功与空结果，调用方据输出判断。
//
// 最后一条与 timeout=0 的行为不对称，是有意保留的契约：零超时
// 表达"只查缓存"，到期返回则表达"请求已发出但在期限内未完成"。
func (g *Instance) WaitForTypeResolved(
	h entity.Handle,
	typeID types.TypeID,
	timeout time.Duration,
	wantSertype, wantTypeobj bool,
) (*typelib.SerType, *typelib.TypeObj, error) {
	if !wantSertype && !wantTypeobj {
		return nil, nil, types.ErrBadParameter
	}
	if typeID.IsNone() || !typeID.IsHash() {
		return nil, nil, types.ErrBadParameter
	}

	e, err := entity.Pin(h)
	if err != nil {
		return nil, nil, err
	}
	defer e.Unpin()

	dom, ok := e.Domain().(*Domain)
	if !ok || dom == nil {
		return nil, nil, types.ErrIllegalOperation
	}

	includeDeps := wantSertype
	lib := dom.stack.TypeLib()

	lib.Lock()
	rec, ok := lib.LookupLocked(typeID)
	if !ok {
		lib.Unlock()
		return nil, nil, types.ErrPreconditionNotMet
	}

	if wantSertype {
		if st := lib.SertypeLocked(rec); st != nil {
			lib.Unlock()
			metricTypeWaitsCached.Inc()
			return st, nil, nil
		}
	}
	if wantTypeobj && lib.ResolvedLocked(rec, includeDeps) {
		obj := lib.TypeObjLocked(rec)
		lib.Unlock()
		metricTypeWaitsCached.Inc()
		return nil, obj, nil
	}
	if timeout == 0 {
		lib.Unlock()
		return nil, nil, types.ErrTimeout
	}
	lib.Unlock()

	if !lib.Request(typeID, includeDeps) {
		return nil, nil, types.ErrPreconditionNotMet
	}
	metricTypeWaitsIssued.Inc()

	deadline, never := types.AbsDeadline(lib.Clock().Now(), timeout)

	lib.Lock()
	for !lib.ResolvedLocked(rec, includeDeps) {
		gate := lib.GateLocked()
		lib.Unlock()

		if never {
			<-gate
			lib.Lock()
			continue
		}

		remaining := deadline.Sub(lib.Clock().Now())
		if remaining <= 0 {
			lib.Lock()
			break
		}
		timer := lib.Clock().Timer(remaining)
		expired := false
		select {
		case <-gate:
		case <-timer.C:
			expired = true
		}
		timer.Stop()

		lib.Lock()
		if expired {
			break
		}
	}

	// 循环出口统一重查一次：到期与解析完成可能同时发生，
	// 此时以解析结果为准。
	var st *typelib.SerType
	var obj *typelib.TypeObj
	if lib.ResolvedLocked(rec, includeDeps) {
		if wantSertype {
			st = lib.SertypeLocked(rec)
		}
		if wantTypeobj {
			obj = lib.TypeObjLocked(rec)
		}
	}
	lib.Unlock()
	return st, obj, nil
}

// SetDeafMute 设置 h 所属域的收/发抑制
func (g *Instance) SetDeafMute(h entity.Handle, deaf, mute bool, resetAfter time.Duration) error {
	e, err := entity.Pin(h)
	if err != nil {
		return err
	}
	defer e.Unpin()

	dom, ok := e.Domain().(*Domain)
	if !ok || dom == nil {
		return types.ErrIllegalOperation
	}
	dom.stack.SetDeafMute(deaf, mute, resetAfter)
	return nil
}
