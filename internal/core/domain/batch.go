package domain

import (
	"github.com/dep2p/go-dds/internal/core/entity"
	"github.com/dep2p/go-dds/pkg/types"
)

// SetWriteBatch 全局写者批量开关
//
// 遍历注册表中的每个域：先改写域的批量默认值（对之后新建的
// 写者生效），再把开关下推到域内全部存量写者。遍历用 id 后继
// 游标推进，与并发的域创建/销毁共存：调用开始后新出现的域
// 可能被带到也可能被错过，不做快照一致性承诺。
func (g *Instance) SetWriteBatch(enabled bool) {
	g.mu.Lock()
	var nextID types.DomainID
	for {
		_, dom, ok := g.domains.SuccEq(nextID)
		if !ok {
			break
		}
		curID := dom.id
		nextID = curID + 1

		dom.whcBatch.Store(enabled)

		// 域内子节点同样用后继游标推进；每轮重查域还在不在，
		// 销毁中的域直接跳过剩余子树。
		var last types.InstanceHandle
		for {
			cur, ok := g.domains.Lookup(curID)
			if !ok || cur != dom {
				break
			}
			dom.ent.Lock()
			c, ok := dom.ent.ChildSuccLocked(last)
			if !ok {
				dom.ent.Unlock()
				break
			}
			last = c.IID()
			pinned, err := entity.Pin(c.Handle())
			dom.ent.Unlock()
			if err != nil {
				continue
			}

			g.mu.Unlock()
			pushdownSetBatch(pinned, enabled)
			g.mu.Lock()
			pinned.Unpin()
		}

		if curID == types.DomainID(^uint32(0)) {
			break
		}
	}
	g.mu.Unlock()
	log.Info("write batching set", "enabled", enabled)
}

// pushdownSetBatch 把批量开关下推到 e 为根的子树
//
// 遍历模式：锁父、取后继、pin 子、放父锁、递归处理子、重取
// 父锁、unpin。递归期间不持有父锁，子节点在被 pin 期间保证
// 存活；pin 失败说明子节点已最终释放，跳过即可。
func pushdownSetBatch(e *entity.Entity, enabled bool) {
	if w, ok := e.Deriver().(*Writer); ok {
		w.batch.Store(enabled)
		return
	}

	var last types.InstanceHandle
	e.Lock()
	for {
		c, ok := e.ChildSuccLocked(last)
		if !ok {
			break
		}
		last = c.IID()
		pinned, err := entity.Pin(c.Handle())
		if err != nil {
			continue
		}
		e.Unlock()

		pushdownSetBatch(pinned, enabled)

		e.Lock()
		pinned.Unpin()
	}
	e.Unlock()
}
