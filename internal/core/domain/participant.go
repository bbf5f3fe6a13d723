package domain

import (
	"sync/atomic"

	"github.com/dep2p/go-dds/internal/core/entity"
	"github.com/dep2p/go-dds/pkg/types"
)

// Participant 域内参与者
//
// 参与者存活期间对所属域持有一个所有权引用，最后一个引用随
// 参与者销毁归还；隐式创建的域因此在最后一个参与者消失且所有
// 显式持有方释放后自动销毁。
type Participant struct {
	ent entity.Entity
	dom *Domain
}

// CreateParticipant 在域内创建参与者
func CreateParticipant(d *Domain) (*Participant, error) {
	d.ent.Lock()
	if d.ent.IsClosedLocked() {
		d.ent.Unlock()
		return nil, types.ErrAlreadyDeleted
	}
	d.ent.AddRefLocked()
	d.ent.Unlock()

	// 先标记完成再挂树：树遍历只应看到可 pin 的子节点
	p := &Participant{dom: d}
	p.ent.Init(types.KindParticipant, p)
	p.ent.SetDomain(d)
	p.ent.InitComplete()
	entity.RegisterChild(&d.ent, &p.ent)

	log.Debug("participant created", "domainID", d.id, "handle", p.ent.Handle())
	return p, nil
}

// Entity 返回实体基类
func (p *Participant) Entity() *entity.Entity { return &p.ent }

// Handle 返回实体句柄
func (p *Participant) Handle() entity.Handle { return p.ent.Handle() }

// Domain 返回所属域
func (p *Participant) Domain() *Domain { return p.dom }

// Release 释放调用方的所有权引用
func (p *Participant) Release() error {
	err := p.ent.DropRef()
	if err == types.ErrNoData {
		return nil
	}
	return err
}

// Delete 实现 entity.Deriver
func (p *Participant) Delete(e *entity.Entity) error {
	e.FinalDeinitBeforeFree()
	log.Debug("participant deleted", "domainID", p.dom.id)
	if err := p.dom.ent.DropRef(); err != nil && err != types.ErrNoData {
		log.Error("domain ref release failed", "domainID", p.dom.id, "err", err)
	}
	return types.ErrNoData
}

// ============================================================================
//                                  写者
// ============================================================================

// Writer 域内写者
//
// 生命周期核心只关心写者的批量发送开关；数据通路在传输层。
type Writer struct {
	ent entity.Entity
	par *Participant

	// batch 批量发送开关，创建时取所属域的当前默认值
	batch atomic.Bool
}

// CreateWriter 在参与者下创建写者
func CreateWriter(p *Participant) (*Writer, error) {
	p.ent.Lock()
	if p.ent.IsClosedLocked() {
		p.ent.Unlock()
		return nil, types.ErrAlreadyDeleted
	}
	p.ent.AddRefLocked()
	p.ent.Unlock()

	w := &Writer{par: p}
	w.batch.Store(p.dom.whcBatch.Load())
	w.ent.Init(types.KindWriter, w)
	w.ent.SetDomain(p.dom)
	w.ent.InitComplete()
	entity.RegisterChild(&p.ent, &w.ent)

	log.Debug("writer created", "domainID", p.dom.id, "batch", w.batch.Load())
	return w, nil
}

// Entity 返回实体基类
func (w *Writer) Entity() *entity.Entity { return &w.ent }

// Handle 返回实体句柄
func (w *Writer) Handle() entity.Handle { return w.ent.Handle() }

// Batch 返回批量发送开关
func (w *Writer) Batch() bool { return w.batch.Load() }

// Release 释放调用方的所有权引用
func (w *Writer) Release() error {
	err := w.ent.DropRef()
	if err == types.ErrNoData {
		return nil
	}
	return err
}

// Delete 实现 entity.Deriver
func (w *Writer) Delete(e *entity.Entity) error {
	e.FinalDeinitBeforeFree()
	if err := w.par.ent.DropRef(); err != nil && err != types.ErrNoData {
		log.Error("participant ref release failed", "err", err)
	}
	return types.ErrNoData
}
