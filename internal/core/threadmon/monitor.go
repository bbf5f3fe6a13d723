// Package threadmon 提供线程存活看门狗
//
// 进程内至多一个实例，被所有开启存活监控的域共享并按引用计数
// 管理：第一个需要它的域创建并启动，最后一个释放的域停止并
// 销毁。计数的维护在域注册表的临界区内完成，不属于本包。
//
// 看门狗按固定周期巡检每个已注册域的协议栈心跳计数；相邻两次
// 巡检之间计数未推进即判定为疑似停摆，记录告警。
package threadmon

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-dds/internal/util/logger"
	"github.com/dep2p/go-dds/pkg/types"
)

var log = logger.Logger("core/threadmon")

// Watched 被巡检的域视图
type Watched interface {
	// DomainID 域 id
	DomainID() types.DomainID
	// Progress 协议栈心跳计数
	Progress() uint64
}

// Monitor 线程存活看门狗
type Monitor struct {
	period    time.Duration
	logStalls bool
	clk       clock.Clock

	mu       sync.Mutex
	domains  map[types.DomainID]Watched
	lastSeen map[types.DomainID]uint64

	running atomic.Bool
	closed  atomic.Bool
	done    chan struct{}

	stalls atomic.Uint64
}

// New 创建看门狗
func New(period time.Duration, logStalls bool) (*Monitor, error) {
	return NewWithClock(period, logStalls, clock.New())
}

// NewWithClock 以指定时钟创建看门狗（测试用）
func NewWithClock(period time.Duration, logStalls bool, clk clock.Clock) (*Monitor, error) {
	if period <= 0 {
		return nil, errors.New("threadmon: period must be positive")
	}
	return &Monitor{
		period:    period,
		logStalls: logStalls,
		clk:       clk,
		domains:   make(map[types.DomainID]Watched),
		lastSeen:  make(map[types.DomainID]uint64),
		done:      make(chan struct{}),
	}, nil
}

// Start 启动巡检线程
func (m *Monitor) Start(name string) error {
	if m.closed.Load() {
		return errors.New("threadmon: already freed")
	}
	if !m.running.CompareAndSwap(false, true) {
		return errors.New("threadmon: already started")
	}

	go m.watchLoop(name)

	log.Info("thread liveliness monitor started", "name", name, "period", m.period)
	return nil
}

// Stop 停止巡检线程
func (m *Monitor) Stop() {
	if !m.running.CompareAndSwap(true, false) {
		return
	}
	close(m.done)
	log.Info("thread liveliness monitor stopped")
}

// Free 销毁看门狗
//
// 必须在 Stop 之后调用；之后实例不可复用。
func (m *Monitor) Free() {
	if m.running.Load() {
		m.Stop()
	}
	m.closed.Store(true)
}

// ============================================================================
//                              域注册
// ============================================================================

// RegisterDomain 将域纳入巡检
func (m *Monitor) RegisterDomain(w Watched) {
	m.mu.Lock()
	m.domains[w.DomainID()] = w
	m.lastSeen[w.DomainID()] = w.Progress()
	m.mu.Unlock()
	log.Debug("domain registered with thread monitor", "domainID", w.DomainID())
}

// UnregisterDomain 将域移出巡检
func (m *Monitor) UnregisterDomain(w Watched) {
	m.mu.Lock()
	delete(m.domains, w.DomainID())
	delete(m.lastSeen, w.DomainID())
	m.mu.Unlock()
	log.Debug("domain unregistered from thread monitor", "domainID", w.DomainID())
}

// DomainCount 返回在巡检中的域数（测试用）
func (m *Monitor) DomainCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.domains)
}

// StallCount 返回累计判停次数（测试用）
func (m *Monitor) StallCount() uint64 {
	return m.stalls.Load()
}

// ============================================================================
//                              巡检循环
// ============================================================================

func (m *Monitor) watchLoop(name string) {
	ticker := m.clk.Ticker(m.period)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep(name)
		}
	}
}

// sweep 巡检一轮：比较各域心跳是否推进
func (m *Monitor) sweep(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, w := range m.domains {
		cur := w.Progress()
		if cur == m.lastSeen[id] {
			m.stalls.Add(1)
			if m.logStalls {
				log.Warn("thread liveliness stall suspected",
					"monitor", name,
					"domainID", id,
					"progress", cur)
			}
		}
		m.lastSeen[id] = cur
	}
}
