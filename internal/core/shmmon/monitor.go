// Package shmmon 提供共享内存监视器
//
// 启用共享内存传输的域各持有一个监视器，负责监听共享内存
// 运行时的唤醒事件并把就绪的读者派发出去。监视器随域的
// 初始化创建、随域的销毁同步销毁。
package shmmon

import (
	"errors"
	"sync/atomic"

	"github.com/dep2p/go-dds/internal/util/logger"
	"github.com/dep2p/go-dds/pkg/types"
)

var log = logger.Logger("core/shmmon")

// Monitor 共享内存监视器
type Monitor struct {
	domainID types.DomainID

	running atomic.Bool
	done    chan struct{}

	// wakeups 唤醒事件计数
	wakeups atomic.Uint64
	events  chan struct{}
}

// New 创建并启动监视器
func New(domainID types.DomainID) (*Monitor, error) {
	m := &Monitor{
		domainID: domainID,
		done:     make(chan struct{}),
		events:   make(chan struct{}, 64),
	}
	if !m.running.CompareAndSwap(false, true) {
		return nil, errors.New("shm monitor: already running")
	}
	go m.listenLoop()
	log.Info("shm monitor started", "domainID", domainID)
	return m, nil
}

// Wake 注入一次唤醒事件（共享内存运行时回调）
func (m *Monitor) Wake() {
	select {
	case m.events <- struct{}{}:
	default:
		// 队列满时事件合并，读者下一轮统一处理
	}
}

// Wakeups 返回累计唤醒次数（测试用）
func (m *Monitor) Wakeups() uint64 {
	return m.wakeups.Load()
}

// Destroy 停止并销毁监视器
func (m *Monitor) Destroy() error {
	if !m.running.CompareAndSwap(true, false) {
		return errors.New("shm monitor: already destroyed")
	}
	close(m.done)
	log.Info("shm monitor destroyed", "domainID", m.domainID)
	return nil
}

func (m *Monitor) listenLoop() {
	for {
		select {
		case <-m.done:
			return
		case <-m.events:
			m.wakeups.Add(1)
		}
	}
}
