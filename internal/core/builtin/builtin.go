// Package builtin 提供内建主题的发布状态
//
// 每个域持有一份内建主题状态：参与者/发布/订阅三个内建主题的
// 本地类型注册与写者缓存占位。状态在协议栈启动前初始化、在
// 协议栈停止后逆序释放。
package builtin

import (
	"errors"
	"sync/atomic"

	"github.com/dep2p/go-dds/internal/core/typelib"
	"github.com/dep2p/go-dds/internal/util/logger"
	"github.com/dep2p/go-dds/pkg/types"
)

var log = logger.Logger("core/builtin")

// 内建主题名
const (
	TopicParticipant  = "DCPSParticipant"
	TopicPublication  = "DCPSPublication"
	TopicSubscription = "DCPSSubscription"
)

// State 一个域的内建主题发布状态
type State struct {
	domainID types.DomainID

	sertypes []*typelib.SerType
	active   atomic.Bool
}

// Init 初始化内建主题状态
//
// 向域类型库注册三个内建主题的本地类型。
func Init(domainID types.DomainID, tlib *typelib.Library) *State {
	s := &State{domainID: domainID}
	for _, name := range []string{TopicParticipant, TopicPublication, TopicSubscription} {
		_, st := tlib.RegisterLocal(name, []byte(name))
		s.sertypes = append(s.sertypes, st)
	}
	s.active.Store(true)
	log.Debug("builtin topics initialized", "domainID", domainID)
	return s
}

// Fini 释放内建主题状态
func (s *State) Fini() error {
	if !s.active.CompareAndSwap(true, false) {
		return errors.New("builtin: already finalized")
	}
	for _, st := range s.sertypes {
		st.Unref()
	}
	s.sertypes = nil
	log.Debug("builtin topics finalized", "domainID", s.domainID)
	return nil
}
