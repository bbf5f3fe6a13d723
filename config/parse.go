package config

import (
	"fmt"
	"sync/atomic"

	"github.com/dep2p/go-dds/internal/util/logger"
	"github.com/dep2p/go-dds/pkg/types"
)

var log = logger.Logger("config")

// ParseState 一次文本配置解析的持有状态
//
// 域对象在初始化时持有它，并在销毁时恰好释放一次。
type ParseState struct {
	cfg      *Config
	source   string
	released atomic.Bool
}

// Parse 解析文本配置并解析域 id
//
// 域 id 解析遵循以下优先级表：
//
//	| 请求 id  | 配置中的 id | 结果
//	+---------+------------+------
//	| 默认哨兵 | 未指定      | 0
//	| 默认哨兵 | n          | n
//	| n       | 未指定      | n
//	| n       | m = n      | n
//	| n       | m /= n     | n，配置中的 id 被忽略
//
// 空文本等价于全默认配置。返回的 ParseState 中配置的域 id
// 一定是具体值，不再是哨兵。
func Parse(text string, requestedID types.DomainID) (*ParseState, error) {
	var cfg *Config
	var err error

	if text == "" {
		cfg = NewConfig()
	} else if cfg, err = FromJSON([]byte(text)); err != nil {
		return nil, err
	}

	resolveDomainID(cfg, requestedID)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config rejected: %w", err)
	}

	return &ParseState{cfg: cfg, source: text}, nil
}

// resolveDomainID 按优先级表写回最终域 id
func resolveDomainID(cfg *Config, requestedID types.DomainID) {
	switch {
	case requestedID != types.DomainDefault:
		cfg.Domain.ID = requestedID
	case cfg.Domain.ID == types.DomainDefault:
		cfg.Domain.ID = 0
	}
}

// Config 返回解析得到的配置
func (s *ParseState) Config() *Config {
	return s.cfg
}

// Release 释放解析状态
//
// 调用方保证恰好释放一次；重复释放记录告警并忽略。
func (s *ParseState) Release() {
	if !s.released.CompareAndSwap(false, true) {
		log.Warn("config parse state released twice", "domainID", s.cfg.Domain.ID)
	}
}

// Released 返回是否已释放（测试用）
func (s *ParseState) Released() bool {
	return s.released.Load()
}
