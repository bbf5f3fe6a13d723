// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 文本加载
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Liveliness.MonitorThreads = true
//
//	// 从 JSON 文本解析（域 id 解析见 Parse）
//	st, err := config.Parse(text, types.DomainDefault)
package config

import (
	"encoding/json"
	"fmt"

	"github.com/dep2p/go-dds/pkg/types"
)

// Config 是运行时的完整配置结构
//
// 配置按功能模块组织：
//   - Domain: 域标识
//   - Discovery: 发现行为参数（由协议栈消费）
//   - Liveliness: 线程存活监控
//   - SharedMemory: 共享内存传输
//   - Writer: 写者默认行为
type Config struct {
	// Domain 域配置
	Domain DomainConfig `json:"domain"`

	// Discovery 发现配置
	Discovery DiscoveryConfig `json:"discovery"`

	// Liveliness 线程存活监控配置
	Liveliness LivelinessConfig `json:"liveliness"`

	// SharedMemory 共享内存传输配置
	SharedMemory SharedMemoryConfig `json:"shared_memory"`

	// Writer 写者默认配置
	Writer WriterConfig `json:"writer"`
}

// NewConfig 创建带默认值的配置
func NewConfig() *Config {
	return &Config{
		Domain:       DefaultDomainConfig(),
		Discovery:    DefaultDiscoveryConfig(),
		Liveliness:   DefaultLivelinessConfig(),
		SharedMemory: DefaultSharedMemoryConfig(),
		Writer:       DefaultWriterConfig(),
	}
}

// FromJSON 从 JSON 数据解析配置
//
// 缺省字段取默认值。
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Clone 返回配置的深拷贝
//
// 域初始化时对来源配置做快照，之后域内的修改不回写来源。
func (c *Config) Clone() *Config {
	out := *c
	return &out
}

// DomainID 返回配置指定的域 id
//
// 未指定时返回 types.DomainDefault 哨兵。
func (c *Config) DomainID() types.DomainID {
	return c.Domain.ID
}
