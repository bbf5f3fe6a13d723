package config

import (
	"encoding/json"

	"github.com/dep2p/go-dds/pkg/types"
)

// DomainConfig 域标识配置
type DomainConfig struct {
	// ID 域 id；未指定时为 types.DomainDefault 哨兵
	ID types.DomainID `json:"id"`

	// Tag 域标签，用于同一 id 下的逻辑隔离
	Tag string `json:"tag,omitempty"`
}

// DefaultDomainConfig 返回域配置默认值
func DefaultDomainConfig() DomainConfig {
	return DomainConfig{ID: types.DomainDefault}
}

// UnmarshalJSON 实现 json.Unmarshaler
//
// 兼容两种形式：对象 {"id": 5, "tag": "x"} 与裸数字 5。
// 缺省 id 保持 DomainDefault 哨兵。
func (d *DomainConfig) UnmarshalJSON(data []byte) error {
	var id uint32
	if err := json.Unmarshal(data, &id); err == nil {
		d.ID = types.DomainID(id)
		return nil
	}

	type alias DomainConfig
	a := alias(DefaultDomainConfig())
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = DomainConfig(a)
	return nil
}

// DiscoveryConfig 发现行为参数
//
// 本核心不消费这些参数，它们随配置快照传入协议栈。
type DiscoveryConfig struct {
	// ParticipantLeaseDuration 参与者租约时长
	ParticipantLeaseDuration Duration `json:"participant_lease_duration"`

	// SPDPInterval 参与者发现报文间隔
	SPDPInterval Duration `json:"spdp_interval"`
}

// DefaultDiscoveryConfig 返回发现配置默认值
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		ParticipantLeaseDuration: Duration(10e9),
		SPDPInterval:             Duration(30e9),
	}
}
