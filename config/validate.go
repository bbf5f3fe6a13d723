package config

import (
	"fmt"

	"github.com/dep2p/go-dds/pkg/types"
)

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Domain.ID != types.DomainDefault && uint32(c.Domain.ID) > maxConcreteDomainID {
		return fmt.Errorf("domain id %d out of range [0, %d]", uint32(c.Domain.ID), maxConcreteDomainID)
	}
	if c.Liveliness.MonitorThreads && c.Liveliness.MonitorPeriod <= 0 {
		return fmt.Errorf("liveliness monitor period must be positive, got %s", c.Liveliness.MonitorPeriod)
	}
	if c.Discovery.ParticipantLeaseDuration <= 0 {
		return fmt.Errorf("participant lease duration must be positive, got %s", c.Discovery.ParticipantLeaseDuration)
	}
	if c.Discovery.SPDPInterval <= 0 {
		return fmt.Errorf("spdp interval must be positive, got %s", c.Discovery.SPDPInterval)
	}
	return nil
}

// maxConcreteDomainID 具体域 id 的上限（保留高位区间给哨兵）
const maxConcreteDomainID = 230
