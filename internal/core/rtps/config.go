package rtps

import (
	"fmt"
	"time"

	"github.com/dep2p/go-dds/config"
	"github.com/dep2p/go-dds/pkg/types"
)

// Config 协议栈运行配置快照
//
// 由域在初始化时从来源配置导出；此后属于域所有，域内的修改
// （例如全局批量开关）不回写来源配置。
type Config struct {
	// DomainID 解析后的具体域 id
	DomainID types.DomainID

	// LivelinessMonitoring 是否参与线程存活监控
	LivelinessMonitoring bool

	// MonitorPeriod 看门狗巡检周期
	MonitorPeriod time.Duration

	// EnableSHM 是否启用共享内存传输
	EnableSHM bool

	// WHCBatch 写者批量发送默认值
	//
	// 全局批量开关会在注册表锁内改写该字段，使之对调用返回
	// 后新建的写者生效。
	WHCBatch bool

	// ParticipantLeaseDuration 参与者租约时长
	ParticipantLeaseDuration time.Duration

	// SPDPInterval 参与者发现报文间隔
	SPDPInterval time.Duration
}

// PrepareConfig 从来源配置导出协议栈运行配置
//
// 来源配置中的域 id 必须已解析为具体值。
func PrepareConfig(src *config.Config) (Config, error) {
	if src.Domain.ID == types.DomainDefault {
		return Config{}, fmt.Errorf("prepare stack config: domain id not resolved")
	}
	if err := src.Validate(); err != nil {
		return Config{}, fmt.Errorf("prepare stack config: %w", err)
	}
	return Config{
		DomainID:                 src.Domain.ID,
		LivelinessMonitoring:     src.Liveliness.MonitorThreads,
		MonitorPeriod:            src.Liveliness.MonitorPeriod.Duration(),
		EnableSHM:                src.SharedMemory.Enable,
		WHCBatch:                 src.Writer.Batching,
		ParticipantLeaseDuration: src.Discovery.ParticipantLeaseDuration.Duration(),
		SPDPInterval:             src.Discovery.SPDPInterval.Duration(),
	}, nil
}
