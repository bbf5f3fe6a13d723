package config

import "time"

// LivelinessConfig 线程存活监控配置
//
// 开启后，进程内所有开启该配置的域共享同一个看门狗实例；
// 实例在第一个需要它的域创建时启动，在最后一个释放时销毁。
type LivelinessConfig struct {
	// MonitorThreads 是否开启线程存活监控
	MonitorThreads bool `json:"monitor_threads"`

	// MonitorPeriod 看门狗巡检周期
	MonitorPeriod Duration `json:"monitor_period"`
}

// DefaultLivelinessConfig 返回存活监控配置默认值
func DefaultLivelinessConfig() LivelinessConfig {
	return LivelinessConfig{
		MonitorThreads: false,
		MonitorPeriod:  Duration(333 * time.Millisecond),
	}
}
