package config

// SharedMemoryConfig 共享内存传输配置
type SharedMemoryConfig struct {
	// Enable 是否启用共享内存传输
	//
	// 启用后域会额外持有一个共享内存监视器。
	Enable bool `json:"enable"`

	// LogLevel 底层共享内存运行时的日志级别
	LogLevel string `json:"log_level,omitempty"`
}

// DefaultSharedMemoryConfig 返回共享内存配置默认值
func DefaultSharedMemoryConfig() SharedMemoryConfig {
	return SharedMemoryConfig{Enable: false, LogLevel: "info"}
}
