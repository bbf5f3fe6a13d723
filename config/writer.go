package config

// WriterConfig 写者默认配置
type WriterConfig struct {
	// Batching 新建写者的默认批量发送开关
	//
	// 运行期可通过全局批量开关改写各域的该字段，
	// 使其对调用返回后新建的写者同样生效。
	Batching bool `json:"batching"`
}

// DefaultWriterConfig 返回写者配置默认值
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{Batching: false}
}
