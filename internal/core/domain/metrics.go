package domain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 域生命周期指标
var (
	metricDomainsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dds",
		Subsystem: "domain",
		Name:      "created_total",
		Help:      "累计创建的域数",
	})

	metricDomainsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dds",
		Subsystem: "domain",
		Name:      "active",
		Help:      "当前存活的域数",
	})

	metricTypeWaitsCached = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dds",
		Subsystem: "typewait",
		Name:      "cache_hits_total",
		Help:      "类型解析等待的缓存命中次数",
	})

	metricTypeWaitsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dds",
		Subsystem: "typewait",
		Name:      "requests_total",
		Help:      "发出的远端类型解析请求次数",
	})
)
