// Package metrics 提供监控指标功能.
// 支持Prometheus标准，收集HTTP与制品处理指标.
//
// Example:
//
//	import "github.com/yeisme/artifactvault/pkg/metrics"
//
//	metrics.InitMetrics(config.Metrics)
//	metrics.UploadCounter.WithLabelValues("stored").Inc()
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/artifactvault/pkg/configs"
)

// 全局指标变量.
var (
	// RequestCounter HTTP请求计数器.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint"},
	)

	// RequestDuration HTTP请求持续时间.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// UploadCounter 上传结果计数器，outcome: stored | deduplicated | rejected | failed.
	UploadCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifact_uploads_total",
			Help: "Total number of artifact uploads by outcome",
		},
		[]string{"outcome"},
	)

	// ProcessingCounter 处理结果计数器，outcome: completed | failed.
	ProcessingCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifact_processing_total",
			Help: "Total number of artifact processing attempts by outcome",
		},
		[]string{"outcome"},
	)

	// ProcessingDuration 单个制品处理耗时.
	ProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "artifact_processing_duration_seconds",
			Help:    "Artifact processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// QueueDepth 工作队列当前长度.
	QueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "artifact_queue_depth",
			Help: "Current number of artifacts waiting in the processing queue",
		},
	)

	registry = prometheus.NewRegistry()
)

// InitMetrics 注册所有指标.
func InitMetrics(cfg configs.MetricsConfig) error {
	if !cfg.Enabled {
		return nil
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestCounter,
		RequestDuration,
		UploadCounter,
		ProcessingCounter,
		ProcessingDuration,
		QueueDepth,
	)

	return nil
}

// Handler 返回暴露指标的 gin 处理器.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
