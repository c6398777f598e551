package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 监控指标
//
// 每个实例拥有独立的 Registry，所有记录方法对 nil 接收者安全。
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	PanicsTotal         prometheus.Counter

	// 业务指标
	SpacesCreated     prometheus.Counter
	EmailsReceived    *prometheus.CounterVec
	SpacesDeactivated prometheus.Counter
	CleanupRuns       *prometheus.CounterVec

	// 存储指标
	DatabaseConnections prometheus.Gauge
}

// NewMetrics 创建监控指标并注册 Go 运行时与进程采集器
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "honeypoty_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "honeypoty_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		PanicsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "honeypoty_panics_total",
				Help: "Total number of recovered panics",
			},
		),

		SpacesCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "honeypoty_spaces_created_total",
				Help: "Total number of email spaces created",
			},
		),

		EmailsReceived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "honeypoty_emails_received_total",
				Help: "Total number of emails recorded",
			},
			[]string{"source"},
		),

		SpacesDeactivated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "honeypoty_spaces_deactivated_total",
				Help: "Total number of email spaces deactivated by cleanup",
			},
		),

		CleanupRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "honeypoty_cleanup_runs_total",
				Help: "Total number of cleanup runs by result",
			},
			[]string{"result"},
		),

		DatabaseConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "honeypoty_database_connections",
				Help: "Number of open database connections",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordPanic 记录被恢复的 panic
func (m *Metrics) RecordPanic() {
	if m == nil {
		return
	}
	m.PanicsTotal.Inc()
}

// RecordSpaceCreated 记录新建空间
func (m *Metrics) RecordSpaceCreated() {
	if m == nil {
		return
	}
	m.SpacesCreated.Inc()
}

// RecordEmailReceived 记录收到的邮件，source 为 "http" 或 "smtp"
func (m *Metrics) RecordEmailReceived(source string) {
	if m == nil {
		return
	}
	m.EmailsReceived.WithLabelValues(source).Inc()
}

// RecordCleanup 记录一次清理执行
func (m *Metrics) RecordCleanup(deactivated int64, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.CleanupRuns.WithLabelValues("error").Inc()
		return
	}
	m.CleanupRuns.WithLabelValues("success").Inc()
	m.SpacesDeactivated.Add(float64(deactivated))
}

// UpdateDatabaseConnections 更新数据库连接数
func (m *Metrics) UpdateDatabaseConnections(count int) {
	if m == nil {
		return
	}
	m.DatabaseConnections.Set(float64(count))
}

// Registry 返回指标注册表
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// HTTPHandler 返回 Prometheus 抓取端点
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
