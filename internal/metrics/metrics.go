package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 生成结果标签
const (
	OutcomeFound         = "found"
	OutcomeNotApplicable = "not_applicable"
	OutcomeUnresolved    = "department_unresolved"
	OutcomeUnknownCode   = "unknown_code"
	OutcomeError         = "error"
)

// UnknownCodeLabel 未注册编码统一使用的 code 标签值，编码来自请求路径
const UnknownCodeLabel = "unknown"

// Metrics 证明文件生成的观测指标
// 所有方法对 nil 接收者安全，未启用指标时可直接传 nil
type Metrics struct {
	GenerationLatency    *prometheus.HistogramVec
	GenerationOutcome    *prometheus.CounterVec
	QueryLatency         *prometheus.HistogramVec
	OrchestrationLatency prometheus.Histogram
	OrchestrationResults prometheus.Histogram
}

// New 在指定 Registerer 上注册全部指标；reg 为 nil 时使用默认注册表
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		GenerationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "constancias_generation_duration_seconds",
			Help:    "Duration of a single certificate generation by code",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"code"}),

		GenerationOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "constancias_generation_outcomes_total",
			Help: "Certificate generation outcomes by code",
		}, []string{"code", "outcome"}),

		QueryLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "constancias_department_query_duration_seconds",
			Help:    "Duration of department-scoped database queries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"department", "status"}),

		OrchestrationLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "constancias_orchestration_duration_seconds",
			Help:    "Duration of a full orchestration run for one faculty member",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		OrchestrationResults: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "constancias_orchestration_results",
			Help:    "Number of applicable certificates returned per orchestration run",
			Buckets: prometheus.LinearBuckets(0, 5, 8),
		}),
	}
}

// ObserveGeneration 记录单次生成耗时与结果
func (m *Metrics) ObserveGeneration(code, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.GenerationLatency.WithLabelValues(code).Observe(d.Seconds())
	m.GenerationOutcome.WithLabelValues(code, outcome).Inc()
}

// IncrementOutcome 仅记录结果（如部门无法确定时的跳过）
func (m *Metrics) IncrementOutcome(code, outcome string) {
	if m != nil {
		m.GenerationOutcome.WithLabelValues(code, outcome).Inc()
	}
}

// IncrementUnknownCode 记录一次未注册编码，不以编码本身作标签
func (m *Metrics) IncrementUnknownCode() {
	m.IncrementOutcome(UnknownCodeLabel, OutcomeUnknownCode)
}

// ObserveQuery 记录部门库查询耗时
func (m *Metrics) ObserveQuery(department string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.QueryLatency.WithLabelValues(department, status).Observe(d.Seconds())
}

// ObserveOrchestration 记录一次编排的耗时与命中数量
func (m *Metrics) ObserveOrchestration(results int, d time.Duration) {
	if m == nil {
		return
	}
	m.OrchestrationLatency.Observe(d.Seconds())
	m.OrchestrationResults.Observe(float64(results))
}
