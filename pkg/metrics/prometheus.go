package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PromConfig holds configuration for the PromRecorder.
type PromConfig struct {
	Namespace      string   `yaml:"namespace" json:"namespace"`
	Subsystem      string   `yaml:"subsystem" json:"subsystem"`
	MetricsPath    string   `yaml:"metrics_path" json:"metrics_path"`
	EnabledMetrics []string `yaml:"enabled_metrics" json:"enabled_metrics"`
}

// DefaultPromConfig returns the default configuration.
func DefaultPromConfig() PromConfig {
	return PromConfig{
		Namespace:   "conformance",
		MetricsPath: "/metrics",
		EnabledMetrics: []string{
			"checks", "violations", "audits", "gauges",
		},
	}
}

func promEnabled(enabledList []string, name string) bool {
	for _, e := range enabledList {
		if e == name {
			return true
		}
	}
	return false
}

// PromRecorder implements Recorder backed by a private
// Prometheus registry, so embedding applications never collide
// with the default registry.
type PromRecorder struct {
	config   PromConfig
	registry *prometheus.Registry

	ChecksTotal         *prometheus.CounterVec
	CheckDuration       *prometheus.HistogramVec
	ViolationsTotal     *prometheus.CounterVec
	AuditRunsTotal      prometheus.Counter
	RegisteredContracts prometheus.Gauge
	ActiveAudits        prometheus.Gauge
}

// NewPromRecorder creates a PromRecorder with the default
// configuration.
func NewPromRecorder() *PromRecorder {
	return NewPromRecorderWithConfig(DefaultPromConfig())
}

// NewPromRecorderWithConfig creates a PromRecorder with the
// given config. Metric families can be switched off through
// EnabledMetrics.
func NewPromRecorderWithConfig(cfg PromConfig) *PromRecorder {
	reg := prometheus.NewRegistry()
	enabled := cfg.EnabledMetrics
	ns := cfg.Namespace
	sub := cfg.Subsystem

	pr := &PromRecorder{
		config:   cfg,
		registry: reg,
	}

	if promEnabled(enabled, "checks") {
		pr.ChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "checks_total",
			Help:      "Total number of conformance checks",
		}, []string{"contract", "outcome"})

		pr.CheckDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "check_duration_seconds",
			Help:      "Duration of conformance checks in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"contract"})

		reg.MustRegister(pr.ChecksTotal)
		reg.MustRegister(pr.CheckDuration)
	}

	if promEnabled(enabled, "violations") {
		pr.ViolationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "violations_total",
			Help:      "Total number of contract violations",
		}, []string{"contract", "operation", "reason"})

		reg.MustRegister(pr.ViolationsTotal)
	}

	if promEnabled(enabled, "audits") {
		pr.AuditRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "audit_runs_total",
			Help:      "Total number of audit runs",
		})

		reg.MustRegister(pr.AuditRunsTotal)
	}

	if promEnabled(enabled, "gauges") {
		pr.RegisteredContracts = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "registered_contracts",
			Help:      "Number of contracts in the registry",
		})

		pr.ActiveAudits = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "active_audits",
			Help:      "Number of currently running audits",
		})

		reg.MustRegister(pr.RegisteredContracts)
		reg.MustRegister(pr.ActiveAudits)
	}

	return pr
}

// MetricsPath returns the configured metrics endpoint path.
func (p *PromRecorder) MetricsPath() string {
	return p.config.MetricsPath
}

// Handler returns an HTTP handler that serves the recorder's
// private registry.
func (p *PromRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// RecordCheck increments the check counter and observes the
// check duration.
func (p *PromRecorder) RecordCheck(
	contract, outcome string, duration time.Duration,
) {
	if p.ChecksTotal != nil {
		p.ChecksTotal.WithLabelValues(contract, outcome).Inc()
	}
	if p.CheckDuration != nil {
		p.CheckDuration.WithLabelValues(contract).
			Observe(duration.Seconds())
	}
}

// RecordViolation increments the violation counter.
func (p *PromRecorder) RecordViolation(
	contract, operation, reason string,
) {
	if p.ViolationsTotal != nil {
		p.ViolationsTotal.
			WithLabelValues(contract, operation, reason).Inc()
	}
}

// IncRunTotal increments the audit run counter.
func (p *PromRecorder) IncRunTotal() {
	if p.AuditRunsTotal != nil {
		p.AuditRunsTotal.Inc()
	}
}

// SetRegisteredContracts sets the registered contracts gauge.
func (p *PromRecorder) SetRegisteredContracts(count int) {
	if p.RegisteredContracts != nil {
		p.RegisteredContracts.Set(float64(count))
	}
}

// SetActiveAudits sets the in-flight audits gauge.
func (p *PromRecorder) SetActiveAudits(count int) {
	if p.ActiveAudits != nil {
		p.ActiveAudits.Set(float64(count))
	}
}
