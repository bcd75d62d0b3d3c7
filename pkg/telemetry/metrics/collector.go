package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sentra-labs/sentra/pkg/config"
)

// Collector owns the Prometheus registry and all pipeline metrics.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	decisionsTotal      *prometheus.CounterVec
	decisionRiskScore   prometheus.Histogram
	decisionDuration    prometheus.Histogram
	rulesExtractedTotal prometheus.Counter
	clausesSkippedTotal prometheus.Counter
	auditAppendDuration prometheus.Histogram
	auditAppendErrors   prometheus.Counter
	activeRulesetRules  prometheus.Gauge
}

// NewCollector creates a metrics collector with its own registry. If
// registry is nil a fresh one is used.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "sentra"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "governance"
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decisions_total",
				Help:      "Total number of governance decisions by outcome",
			},
			[]string{"status"},
		),

		decisionRiskScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decision_risk_score",
				Help:      "Risk scores of governance decisions",
				Buckets:   []float64{0, 2.5, 5, 10, 20, 40, 80, 160},
			},
		),

		decisionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decision_duration_seconds",
				Help:      "End-to-end governance decision latency",
				// Decisions are pure in-memory evaluation and should be fast
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),

		rulesExtractedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rules_extracted_total",
				Help:      "Total rules extracted from uploaded policy documents",
			},
		),

		clausesSkippedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "clauses_skipped_total",
				Help:      "Total unclassifiable clauses skipped during parsing",
			},
		),

		auditAppendDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "audit_append_duration_seconds",
				Help:      "Audit storage write latency",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
		),

		auditAppendErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "audit_append_errors_total",
				Help:      "Total failed audit storage writes",
			},
		),

		activeRulesetRules: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "active_ruleset_rules",
				Help:      "Number of rules in the active rule set",
			},
		),
	}

	registry.MustRegister(
		c.decisionsTotal,
		c.decisionRiskScore,
		c.decisionDuration,
		c.rulesExtractedTotal,
		c.clausesSkippedTotal,
		c.auditAppendDuration,
		c.auditAppendErrors,
		c.activeRulesetRules,
	)

	return c
}

// RecordDecision records one governance decision.
func (c *Collector) RecordDecision(status string, riskScore float64, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.decisionsTotal.WithLabelValues(status).Inc()
	c.decisionRiskScore.Observe(riskScore)
	c.decisionDuration.Observe(duration.Seconds())
}

// RecordExtraction records the outcome of one policy upload.
func (c *Collector) RecordExtraction(rules, skipped int) {
	if !c.config.Enabled {
		return
	}
	c.rulesExtractedTotal.Add(float64(rules))
	c.clausesSkippedTotal.Add(float64(skipped))
}

// ObserveAuditAppend records one audit storage write.
func (c *Collector) ObserveAuditAppend(duration time.Duration, err error) {
	if !c.config.Enabled {
		return
	}
	c.auditAppendDuration.Observe(duration.Seconds())
	if err != nil {
		c.auditAppendErrors.Inc()
	}
}

// SetActiveRules updates the active rule set gauge.
func (c *Collector) SetActiveRules(n int) {
	if !c.config.Enabled {
		return
	}
	c.activeRulesetRules.Set(float64(n))
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
