package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics. Helper methods are nil-safe so
// instrumented code can run without a metrics registry.
type Metrics struct {
	// Evaluation metrics
	EvaluationsTotal   *prometheus.CounterVec
	EvaluationDuration *prometheus.HistogramVec

	// Permission cache metrics, mirrored from cache.Stats via
	// UpdateCacheStats.
	CacheHits          prometheus.Gauge
	CacheMisses        prometheus.Gauge
	CacheInvalidations prometheus.Gauge
	CacheItems         prometheus.Gauge

	// Mutation metrics
	MutationsTotal *prometheus.CounterVec

	// Role synchronization metrics
	RoleSyncChangesTotal *prometheus.CounterVec

	// Organization unit metrics
	MembershipChangesTotal *prometheus.CounterVec
	MembershipLimitHits    prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		EvaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatehouse_evaluations_total",
				Help: "Total number of permission evaluations",
			},
			[]string{"side", "decision"},
		),
		EvaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gatehouse_evaluation_duration_seconds",
				Help:    "Permission evaluation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"side"},
		),
		CacheHits: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "gatehouse_permission_cache_hits",
				Help: "Cumulative permission cache hits",
			},
		),
		CacheMisses: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "gatehouse_permission_cache_misses",
				Help: "Cumulative permission cache misses",
			},
		),
		CacheInvalidations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "gatehouse_permission_cache_invalidations",
				Help: "Cumulative permission cache invalidations",
			},
		),
		CacheItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "gatehouse_permission_cache_items",
				Help: "Current number of cached permission snapshots",
			},
		),
		MutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatehouse_permission_mutations_total",
				Help: "Total number of permission grant/prohibit mutations",
			},
			[]string{"operation"},
		),
		RoleSyncChangesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatehouse_role_sync_changes_total",
				Help: "Total number of role assignments changed by synchronization",
			},
			[]string{"operation"},
		),
		MembershipChangesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatehouse_ou_membership_changes_total",
				Help: "Total number of organization unit membership changes",
			},
			[]string{"operation"},
		),
		MembershipLimitHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gatehouse_ou_membership_limit_hits_total",
				Help: "Total number of membership additions rejected by the max count policy",
			},
		),
	}

	registry.MustRegister(
		m.EvaluationsTotal,
		m.EvaluationDuration,
		m.CacheHits,
		m.CacheMisses,
		m.CacheInvalidations,
		m.CacheItems,
		m.MutationsTotal,
		m.RoleSyncChangesTotal,
		m.MembershipChangesTotal,
		m.MembershipLimitHits,
	)

	return m
}

// RecordEvaluation records one evaluation outcome.
func (m *Metrics) RecordEvaluation(side string, granted bool, seconds float64) {
	if m == nil {
		return
	}
	decision := "denied"
	if granted {
		decision = "granted"
	}
	m.EvaluationsTotal.WithLabelValues(side, decision).Inc()
	m.EvaluationDuration.WithLabelValues(side).Observe(seconds)
}

// RecordMutation records one grant/prohibit mutation.
func (m *Metrics) RecordMutation(operation string) {
	if m == nil {
		return
	}
	m.MutationsTotal.WithLabelValues(operation).Inc()
}


// RecordRoleSyncChange records one role assignment change.
func (m *Metrics) RecordRoleSyncChange(operation string) {
	if m == nil {
		return
	}
	m.RoleSyncChangesTotal.WithLabelValues(operation).Inc()
}

// RecordMembershipChange records one organization unit membership change.
func (m *Metrics) RecordMembershipChange(operation string) {
	if m == nil {
		return
	}
	m.MembershipChangesTotal.WithLabelValues(operation).Inc()
}

// RecordMembershipLimitHit records one rejected membership addition.
func (m *Metrics) RecordMembershipLimitHit() {
	if m == nil {
		return
	}
	m.MembershipLimitHits.Inc()
}

// UpdateCacheStats mirrors cache counters into the gauges. Call it
// periodically or on scrape.
func (m *Metrics) UpdateCacheStats(hits, misses, invalidations, items int64) {
	if m == nil {
		return
	}
	m.CacheHits.Set(float64(hits))
	m.CacheMisses.Set(float64(misses))
	m.CacheInvalidations.Set(float64(invalidations))
	m.CacheItems.Set(float64(items))
}
