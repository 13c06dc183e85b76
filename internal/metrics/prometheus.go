// Package metrics exposes Prometheus metrics for sync runs. The daemon
// serves them over HTTP; one-shot commands update them but never listen.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once     sync.Once
	registry *Registry
)

// Registry holds all sync metrics.
type Registry struct {
	// Run metrics
	SyncRuns     *prometheus.CounterVec
	SyncDuration prometheus.Histogram
	LastSyncTime prometheus.Gauge
	BannedIPs    prometheus.Gauge

	// Per-domain metrics
	DomainSyncs  *prometheus.CounterVec
	ListsCreated prometheus.Counter
	RulesCreated prometheus.Counter

	// Extraction metrics
	ChainsScanned prometheus.Gauge

	// Provider API metrics
	APIRequests *prometheus.CounterVec
	APILatency  *prometheus.HistogramVec
}

// Get returns the global metrics registry, creating it if necessary.
func Get() *Registry {
	once.Do(func() {
		registry = newRegistry()
	})
	return registry
}

func newRegistry() *Registry {
	r := &Registry{}

	r.SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edgeban_sync_runs_total",
		Help: "Total sync runs by outcome",
	}, []string{"status"})

	r.SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "edgeban_sync_duration_seconds",
		Help:    "Wall time of a full sync run",
		Buckets: prometheus.DefBuckets,
	})

	r.LastSyncTime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "edgeban_last_sync_timestamp",
		Help: "Unix timestamp of the last completed sync run",
	})

	r.BannedIPs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "edgeban_banned_ips",
		Help: "Number of banned IPs pushed in the last run",
	})

	r.DomainSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edgeban_domain_syncs_total",
		Help: "Per-domain sync outcomes",
	}, []string{"domain", "status"})

	r.ListsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edgeban_lists_created_total",
		Help: "Provider IP lists created",
	})

	r.RulesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edgeban_rules_created_total",
		Help: "Zone firewall rules created",
	})

	r.ChainsScanned = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "edgeban_chains_scanned",
		Help: "Ban chains found in the last extraction",
	})

	r.APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edgeban_api_requests_total",
		Help: "Provider API requests by method and status",
	}, []string{"method", "status"})

	r.APILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "edgeban_api_request_duration_seconds",
		Help:    "Provider API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	return r
}

// RecordRun records the outcome of a full sync run.
func (r *Registry) RecordRun(ok bool, duration time.Duration, ipCount int) {
	r.SyncRuns.WithLabelValues(statusLabel(ok)).Inc()
	r.SyncDuration.Observe(duration.Seconds())
	r.LastSyncTime.SetToCurrentTime()
	r.BannedIPs.Set(float64(ipCount))
}

// RecordDomain records one domain's sync outcome.
func (r *Registry) RecordDomain(domain string, ok bool) {
	r.DomainSyncs.WithLabelValues(domain, statusLabel(ok)).Inc()
}

// RecordAPIRequest records a provider API call. Status 0 means the request
// never produced a response.
func (r *Registry) RecordAPIRequest(method string, status int, duration time.Duration) {
	r.APIRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	r.APILatency.WithLabelValues(method).Observe(duration.Seconds())
}

func statusLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
