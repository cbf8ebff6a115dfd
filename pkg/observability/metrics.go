package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "algotrace"

// Cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Collector holds the engine instruments. A nil *Collector is valid and
// records nothing, so callers never need to check.
type Collector struct {
	registry *prometheus.Registry

	runsBuilt   *prometheus.CounterVec
	runSteps    *prometheus.HistogramVec
	cacheLookup *prometheus.CounterVec
	emissions   *prometheus.CounterVec
	sessions    prometheus.Gauge
}

// NewCollector creates a registry with the engine instruments plus the Go
// runtime and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		runsBuilt: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_built_total",
			Help:      "Runs produced, by algorithm.",
		}, []string{"algorithm"}),
		runSteps: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_steps",
			Help:      "Number of steps per produced run.",
			Buckets:   prometheus.ExponentialBuckets(4, 2, 12), // 4 .. 8192
		}, []string{"algorithm"}),
		cacheLookup: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Run cache lookups, by result.",
		}, []string{"result"}),
		emissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playback_emissions_total",
			Help:      "Player events delivered to sessions, by type.",
		}, []string{"event"}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Live playback sessions.",
		}),
	}
}

// RunBuilt records a produced run.
func (c *Collector) RunBuilt(algorithm string, steps int) {
	if c == nil {
		return
	}
	c.runsBuilt.WithLabelValues(algorithm).Inc()
	c.runSteps.WithLabelValues(algorithm).Observe(float64(steps))
}

// CacheLookup records a cache result (CacheHit, CacheMiss or CacheError).
func (c *Collector) CacheLookup(result string) {
	if c == nil {
		return
	}
	c.cacheLookup.WithLabelValues(result).Inc()
}

// Emission records one player event ("step", "play", "pause", "reset").
func (c *Collector) Emission(event string) {
	if c == nil {
		return
	}
	c.emissions.WithLabelValues(event).Inc()
}

// SessionOpened increments the live session gauge.
func (c *Collector) SessionOpened() {
	if c == nil {
		return
	}
	c.sessions.Inc()
}

// SessionClosed decrements the live session gauge.
func (c *Collector) SessionClosed() {
	if c == nil {
		return
	}
	c.sessions.Dec()
}

// Registry exposes the underlying registry, e.g. for testutil.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Instruments exposes the engine instruments to tests.
func (c *Collector) Instruments() (runsBuilt, cacheLookups, emissions *prometheus.CounterVec, sessions prometheus.Gauge) {
	return c.runsBuilt, c.cacheLookup, c.emissions, c.sessions
}
