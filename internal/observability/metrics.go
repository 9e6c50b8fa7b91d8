package observability

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lunatwin"

// Metrics holds every collector the service exports on /metrics.
type Metrics struct {
	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	twinsCreated      prometheus.Counter
	lifestyleUpdates  prometheus.Counter
	personaAssigned   *prometheus.CounterVec
	chatReplies       *prometheus.CounterVec
	simulations       *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
	realtimePublished *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// MustNewMetrics registers the collectors with reg and panics on a conflicting registration.
// Pass a fresh prometheus.NewRegistry() in tests.
func MustNewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help: "HTTP request latency.", Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http", Name: "inflight_requests",
			Help: "Requests currently being served.",
		}),
		twinsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "twin", Name: "created_total",
			Help: "Twins created.",
		}),
		lifestyleUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "twin", Name: "lifestyle_updates_total",
			Help: "Committed lifestyle updates.",
		}),
		personaAssigned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "twin", Name: "persona_assigned_total",
			Help: "Personas assigned on create or update.",
		}, []string{"persona"}),
		chatReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "chat", Name: "replies_total",
			Help: "Chat replies by matched topic.",
		}, []string{"topic"}),
		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "simulation", Name: "runs_total",
			Help: "Projections run by horizon in days.",
		}, []string{"horizon"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "lookups_total",
			Help: "Cache lookups by cache and result.",
		}, []string{"cache", "result"}),
		realtimePublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "realtime", Name: "events_total",
			Help: "Realtime events published by event name.",
		}, []string{"event"}),
		gatherer: reg,
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.twinsCreated, m.lifestyleUpdates, m.personaAssigned,
		m.chatReplies, m.simulations, m.cacheLookups, m.realtimePublished,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, errors.New("metrics disabled").Error(), http.StatusNotFound)
		})
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) TwinCreated(persona string) {
	if m == nil {
		return
	}
	m.twinsCreated.Inc()
	m.personaAssigned.WithLabelValues(persona).Inc()
}

func (m *Metrics) LifestyleUpdated(persona string) {
	if m == nil {
		return
	}
	m.lifestyleUpdates.Inc()
	m.personaAssigned.WithLabelValues(persona).Inc()
}

func (m *Metrics) ChatReply(topic string) {
	if m != nil {
		m.chatReplies.WithLabelValues(topic).Inc()
	}
}

func (m *Metrics) Simulation(horizon string) {
	if m != nil {
		m.simulations.WithLabelValues(horizon).Inc()
	}
}

func (m *Metrics) CacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(cache, result).Inc()
}

func (m *Metrics) RealtimePublished(event string) {
	if m != nil {
		m.realtimePublished.WithLabelValues(event).Inc()
	}
}
