// Package metrics defines the write-only sink the link service reports to
// and its Prometheus implementation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "urlshort"

// Operation labels.
const (
	OpShorten  = "shorten"
	OpRedirect = "redirect"
	OpStats    = "stats"
)

// Sink receives service events. Implementations must be safe for concurrent
// use and must not block or fail the caller.
type Sink interface {
	IncCreated()
	IncRedirects()
	IncNotFound()
	ObserveLatency(operation string, d time.Duration)
}

// Nop discards everything.
type Nop struct{}

func (Nop) IncCreated()                          {}
func (Nop) IncRedirects()                        {}
func (Nop) IncNotFound()                         {}
func (Nop) ObserveLatency(string, time.Duration) {}

var latencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0}

type Prometheus struct {
	created   prometheus.Counter
	redirects prometheus.Counter
	notFound  prometheus.Counter
	latency   *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "created_total",
			Help:      "Total number of URLs successfully shortened.",
		}),
		redirects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redirects_total",
			Help:      "Total number of successful redirects.",
		}),
		notFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "not_found_total",
			Help:      "Total number of lookups of unknown short codes.",
		}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_latency_seconds",
			Help:      "Latency of link operations in seconds.",
			Buckets:   latencyBuckets,
		}, []string{"operation"}),
	}

	reg.MustRegister(p.created, p.redirects, p.notFound, p.latency)

	return p
}

func (p *Prometheus) IncCreated() {
	p.created.Inc()
}

func (p *Prometheus) IncRedirects() {
	p.redirects.Inc()
}

func (p *Prometheus) IncNotFound() {
	p.notFound.Inc()
}

func (p *Prometheus) ObserveLatency(operation string, d time.Duration) {
	p.latency.WithLabelValues(operation).Observe(d.Seconds())
}
