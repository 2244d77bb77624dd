// Package metrics exposes registration counters and latencies in the
// Prometheus format.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kduhealth/medportal/internal/log"
	"github.com/kduhealth/medportal/internal/registration"
)

const namespace = "medportal"

// Registration records sign-up attempts. It implements registration.Metrics.
type Registration struct {
	registry *prometheus.Registry

	attempts  prometheus.Counter
	outcomes  *prometheus.CounterVec
	latency   prometheus.Histogram
	orphans   prometheus.Counter
	orphanGap prometheus.Gauge
}

var _ registration.Metrics = (*Registration)(nil)

// New registers the collectors on a fresh registry.
func New() *Registration {
	m := &Registration{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registration_attempts_total",
			Help:      "Sign-up submissions that passed the in-flight guard.",
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registration_outcomes_total",
			Help:      "Sign-up submissions by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "registration_duration_seconds",
			Help:      "Time from submit to success or failure.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
		orphans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphaned_identities_created_total",
			Help:      "Identities created whose profile write then failed.",
		}),
		orphanGap: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orphaned_identities",
			Help:      "Identities without a Users document at the last orphan report.",
		}),
	}
	m.registry.MustRegister(m.attempts, m.outcomes, m.latency, m.orphans, m.orphanGap)
	return m
}

func (m *Registration) ObserveAttempt() {
	m.attempts.Inc()
}

func (m *Registration) ObserveOutcome(outcome registration.Outcome, elapsed time.Duration) {
	m.outcomes.WithLabelValues(string(outcome)).Inc()
	if outcome != registration.OutcomeRejected {
		m.latency.Observe(elapsed.Seconds())
	}
}

func (m *Registration) ObserveOrphan(string) {
	m.orphans.Inc()
}

// SetOrphanCount records the size of the latest orphan report.
func (m *Registration) SetOrphanCount(n int) {
	m.orphanGap.Set(float64(n))
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Registration) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *Registration) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Registration) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info(log.CatMetrics, "serving metrics", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
