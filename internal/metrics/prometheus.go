package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portfolio_relay"

var _ Recorder = (*PrometheusRecorder)(nil)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	dispatches       *prom.CounterVec
	dispatchDuration prom.Histogram
	authFailures     prom.Counter
}

// NewPrometheusRecorder constructs the relay metrics and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	pr := &PrometheusRecorder{
		dispatches: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Regenerate requests forwarded upstream, by outcome",
		}, []string{"outcome"}),
		dispatchDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of upstream dispatch calls",
			Buckets:   prom.DefBuckets,
		}),
		authFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Requests rejected for a missing or incorrect secret",
		}),
	}
	reg.MustRegister(pr.dispatches, pr.dispatchDuration, pr.authFailures)

	return pr
}

func (p *PrometheusRecorder) IncDispatch(outcome DispatchOutcome) {
	p.dispatches.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveDispatchDuration(d time.Duration) {
	p.dispatchDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncAuthFailure() {
	p.authFailures.Inc()
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
