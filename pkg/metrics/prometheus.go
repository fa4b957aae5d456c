package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	timings = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "method_timing",
			Help:       "Per method timing",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"method"},
	)
	backendTimings = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "backend_request_timing",
			Help:       "Backend API request timing by path and status",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"path", "status"},
	)
	flowResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screen_flow_results_total",
			Help: "Outcomes of connect, reserve and top-up submissions",
		},
		[]string{"flow", "result"},
	)
)

func init() {
	prometheus.MustRegister(timings, backendTimings, flowResults)
}

func TimeTrackingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)
		handlerName := r.URL.Path
		timings.
			WithLabelValues(handlerName).
			Observe(float64(time.Since(start).Seconds()))
	})
}

type roundTripper struct {
	next http.RoundTripper
}

// InstrumentTransport observes every outgoing backend request.
func InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &roundTripper{next: next}
}

func (rt *roundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := rt.next.RoundTrip(r)
	status := "error"
	if err == nil {
		status = http.StatusText(resp.StatusCode)
	}
	backendTimings.
		WithLabelValues(r.URL.Path, status).
		Observe(time.Since(start).Seconds())
	return resp, err
}

// FlowResult counts one submission outcome, e.g. FlowResult("connect", "ok").
func FlowResult(flow, result string) {
	flowResults.WithLabelValues(flow, result).Inc()
}
