package http

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
)

type requestMetrics struct {
	duration *prometheus.HistogramVec
}

// newRequestMetrics returns nil when reg is nil; observe is a no-op then.
func newRequestMetrics(reg prometheus.Registerer) (*requestMetrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &requestMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portfolio",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	if err := reg.Register(m.duration); err != nil {
		return nil, eris.Wrap(err, "registering http metrics")
	}

	return m, nil
}

func (m *requestMetrics) observe(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.duration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (s *Server) registerMetricsRoute() {
	if s.gatherer == nil {
		return
	}

	handler := promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{
		ErrorLog:      promLogger{s},
		ErrorHandling: promhttp.ContinueOnError,
	})
	s.mux.Handle("GET /metrics", handler)
}

// promLogger routes promhttp errors into logrus.
type promLogger struct {
	s *Server
}

func (l promLogger) Println(v ...interface{}) {
	if l.s.logger != nil {
		l.s.logger.WithField("component", "metrics").Error(v...)
	}
}
