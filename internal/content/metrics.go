package content

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
)

// Source identifies which tier of the fallback chain served a read.
type Source string

const (
	SourceRemote  Source = "remote"
	SourceCache   Source = "cache"
	SourceDefault Source = "default"
)

// Metrics counts fallback behaviour per entity.
type Metrics struct {
	reads        *prometheus.CounterVec
	remoteErrors *prometheus.CounterVec
}

// NewMetrics registers the content counters with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, eris.New("prometheus registerer is required")
	}

	m := &Metrics{
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "content",
			Name:      "reads_total",
			Help:      "Content reads by entity and the tier that served them.",
		}, []string{"entity", "source"}),
		remoteErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "remote_errors_total",
			Help:      "Failed remote document store operations by entity and operation.",
		}, []string{"entity", "operation"}),
	}

	for _, collector := range []prometheus.Collector{m.reads, m.remoteErrors} {
		if err := reg.Register(collector); err != nil {
			return nil, eris.Wrap(err, "registering content metrics")
		}
	}

	return m, nil
}

func (m *Metrics) observeRead(entity string, source Source) {
	if m == nil {
		return
	}
	m.reads.WithLabelValues(entity, string(source)).Inc()
}

func (m *Metrics) observeRemoteError(entity, operation string) {
	if m == nil {
		return
	}
	m.remoteErrors.WithLabelValues(entity, operation).Inc()
}
