package abicodec

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch results recorded by Metrics.
const (
	resultOK      = "ok"
	resultUnknown = "unknown"
	resultError   = "error"
)

// Metrics counts dispatch outcomes per table. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	dispatchTotal *prometheus.CounterVec
}

// NewMetrics creates dispatch counters and registers them on reg.
// A nil reg leaves the counters unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		dispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "abicodec",
				Name:      "dispatch_total",
				Help:      "Total number of dispatch lookups by table and result",
			},
			[]string{"table", "result"}, // ok, unknown, error
		),
	}
	if reg != nil {
		if err := reg.Register(m.dispatchTotal); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNewMetrics is like NewMetrics but panics on error.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	m, err := NewMetrics(reg)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Metrics) observe(table, result string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(table, result).Inc()
}
