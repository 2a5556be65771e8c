package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	pending      []prometheus.Collector
)

// register enqueues collectors from the init() of each metrics file.
// Nothing is visible to Prometheus until MustRegister runs.
func register(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

// MustRegister installs every enqueued collector. Safe to call more than
// once; only the first call registers.
func MustRegister() {
	registerOnce.Do(func() {
		if len(pending) > 0 {
			prometheus.MustRegister(pending...)
		}
	})
}

// norm keeps label values stable regardless of caller casing.
func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
