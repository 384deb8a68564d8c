package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports a Registry through a Prometheus registerer. It is an
// unchecked collector: the metric set grows as the verifier creates names.
type Collector struct {
	reg       *Registry
	namespace string
}

// NewCollector returns a Collector over reg. Metric names are prefixed with
// namespace when it is non-empty.
func NewCollector(reg *Registry, namespace string) *Collector {
	return &Collector{reg: reg, namespace: namespace}
}

// Describe sends nothing, which marks the collector as unchecked.
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.reg.mu.RLock()
	defer c.reg.mu.RUnlock()
	for name, ctr := range c.reg.counters {
		desc := prometheus.NewDesc(c.metricName(name), name, nil, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(ctr.Value()))
	}
	for name, h := range c.reg.histograms {
		desc := prometheus.NewDesc(c.metricName(name), name, nil, nil)
		counts := h.Buckets()
		upper := make(map[float64]uint64, NumBuckets-1)
		var cum uint64
		for i := 0; i < NumBuckets-1; i++ {
			cum += uint64(counts[i])
			upper[float64(uint64(1)<<i-1)] = cum
		}
		ch <- prometheus.MustNewConstHistogram(desc, uint64(h.Count()), float64(h.Sum()), upper)
	}
}

// metricName maps "evm/verify/runs" to "<namespace>_evm_verify_runs".
func (c *Collector) metricName(name string) string {
	s := strings.NewReplacer("/", "_", "-", "_", ".", "_").Replace(name)
	if c.namespace != "" {
		s = c.namespace + "_" + s
	}
	return s
}
