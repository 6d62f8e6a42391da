package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cachespec"

// Collector exports Counters as Prometheus counters.
type Collector struct {
	counters *Counters

	evaluations *prometheus.Desc
	results     *prometheus.Desc
	hookErrors  *prometheus.Desc
	identities  *prometheus.Desc
	delayed     *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

func NewCollector(counters *Counters, constLabels prometheus.Labels) *Collector {
	return &Collector{
		counters: counters,
		evaluations: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "evaluations_total"),
			"Number of cache entry evaluations.", nil, constLabels),
		results: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "evaluation_results_total"),
			"Evaluations by outcome.", []string{"outcome"}, constLabels),
		hookErrors: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "hook_errors_total"),
			"Evaluations aborted by a value source or generator error.", nil, constLabels),
		identities: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "identities_total"),
			"Computed dependency and invalidation ids.", []string{"kind"}, constLabels),
		delayed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "delayed_invalidations_total"),
			"Command evaluations that delayed their invalidations.", nil, constLabels),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.evaluations
	ch <- c.results
	ch <- c.hookErrors
	ch <- c.identities
	ch <- c.delayed
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.counters.snapshot()
	ch <- prometheus.MustNewConstMetric(c.evaluations, prometheus.CounterValue, float64(s.evaluations))
	ch <- prometheus.MustNewConstMetric(c.results, prometheus.CounterValue, float64(s.cacheable), "cacheable")
	ch <- prometheus.MustNewConstMetric(c.results, prometheus.CounterValue, float64(s.notCacheable), "not_cacheable")
	ch <- prometheus.MustNewConstMetric(c.hookErrors, prometheus.CounterValue, float64(s.hookErrors))
	ch <- prometheus.MustNewConstMetric(c.identities, prometheus.CounterValue, float64(s.dependencyIDs), "dependency")
	ch <- prometheus.MustNewConstMetric(c.identities, prometheus.CounterValue, float64(s.invalidationIDs), "invalidation")
	ch <- prometheus.MustNewConstMetric(c.delayed, prometheus.CounterValue, float64(s.delayed))
}
