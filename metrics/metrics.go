// Package metrics exposes schema builder counters to prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/relatable/relatable/schema"
)

type BuilderCollector struct {
	b *schema.Builder

	documents *prometheus.Desc
	rejected  *prometheus.Desc
	dropped   *prometheus.Desc
	conflicts *prometheus.Desc
}

func NewBuilderCollector(b *schema.Builder) *BuilderCollector {
	return &BuilderCollector{
		b: b,
		documents: prometheus.NewDesc(
			"relatable_documents_total",
			"Documents folded into the schema.",
			nil, nil),
		rejected: prometheus.NewDesc(
			"relatable_documents_rejected_total",
			"Malformed documents skipped during the scan.",
			nil, nil),
		dropped: prometheus.NewDesc(
			"relatable_dropped_list_fields_total",
			"Complex list fields dropped because lists of sub-documents are unsupported.",
			nil, nil),
		conflicts: prometheus.NewDesc(
			"relatable_name_conflicts_total",
			"Observations dropped because a name was already classified the other way.",
			nil, nil),
	}
}

func (c *BuilderCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.documents
	ch <- c.rejected
	ch <- c.dropped
	ch <- c.conflicts
}

func (c *BuilderCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.b.Stats()
	ch <- prometheus.MustNewConstMetric(c.documents, prometheus.CounterValue, float64(s.Documents))
	ch <- prometheus.MustNewConstMetric(c.rejected, prometheus.CounterValue, float64(s.Rejected))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(s.DroppedListFields))
	ch <- prometheus.MustNewConstMetric(c.conflicts, prometheus.CounterValue, float64(s.NameConflicts))
}
