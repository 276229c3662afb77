// Package metrics exposes loss trees to Prometheus.
//
// Collector reads running values at scrape time: every node of the tree
// becomes one sample labelled by its path, position and kind. Sibling
// components may share a name, so only the position label is unique. Recorder counts the
// updates a training loop performs and how long they take.
//
// Neither type mutates a loss. Scraping while Update runs on the same tree
// is a data race; gather between steps, or from replicas that are idle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/born-ml/lossmix/internal/loss"
)

// Node kinds used as the "kind" label.
const (
	KindComposite = "composite"
	KindLeaf      = "leaf"
)

// Collector implements prometheus.Collector over a loss tree.
type Collector struct {
	root         loss.Loss
	value        *prometheus.Desc
	accumulating *prometheus.Desc
}

// NewCollector creates a collector for root. Metric names are prefixed
// with namespace.
func NewCollector(namespace string, root loss.Loss) *Collector {
	labels := []string{"path", "index", "kind"}
	return &Collector{
		root: root,
		value: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "loss", "value"),
			"Running value of a loss since its last reset.",
			labels, nil,
		),
		accumulating: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "loss", "accumulating"),
			"1 if the loss has been updated since its last reset.",
			labels, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.value
	ch <- c.accumulating
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	_ = loss.Walk(c.root, func(n loss.Node) error {
		kind := KindLeaf
		if !n.IsLeaf() {
			kind = KindComposite
		}
		path, index := n.PathString(), n.PositionString()
		ch <- prometheus.MustNewConstMetric(c.value, prometheus.GaugeValue, n.Loss.Value(), path, index, kind)

		var acc float64
		if loss.IsAccumulating(n.Loss) {
			acc = 1
		}
		ch <- prometheus.MustNewConstMetric(c.accumulating, prometheus.GaugeValue, acc, path, index, kind)
		return nil
	})
}
