package metric

import "github.com/prometheus/client_golang/prometheus"

// Collector reports a gauge sampled at scrape time.
type Collector struct {
	desc   *prometheus.Desc
	sample func() float64
}

// NewCollector creates a collector for hllrcon_<name>.
func NewCollector(name, help string, sample func() float64) *Collector {
	return &Collector{
		desc:   prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil),
		sample: sample,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, c.sample())
}
