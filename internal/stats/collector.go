package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports a RunStat as radiusd_<name>_total counters.
type Collector struct {
	stat  *RunStat
	descs map[string]*prometheus.Desc
}

// NewCollector creates a collector reading stat on every scrape.
func NewCollector(stat *RunStat) *Collector {
	c := &Collector{stat: stat, descs: make(map[string]*prometheus.Desc)}
	for _, nc := range stat.counters() {
		c.descs[nc.name] = prometheus.NewDesc("radiusd_"+nc.name+"_total", nc.help, nil, nil)
	}
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, nc := range c.stat.counters() {
		ch <- prometheus.MustNewConstMetric(c.descs[nc.name], prometheus.CounterValue, float64(nc.counter.Load()))
	}
}
