// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metercacher

import (
	"errors"

	"github.com/luxfi/metric"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultLabel = "result"
	hitResult   = "hit"
	missResult  = "miss"
	okResult    = "success"
	failResult  = "failure"
)

var (
	resultLabels = []string{resultLabel}
	hitLabels    = prometheus.Labels{resultLabel: hitResult}
	missLabels   = prometheus.Labels{resultLabel: missResult}
	okLabels     = prometheus.Labels{resultLabel: okResult}
	failLabels   = prometheus.Labels{resultLabel: failResult}
)

type sizer interface {
	Len() int
	PortionFilled() float64
}

type cacheMetrics struct {
	getCount *prometheus.CounterVec
	getTime  *prometheus.CounterVec

	putCount prometheus.Counter
	putTime  prometheus.Counter

	deleteCount *prometheus.CounterVec

	importCount     *prometheus.CounterVec
	importedEntries prometheus.Gauge

	len           prometheus.GaugeFunc
	portionFilled prometheus.GaugeFunc
}

// newMetrics registers the cache's collectors. len and portion_filled are
// read from the cache on every scrape, so they also reflect entries removed
// by expiry timers.
func newMetrics(namespace string, registerer metric.Registerer, sizer sizer) (*cacheMetrics, error) {
	m := &cacheMetrics{
		getCount: metric.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "get_count",
			Help:      "number of get calls",
		}, resultLabels),
		getTime: metric.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "get_time",
			Help:      "time spent (ns) in get calls",
		}, resultLabels),
		putCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "put_count",
			Help:      "number of put calls",
		}),
		putTime: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "put_time",
			Help:      "time spent (ns) in put calls",
		}),
		deleteCount: metric.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delete_count",
			Help:      "number of delete calls",
		}, resultLabels),
		importCount: metric.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_count",
			Help:      "number of snapshot imports",
		}, resultLabels),
		importedEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "imported_entries",
			Help:      "cache size after the last successful import",
		}),
		len: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "len",
			Help:      "number of entries",
		}, func() float64 { return float64(sizer.Len()) }),
		portionFilled: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "portion_filled",
			Help:      "fraction of cache filled",
		}, sizer.PortionFilled),
	}
	return m, errors.Join(
		registerer.Register(m.getCount),
		registerer.Register(m.getTime),
		registerer.Register(m.putCount),
		registerer.Register(m.putTime),
		registerer.Register(m.deleteCount),
		registerer.Register(m.importCount),
		registerer.Register(m.importedEntries),
		registerer.Register(m.len),
		registerer.Register(m.portionFilled),
	)
}
