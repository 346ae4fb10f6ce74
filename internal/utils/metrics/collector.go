// internal/utils/metrics/collector.go
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricType представляет тип метрики
type MetricType string

const (
	QuoteCounterType   MetricType = "quote_counter"
	QuoteDurationType  MetricType = "quote_duration"
	RPCLatencyType     MetricType = "rpc_latency"
	SnapshotLoadType   MetricType = "snapshot_loads"
	PoolReservesType   MetricType = "pool_reserves"
	TransferFeeBpsType MetricType = "transfer_fee_bps"
)

const namespace = "cpamm_quoter"

// Collector управляет набором метрик котировщика
type Collector struct {
	metrics sync.Map

	quoteCounter   *prometheus.CounterVec
	quoteDuration  *prometheus.HistogramVec
	rpcLatency     *prometheus.HistogramVec
	snapshotLoads  *prometheus.CounterVec
	poolReserves   *prometheus.GaugeVec
	transferFeeBps *prometheus.GaugeVec
}

// NewCollector создает коллектор и регистрирует метрики в reg.
// Если reg == nil, используется prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		quoteCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quotes_total",
				Help:      "Total number of quotes computed",
			},
			[]string{"status", "mode", "direction"},
		),
		quoteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "quote_duration_seconds",
				Help:      "Quote computation duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 12),
			},
			[]string{"mode"},
		),
		rpcLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rpc_latency_seconds",
				Help:      "RPC request latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
			},
			[]string{"method"},
		),
		snapshotLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_loads_total",
				Help:      "Pool snapshot loads by outcome",
			},
			[]string{"pool", "status"},
		),
		poolReserves: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "pool_reserves",
				Help:      "Pool reserves in raw token units from the last snapshot",
			},
			[]string{"pool", "leg"},
		),
		transferFeeBps: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "transfer_fee_bps",
				Help:      "Active Token-2022 transfer fee per pool leg",
			},
			[]string{"pool", "leg"},
		),
	}
	c.initializeMetrics(reg)
	return c
}

func (c *Collector) initializeMetrics(reg prometheus.Registerer) {
	metricsMap := map[MetricType]prometheus.Collector{
		QuoteCounterType:   c.quoteCounter,
		QuoteDurationType:  c.quoteDuration,
		RPCLatencyType:     c.rpcLatency,
		SnapshotLoadType:   c.snapshotLoads,
		PoolReservesType:   c.poolReserves,
		TransferFeeBpsType: c.transferFeeBps,
	}

	for metricType, metric := range metricsMap {
		c.metrics.Store(metricType, metric)
		reg.MustRegister(metric)
	}
}

// Reset сбрасывает все метрики (полезно для тестирования)
func (c *Collector) Reset() {
	c.metrics.Range(func(_, value interface{}) bool {
		switch m := value.(type) {
		case *prometheus.CounterVec:
			m.Reset()
		case *prometheus.GaugeVec:
			m.Reset()
		case *prometheus.HistogramVec:
			m.Reset()
		}
		return true
	})
}
