// internal/utils/metrics/metrics.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RecordQuote записывает результат и длительность расчёта котировки
func (c *Collector) RecordQuote(mode, direction string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "failed"
	}
	c.quoteCounter.WithLabelValues(status, mode, direction).Inc()
	c.quoteDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordRPCLatency записывает метрики RPC-запроса
func (c *Collector) RecordRPCLatency(method string, duration time.Duration) {
	c.rpcLatency.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordSnapshotLoad учитывает попытку загрузки снимка пула
func (c *Collector) RecordSnapshotLoad(pool string, success bool) {
	status := "success"
	if !success {
		status = "failed"
	}
	c.snapshotLoads.WithLabelValues(pool, status).Inc()
}

// UpdatePoolReserves обновляет метрики пула
func (c *Collector) UpdatePoolReserves(pool string, base, quote uint64) {
	c.poolReserves.WithLabelValues(pool, "base").Set(float64(base))
	c.poolReserves.WithLabelValues(pool, "quote").Set(float64(quote))
}

// UpdateTransferFees records the active transfer fee of each leg.
func (c *Collector) UpdateTransferFees(pool string, baseBps, quoteBps uint16) {
	c.transferFeeBps.WithLabelValues(pool, "base").Set(float64(baseBps))
	c.transferFeeBps.WithLabelValues(pool, "quote").Set(float64(quoteBps))
}

// Handler отдаёт метрики из g в формате Prometheus.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
