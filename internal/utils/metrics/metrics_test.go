package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Record(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordQuote("ExactIn", "Base2Quote", time.Millisecond, true)
	c.RecordQuote("ExactIn", "Base2Quote", time.Millisecond, true)
	c.RecordQuote("ExactOut", "Quote2Base", time.Millisecond, false)
	c.RecordSnapshotLoad("pool", true)
	c.UpdatePoolReserves("pool", 1_000, 2_000)
	c.UpdateTransferFees("pool", 0, 150)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.quoteCounter.WithLabelValues("success", "ExactIn", "Base2Quote")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.quoteCounter.WithLabelValues("failed", "ExactOut", "Quote2Base")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.snapshotLoads.WithLabelValues("pool", "success")))
	assert.Equal(t, 2000.0, testutil.ToFloat64(c.poolReserves.WithLabelValues("pool", "quote")))
	assert.Equal(t, 150.0, testutil.ToFloat64(c.transferFeeBps.WithLabelValues("pool", "quote")))

	c.Reset()
	assert.Equal(t, 0, testutil.CollectAndCount(c.quoteCounter))
}

func TestNewCollector_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewCollector(prometheus.NewRegistry())
		NewCollector(prometheus.NewRegistry())
	})
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordSnapshotLoad("pool", false)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cpamm_quoter_snapshot_loads_total{pool="pool",status="failed"} 1`)
}
