package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/pagestats/internal/metrics"
)

func TestMetrics_ObserveFetch(t *testing.T) {
	t.Parallel()

	m := metrics.NewMetrics(prometheus.NewRegistry())

	m.ObserveFetch(100*time.Millisecond, nil)
	m.ObserveFetch(200*time.Millisecond, nil)
	m.ObserveFetch(time.Second, errors.New("refused"))

	assert.InDelta(t, 2, testutil.ToFloat64(m.FetchTotal.WithLabelValues(metrics.OutcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.FetchTotal.WithLabelValues(metrics.OutcomeFailure)), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.FetchDurationSeconds))
}

func TestMetrics_PageWritten(t *testing.T) {
	t.Parallel()

	m := metrics.NewMetrics(prometheus.NewRegistry())

	m.PageWritten(true)
	m.PageWritten(false)
	m.PageWritten(false)

	assert.InDelta(t, 1, testutil.ToFloat64(m.PagesWrittenTotal.WithLabelValues(metrics.OperationCreated)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.PagesWrittenTotal.WithLabelValues(metrics.OperationRefreshed)), 0)
}

func TestMetrics_SeriesExistBeforeUse(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics.NewMetrics(reg)

	assert.Equal(t, 2, testutil.CollectAndCount(reg, "pagestats_fetch_total"))
	assert.Equal(t, 2, testutil.CollectAndCount(reg, "pagestats_pages_written_total"))
}

func TestMetrics_NilIsNoOp(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	m.ObserveFetch(time.Second, nil)
	m.PageWritten(true)
}
