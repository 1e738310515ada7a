package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronJobMetricsObserveRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.ObserveRun("cart-abandonment", 250*time.Millisecond, nil)
	m.ObserveRun("cart-abandonment", time.Second, errors.New("db down"))
	m.ObserveRun("outbox-retention", 10*time.Millisecond, errors.New("db down"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.runs.WithLabelValues("cart-abandonment", outcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.runs.WithLabelValues("cart-abandonment", outcomeFailure)))
	assert.Greater(t, testutil.ToFloat64(m.lastSuccess.WithLabelValues("cart-abandonment")), float64(0))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	sum, err := fetchHistogramSum(mfs, "petcare_cron_job_duration_seconds", "job", "cart-abandonment")
	require.NoError(t, err)
	assert.InDelta(t, 1.25, sum, 0.001)

	// A job that has never succeeded exports no last-success sample.
	_, err = findMetric(mfs, "petcare_cron_job_last_success_timestamp_seconds", "job", "outbox-retention")
	assert.Error(t, err)
}
