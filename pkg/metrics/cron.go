package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "petcare"

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// CronJobMetrics tracks maintenance job runs. A stale
// petcare_cron_job_last_success_timestamp_seconds is the signal to alert on.
type CronJobMetrics struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
}

func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	m := &CronJobMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cron_job_runs_total",
			Help:      "Cron job runs by outcome.",
		}, []string{"job", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cron_job_duration_seconds",
			Help:      "Cron job run time.",
			Buckets:   []float64{.05, .1, .5, 1, 5, 15, 60, 300},
		}, []string{"job"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cron_job_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}, []string{"job"}),
	}
	reg.MustRegister(m.runs, m.duration, m.lastSuccess)
	return m
}

// ObserveRun records one run of job that took d and ended with err.
func (c *CronJobMetrics) ObserveRun(job string, d time.Duration, err error) {
	if c == nil || c.runs == nil {
		return
	}
	job = normalizeLabel(job)
	c.duration.WithLabelValues(job).Observe(d.Seconds())
	if err != nil {
		c.runs.WithLabelValues(job, outcomeFailure).Inc()
		return
	}
	c.runs.WithLabelValues(job, outcomeSuccess).Inc()
	c.lastSuccess.WithLabelValues(job).SetToCurrentTime()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
