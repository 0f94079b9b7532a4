package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const cronNamespace = "shelter"

// CronJobMetrics tracks outcome counts and run durations for the worker's
// scheduled jobs, labelled by job name.
type CronJobMetrics struct {
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
}

// NewCronJobMetrics registers the job metrics on reg. A nil registerer yields
// a no-op recorder, which keeps worker tests free of global registry state.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cronNamespace,
		Subsystem: "cron",
		Name:      "job_duration_seconds",
		Help:      "Wall-clock duration of scheduled job runs.",
		Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120},
	}, []string{"job"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cronNamespace,
		Subsystem: "cron",
		Name:      "job_runs_total",
		Help:      "Scheduled job executions by result.",
	}, []string{"job", "result"})
	reg.MustRegister(duration, runs)
	return &CronJobMetrics{duration: duration, runs: runs}
}

// ObserveDuration records how long the named job ran.
func (c *CronJobMetrics) ObserveDuration(job string, d time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(jobLabel(job)).Observe(d.Seconds())
}

// IncSuccess counts a run that completed without error.
func (c *CronJobMetrics) IncSuccess(job string) {
	c.incRun(job, "success")
}

// IncFailure counts a run that returned an error.
func (c *CronJobMetrics) IncFailure(job string) {
	c.incRun(job, "failure")
}

func (c *CronJobMetrics) incRun(job, result string) {
	if c == nil || c.runs == nil {
		return
	}
	c.runs.WithLabelValues(jobLabel(job), result).Inc()
}

func jobLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
