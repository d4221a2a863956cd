package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 对账结果
const (
	OutcomeCreated   = "created"
	OutcomeUpdated   = "updated"
	OutcomeUnchanged = "unchanged"
	OutcomeSkipped   = "skipped"
	OutcomeError     = "error"
)

var (
	candidatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "culturesync",
		Subsystem: "ingest",
		Name:      "candidates_total",
		Help:      "Candidates processed by reconciliation outcome",
	}, []string{"venue_id", "outcome"})
	skipsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "culturesync",
		Subsystem: "ingest",
		Name:      "skips_total",
		Help:      "Skipped candidates by reason",
	}, []string{"reason"})
	matchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "culturesync",
		Subsystem: "ingest",
		Name:      "matches_total",
		Help:      "Existing canonical events resolved, by match tier",
	}, []string{"tier"})
	runDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "culturesync",
		Subsystem: "ingest",
		Name:      "run_duration_seconds",
		Help:      "Wall time of one reconciliation run",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"source"})
	fetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "culturesync",
		Subsystem: "source",
		Name:      "fetch_total",
		Help:      "Source fetches by status",
	}, []string{"source", "status"})
)

func init() {
	prometheus.MustRegister(candidatesTotal, skipsTotal, matchesTotal, runDuration, fetchTotal)
}

// IncOutcome 记录单条候选事件的对账结果
func IncOutcome(venueID uint64, outcome string) {
	candidatesTotal.WithLabelValues(strconv.FormatUint(venueID, 10), outcome).Inc()
}

func IncSkip(reason string) {
	skipsTotal.WithLabelValues(reason).Inc()
}

func IncMatch(tier string) {
	matchesTotal.WithLabelValues(tier).Inc()
}

func ObserveRun(source string, d time.Duration) {
	runDuration.WithLabelValues(source).Observe(d.Seconds())
}

// IncFetch status 取 ok / error
func IncFetch(source, status string) {
	fetchTotal.WithLabelValues(source, status).Inc()
}

// Handler /metrics 处理器
func Handler() http.Handler {
	return promhttp.Handler()
}
