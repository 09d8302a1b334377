package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	MatchesRecorded     *prometheus.CounterVec
	MatchesDeleted      *prometheus.CounterVec
	AggregationFailures *prometheus.CounterVec
	AggregationDuration *prometheus.HistogramVec
	EventsPublished     *prometheus.CounterVec
	SlackNotifSent      prometheus.Counter
	SlackNotifFailed    prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}
