package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "racquet_matches_recorded_total",
			Help: "The total number of matches recorded, by sport.",
		}, []string{"sport"}),
		MatchesDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "racquet_matches_deleted_total",
			Help: "The total number of matches deleted, by sport.",
		}, []string{"sport"}),
		AggregationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "racquet_aggregation_failures_total",
			Help: "The total number of match additions that failed for at least one participant.",
		}, []string{"sport"}),
		AggregationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "racquet_aggregation_duration_seconds",
			Help:    "The duration of recording a match for all participants.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"sport"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "racquet_events_published_total",
			Help: "The total number of domain events published, by type.",
		}, []string{"event_type"}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "racquet_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "racquet_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "racquet_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesRecorded,
		s.MatchesDeleted,
		s.AggregationFailures,
		s.AggregationDuration,
		s.EventsPublished,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesRecorded(sport string) {
	s.MatchesRecorded.WithLabelValues(sport).Inc()
}

func (s *Service) IncMatchesDeleted(sport string) {
	s.MatchesDeleted.WithLabelValues(sport).Inc()
}

func (s *Service) IncAggregationFailures(sport string) {
	s.AggregationFailures.WithLabelValues(sport).Inc()
}

func (s *Service) ObserveAggregationDuration(sport string, duration float64) {
	s.AggregationDuration.WithLabelValues(sport).Observe(duration)
}

func (s *Service) IncEventsPublished(eventType string) {
	s.EventsPublished.WithLabelValues(eventType).Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
