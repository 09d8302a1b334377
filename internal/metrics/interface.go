package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesRecorded(sport string)
	IncMatchesDeleted(sport string)
	IncAggregationFailures(sport string)
	ObserveAggregationDuration(sport string, duration float64)
	IncEventsPublished(eventType string)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
