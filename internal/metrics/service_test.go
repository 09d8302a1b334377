package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncMatchesRecorded("badminton")
	s.IncMatchesRecorded("badminton")
	s.IncMatchesDeleted("badminton")
	s.IncAggregationFailures("badminton")
	s.ObserveAggregationDuration("badminton", 0.02)
	s.IncEventsPublished("match-recorded")
	s.IncSlackNotifSent()
	s.SetStartupTime(1.5)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.MatchesRecorded.WithLabelValues("badminton")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.MatchesDeleted.WithLabelValues("badminton")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.AggregationFailures.WithLabelValues("badminton")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.EventsPublished.WithLabelValues("match-recorded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.SlackNotifSent))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.SlackNotifFailed))
	assert.Equal(t, 1.5, testutil.ToFloat64(s.StartupTimeSeconds))
	assert.Equal(t, 1, testutil.CollectAndCount(s.AggregationDuration))

	t.Run("handler exposes registered metrics", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewMetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `racquet_matches_recorded_total{sport="badminton"} 2`)
	})
}

func TestMock(t *testing.T) {
	m := NewMock()
	m.IncMatchesRecorded("badminton")
	m.ObserveAggregationDuration("badminton", 0.1)
	m.IncSlackNotifFailed()

	assert.Equal(t, 1, m.MatchesRecorded("badminton"))
	assert.Equal(t, 0, m.MatchesRecorded("tennis"))
	assert.Equal(t, []float64{0.1}, m.AggregationDurations())
	assert.Equal(t, 1, m.SlackNotifFailed())
}
