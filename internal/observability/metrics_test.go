package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveTournament(OutcomeWinner, 10*time.Millisecond)
	m.ObserveTournament(OutcomeDraw, time.Millisecond)
	m.ObserveTournament(OutcomeWinner, time.Millisecond)
	m.MatchesPlayed(6)
	m.Eliminated(2)
	m.Compiled(true)
	m.Compiled(false)
	m.Compiled(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TournamentsTotal.WithLabelValues(OutcomeWinner)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TournamentsTotal.WithLabelValues(OutcomeDraw)))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.MatchesTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EliminationsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CompilationsTotal.WithLabelValues("invalid")))

	count, err := testutil.GatherAndCount(reg, "royale_tournament_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTournament(OutcomeDraw, time.Second)
		m.MatchesPlayed(1)
		m.Eliminated(1)
		m.Compiled(true)
	})
}
