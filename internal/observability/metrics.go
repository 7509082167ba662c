// Package observability provides Prometheus metrics for tournaments and compilation.
//
// # Description
//
// Metrics include:
//   - Tournament counters by outcome (winner, draw)
//   - Match and elimination counters
//   - Graph compilation counters by result (valid, invalid)
//   - Tournament duration histogram
//
// All methods are safe on a nil *Metrics, so callers that do not care about
// instrumentation can pass nil.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace    = "royale"
	tournamentSubsystem = "tournament"
	compilerSubsystem   = "compiler"
)

// Outcome labels.
const (
	OutcomeWinner = "winner"
	OutcomeDraw   = "draw"
)

// Metrics holds the Prometheus collectors for one process.
type Metrics struct {
	// TournamentsTotal counts finished tournaments.
	// Labels: outcome (winner, draw)
	TournamentsTotal *prometheus.CounterVec

	MatchesTotal      prometheus.Counter
	EliminationsTotal prometheus.Counter

	// CompilationsTotal counts graph compilations.
	// Labels: result (valid, invalid)
	CompilationsTotal *prometheus.CounterVec

	TournamentDurationSeconds prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
//
// Registering twice on the same registry panics, so tests should pass a
// fresh prometheus.NewRegistry().
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TournamentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: tournamentSubsystem,
				Name:      "runs_total",
				Help:      "Total number of finished tournaments by outcome",
			},
			[]string{"outcome"},
		),
		MatchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: tournamentSubsystem,
			Name:      "matches_total",
			Help:      "Total number of matches played",
		}),
		EliminationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: tournamentSubsystem,
			Name:      "eliminations_total",
			Help:      "Total number of players eliminated",
		}),
		CompilationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: compilerSubsystem,
				Name:      "compilations_total",
				Help:      "Total number of strategy graph compilations by result",
			},
			[]string{"result"},
		),
		TournamentDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: tournamentSubsystem,
			Name:      "duration_seconds",
			Help:      "Wall time of a full tournament in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

func (m *Metrics) ObserveTournament(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.TournamentsTotal.WithLabelValues(outcome).Inc()
	m.TournamentDurationSeconds.Observe(d.Seconds())
}

func (m *Metrics) MatchesPlayed(n int) {
	if m == nil {
		return
	}
	m.MatchesTotal.Add(float64(n))
}

func (m *Metrics) Eliminated(n int) {
	if m == nil {
		return
	}
	m.EliminationsTotal.Add(float64(n))
}

func (m *Metrics) Compiled(valid bool) {
	if m == nil {
		return
	}
	result := "valid"
	if !valid {
		result = "invalid"
	}
	m.CompilationsTotal.WithLabelValues(result).Inc()
}
