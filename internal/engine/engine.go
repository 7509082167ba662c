package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/grantmcd/prisoners-royale/internal/game"
	"github.com/grantmcd/prisoners-royale/internal/models"
	"github.com/grantmcd/prisoners-royale/internal/observability"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRoundsPerMatch = 10

	// Draw is reported as the winner when the last cycle eliminates everyone.
	Draw = "Draw"
)

var ErrInsufficientParticipants = errors.New("a tournament needs at least two participants")

// Scoring selects whether scores restart every cycle.
type Scoring int

const (
	PerCycle Scoring = iota
	Cumulative
)

func (s Scoring) String() string {
	if s == Cumulative {
		return "cumulative"
	}
	return "per-cycle"
}

func ParseScoring(v string) (Scoring, error) {
	switch strings.ToLower(v) {
	case "", "per-cycle", "reset":
		return PerCycle, nil
	case "cumulative":
		return Cumulative, nil
	}
	return PerCycle, fmt.Errorf("unknown scoring mode %q", v)
}

// TiePolicy selects who leaves when several players share the lowest score.
type TiePolicy int

const (
	// EliminateAllTied removes every player at the minimum score.
	EliminateAllTied TiePolicy = iota
	// EliminateOneLowest removes only the first lowest player in seating order.
	EliminateOneLowest
)

func (t TiePolicy) String() string {
	if t == EliminateOneLowest {
		return "one-lowest"
	}
	return "all-tied"
}

func ParseTiePolicy(v string) (TiePolicy, error) {
	switch strings.ToLower(v) {
	case "", "all-tied", "group":
		return EliminateAllTied, nil
	case "one-lowest", "single":
		return EliminateOneLowest, nil
	}
	return EliminateAllTied, fmt.Errorf("unknown tie policy %q", v)
}

// Policy is the elimination rule set.
type Policy struct {
	Scoring Scoring
	Ties    TiePolicy
}

// Player is a seat in a tournament. It is owned by the engine for the
// duration of one Run.
type Player struct {
	ID       string
	Strategy game.Strategy
	Score    int
	Alive    bool

	// historyByOpponent holds this cycle's histories keyed by opponent ID.
	historyByOpponent map[string]models.History
}

// HistoryAgainst returns the current cycle's history against opponentID.
func (p *Player) HistoryAgainst(opponentID string) models.History {
	return p.historyByOpponent[opponentID]
}

func (p *Player) standing() models.StandingEntry {
	return models.StandingEntry{ID: p.ID, StrategyName: p.Strategy.Name(), Score: p.Score}
}

// Result is the outcome of a tournament.
type Result struct {
	Winner   string            `json:"winner"`
	WinnerID string            `json:"winnerId,omitempty"`
	Log      []models.RoundLog `json:"log"`
}

// Draw reports whether the tournament ended with no survivor.
func (r *Result) Draw() bool {
	return r.WinnerID == ""
}

type Option func(*Engine)

func WithRounds(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.rounds = n
		}
	}
}

func WithPolicy(p Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithWorkers plays up to n matches of a cycle concurrently.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// Engine runs elimination tournaments. It holds configuration only, so one
// Engine can serve concurrent Run calls.
type Engine struct {
	rounds  int
	policy  Policy
	workers int
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rounds:  DefaultRoundsPerMatch,
		workers: 1,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Rounds() int    { return e.rounds }
func (e *Engine) Policy() Policy { return e.policy }

// TestMatch plays a single fixed-length match with no elimination.
func (e *Engine) TestMatch(a, b game.Strategy) MatchResult {
	res := PlayMatch(a, b, e.rounds)
	e.metrics.MatchesPlayed(1)
	return res
}

// Run plays cycles until at most one participant remains.
func (e *Engine) Run(participants []game.Strategy) (*Result, error) {
	return e.RunObserved(participants, nil)
}

// RunObserved is Run with a callback invoked after each cycle's log is built.
func (e *Engine) RunObserved(participants []game.Strategy, onRound func(models.RoundLog)) (*Result, error) {
	if len(participants) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientParticipants, len(participants))
	}
	for i, s := range participants {
		if s == nil {
			return nil, fmt.Errorf("participant %d has no strategy", i)
		}
	}

	started := time.Now()
	players := make([]*Player, len(participants))
	for i, s := range participants {
		players[i] = &Player{
			ID:       fmt.Sprintf("player-%d-%s", i, s.Name()),
			Strategy: s,
			Alive:    true,
		}
	}
	e.logger.Info("tournament started",
		"players", len(players),
		"rounds_per_match", e.rounds,
		"scoring", e.policy.Scoring.String(),
		"ties", e.policy.Ties.String())

	result := &Result{Log: []models.RoundLog{}}
	living := players
	for round := 1; len(living) > 1; round++ {
		if err := e.playCycle(living); err != nil {
			return nil, err
		}

		eliminated := e.eliminate(living)
		living = alive(living)

		log := roundLog(round, eliminated, living)
		result.Log = append(result.Log, log)
		e.metrics.Eliminated(len(eliminated))
		e.logger.Info("cycle complete",
			"round", round,
			"eliminated", names(eliminated),
			"survivors", len(living))
		if onRound != nil {
			onRound(log)
		}
	}

	outcome := observability.OutcomeDraw
	result.Winner = Draw
	if len(living) == 1 {
		outcome = observability.OutcomeWinner
		result.Winner = living[0].Strategy.Name()
		result.WinnerID = living[0].ID
	}
	e.metrics.ObserveTournament(outcome, time.Since(started))
	e.logger.Info("tournament concluded", "winner", result.Winner, "cycles", len(result.Log))
	return result, nil
}

type pairing struct {
	a, b *Player
}

// playCycle runs the round-robin among living players and accumulates scores.
func (e *Engine) playCycle(living []*Player) error {
	for _, p := range living {
		if e.policy.Scoring == PerCycle {
			p.Score = 0
		}
		p.historyByOpponent = make(map[string]models.History, len(living)-1)
	}

	pairs := make([]pairing, 0, len(living)*(len(living)-1)/2)
	for i := 0; i < len(living); i++ {
		for j := i + 1; j < len(living); j++ {
			pairs = append(pairs, pairing{a: living[i], b: living[j]})
		}
	}

	results := make([]MatchResult, len(pairs))
	if e.workers > 1 {
		var g errgroup.Group
		g.SetLimit(e.workers)
		for i, pr := range pairs {
			g.Go(func() error {
				results[i] = PlayMatch(pr.a.Strategy, pr.b.Strategy, e.rounds)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		for i, pr := range pairs {
			results[i] = PlayMatch(pr.a.Strategy, pr.b.Strategy, e.rounds)
		}
	}

	// Summed in pairing order so the outcome does not depend on scheduling.
	for i, pr := range pairs {
		res := results[i]
		pr.a.Score += res.ScoreA
		pr.b.Score += res.ScoreB
		pr.a.historyByOpponent[pr.b.ID] = res.HistoryA
		pr.b.historyByOpponent[pr.a.ID] = res.HistoryB
	}
	e.metrics.MatchesPlayed(len(pairs))
	return nil
}

// eliminate flips Alive on the cycle's losers and returns them in seating order.
func (e *Engine) eliminate(living []*Player) []*Player {
	lowest := living[0].Score
	for _, p := range living[1:] {
		lowest = min(lowest, p.Score)
	}

	var out []*Player
	for _, p := range living {
		if p.Score != lowest {
			continue
		}
		p.Alive = false
		out = append(out, p)
		if e.policy.Ties == EliminateOneLowest {
			break
		}
	}
	return out
}

func alive(players []*Player) []*Player {
	out := make([]*Player, 0, len(players))
	for _, p := range players {
		if p.Alive {
			out = append(out, p)
		}
	}
	return out
}

func roundLog(round int, eliminated, survivors []*Player) models.RoundLog {
	log := models.RoundLog{
		Round:         round,
		SurvivorCount: len(survivors),
		Eliminated:    make([]models.StandingEntry, 0, len(eliminated)),
		Leaderboard:   make([]models.StandingEntry, 0, len(survivors)),
	}
	for _, p := range eliminated {
		log.Eliminated = append(log.Eliminated, p.standing())
	}
	for _, p := range survivors {
		log.Leaderboard = append(log.Leaderboard, p.standing())
	}
	sort.SliceStable(log.Leaderboard, func(i, j int) bool {
		return log.Leaderboard[i].Score > log.Leaderboard[j].Score
	})
	return log
}

func names(players []*Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Strategy.Name()
	}
	return out
}
