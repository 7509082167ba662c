package engine

import (
	"github.com/grantmcd/prisoners-royale/internal/game"
	"github.com/grantmcd/prisoners-royale/internal/models"
)

// RoundRecord is one round of a match.
type RoundRecord struct {
	Round  int         `json:"round"`
	MoveA  models.Move `json:"moveA"`
	MoveB  models.Move `json:"moveB"`
	ScoreA int         `json:"scoreA"`
	ScoreB int         `json:"scoreB"`
}

// MatchResult holds the totals and the round log of one match. HistoryA and
// HistoryB are the per-opponent histories each side built during the match.
type MatchResult struct {
	StrategyA string         `json:"strategyA"`
	StrategyB string         `json:"strategyB"`
	ScoreA    int            `json:"scoreA"`
	ScoreB    int            `json:"scoreB"`
	Log       []RoundRecord  `json:"log"`
	HistoryA  models.History `json:"-"`
	HistoryB  models.History `json:"-"`
}

// PlayMatch plays a and b against each other for a fixed number of rounds.
// Both sides decide from their own history before either move is revealed.
// Histories start empty on every call.
func PlayMatch(a, b game.Strategy, rounds int) MatchResult {
	res := MatchResult{
		StrategyA: a.Name(),
		StrategyB: b.Name(),
		Log:       make([]RoundRecord, 0, max(rounds, 0)),
		HistoryA:  make(models.History, 0, max(rounds, 0)),
		HistoryB:  make(models.History, 0, max(rounds, 0)),
	}

	for round := 1; round <= rounds; round++ {
		moveA := a.Decide(res.HistoryA)
		moveB := b.Decide(res.HistoryB)
		scoreA, scoreB := game.Score(moveA, moveB)

		res.ScoreA += scoreA
		res.ScoreB += scoreB
		res.HistoryA = append(res.HistoryA, models.Interaction{MyMove: moveA, OpponentMove: moveB})
		res.HistoryB = append(res.HistoryB, models.Interaction{MyMove: moveB, OpponentMove: moveA})
		res.Log = append(res.Log, RoundRecord{
			Round:  round,
			MoveA:  moveA,
			MoveB:  moveB,
			ScoreA: scoreA,
			ScoreB: scoreB,
		})
	}
	return res
}
