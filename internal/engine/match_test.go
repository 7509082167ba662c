package engine

import (
	"testing"

	"github.com/grantmcd/prisoners-royale/internal/game"
	"github.com/grantmcd/prisoners-royale/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayMatchScores(t *testing.T) {
	cases := []struct {
		a, b           game.Strategy
		scoreA, scoreB int
	}{
		{game.AlwaysCooperate, game.AlwaysCooperate, 30, 30},
		{game.AlwaysCooperate, game.AlwaysDefect, 0, 50},
		{game.AlwaysDefect, game.AlwaysDefect, 10, 10},
		{game.TitForTat, game.AlwaysDefect, 9, 14},
		{game.Grudger, game.Pavlov, 30, 30},
	}
	for _, tc := range cases {
		t.Run(tc.a.Name()+"_vs_"+tc.b.Name(), func(t *testing.T) {
			res := PlayMatch(tc.a, tc.b, 10)
			assert.Equal(t, tc.scoreA, res.ScoreA)
			assert.Equal(t, tc.scoreB, res.ScoreB)
			assert.Len(t, res.Log, 10)
		})
	}
}

func TestPlayMatchIsSymmetric(t *testing.T) {
	strategies := []game.Strategy{
		game.AlwaysCooperate, game.AlwaysDefect, game.TitForTat, game.Grudger, game.Pavlov,
	}
	for _, a := range strategies {
		for _, b := range strategies {
			ab := PlayMatch(a, b, 12)
			ba := PlayMatch(b, a, 12)
			require.Equal(t, ab.ScoreA, ba.ScoreB, "%s vs %s", a.Name(), b.Name())
			require.Equal(t, ab.ScoreB, ba.ScoreA, "%s vs %s", a.Name(), b.Name())
		}
	}
}

func TestPlayMatchHistoriesMirrorEachOther(t *testing.T) {
	res := PlayMatch(game.TitForTat, game.Pavlov, 7)
	require.Len(t, res.HistoryA, 7)
	require.Len(t, res.HistoryB, 7)
	for i := range res.HistoryA {
		assert.Equal(t, res.HistoryA[i].MyMove, res.HistoryB[i].OpponentMove)
		assert.Equal(t, res.HistoryA[i].OpponentMove, res.HistoryB[i].MyMove)
		assert.Equal(t, res.Log[i].MoveA, res.HistoryA[i].MyMove)
	}
}

func TestPlayMatchMovesAreSimultaneous(t *testing.T) {
	// Each side sees only completed rounds.
	var seenA, seenB []int
	a := game.NewFunc("A", func(h models.History) models.Move {
		seenA = append(seenA, len(h))
		return models.Defect
	})
	b := game.NewFunc("B", func(h models.History) models.Move {
		seenB = append(seenB, len(h))
		return models.Cooperate
	})

	PlayMatch(a, b, 3)
	assert.Equal(t, []int{0, 1, 2}, seenA)
	assert.Equal(t, []int{0, 1, 2}, seenB)
}

func TestPlayMatchZeroRounds(t *testing.T) {
	res := PlayMatch(game.AlwaysDefect, game.AlwaysCooperate, 0)
	assert.Zero(t, res.ScoreA)
	assert.Zero(t, res.ScoreB)
	assert.Empty(t, res.Log)
}
