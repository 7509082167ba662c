package game

import (
	"testing"

	"github.com/grantmcd/prisoners-royale/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	C = models.Cooperate
	D = models.Defect
)

func TestScoreMatrix(t *testing.T) {
	cases := []struct {
		a, b   models.Move
		sa, sb int
	}{
		{C, C, 3, 3},
		{D, D, 1, 1},
		{D, C, 5, 0},
		{C, D, 0, 5},
	}
	for _, tc := range cases {
		sa, sb := Score(tc.a, tc.b)
		assert.Equal(t, tc.sa, sa, "%s/%s", tc.a, tc.b)
		assert.Equal(t, tc.sb, sb, "%s/%s", tc.a, tc.b)
		assert.LessOrEqual(t, sa+sb, 6)
	}

	cc1, cc2 := Score(C, C)
	dd1, dd2 := Score(D, D)
	assert.Greater(t, cc1+cc2, dd1+dd2)

	temptation, _ := Score(D, C)
	sucker, _ := Score(C, D)
	assert.Greater(t, temptation, sucker)
}

func TestTitForTat(t *testing.T) {
	assert.Equal(t, C, TitForTat.Decide(nil))

	histories := []models.History{
		{{MyMove: C, OpponentMove: D}},
		{{MyMove: C, OpponentMove: D}, {MyMove: D, OpponentMove: C}},
		{{MyMove: D, OpponentMove: D}, {MyMove: D, OpponentMove: D}},
	}
	for _, h := range histories {
		assert.Equal(t, h[len(h)-1].OpponentMove, TitForTat.Decide(h))
	}
}

func TestGrudger(t *testing.T) {
	h := models.History{}
	assert.Equal(t, C, Grudger.Decide(h))

	h = append(h, models.Interaction{MyMove: C, OpponentMove: C})
	assert.Equal(t, C, Grudger.Decide(h))

	h = append(h, models.Interaction{MyMove: C, OpponentMove: D})
	for i := 0; i < 5; i++ {
		assert.Equal(t, D, Grudger.Decide(h))
		h = append(h, models.Interaction{MyMove: D, OpponentMove: C})
	}
}

func TestPavlov(t *testing.T) {
	assert.Equal(t, C, Pavlov.Decide(nil))
	assert.Equal(t, C, Pavlov.Decide(models.History{{MyMove: C, OpponentMove: C}}))
	assert.Equal(t, D, Pavlov.Decide(models.History{{MyMove: C, OpponentMove: D}}))
	assert.Equal(t, D, Pavlov.Decide(models.History{{MyMove: D, OpponentMove: D}}))
	assert.Equal(t, C, Pavlov.Decide(models.History{{MyMove: D, OpponentMove: C}}))
}

func TestConstantStrategies(t *testing.T) {
	h := models.History{{MyMove: D, OpponentMove: D}}
	assert.Equal(t, C, AlwaysCooperate.Decide(nil))
	assert.Equal(t, C, AlwaysCooperate.Decide(h))
	assert.Equal(t, D, AlwaysDefect.Decide(nil))
	assert.Equal(t, D, AlwaysDefect.Decide(h))
}

func TestRandomUsesInjectedCoin(t *testing.T) {
	flips := []bool{true, false, false, true}
	i := 0
	s := NewRandom(CoinFunc(func() bool {
		v := flips[i%len(flips)]
		i++
		return v
	}))

	var got []models.Move
	for range flips {
		got = append(got, s.Decide(nil))
	}
	assert.Equal(t, []models.Move{C, D, D, C}, got)
	assert.Equal(t, RandomName, s.Name())
}

func TestSeededCoinIsReproducible(t *testing.T) {
	a, b := NewRandom(SeededCoin(7)), NewRandom(SeededCoin(7))
	for i := 0; i < 50; i++ {
		require.Equal(t, a.Decide(nil), b.Decide(nil))
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(nil)
	assert.Equal(t, []string{"AlwaysCooperate", "AlwaysDefect", "Grudger", "Pavlov", "Random", "TitForTat"}, r.Names())

	s, err := r.Lookup("Grudger")
	require.NoError(t, err)
	assert.Equal(t, GrudgerName, s.Name())

	_, err = r.Lookup("Tit For Tat")
	require.ErrorIs(t, err, ErrUnknownStrategy)
	var unknown *UnknownStrategyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Tit For Tat", unknown.Name)
}
