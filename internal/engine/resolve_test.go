package engine

import (
	"testing"

	"github.com/grantmcd/prisoners-royale/internal/compiler"
	"github.com/grantmcd/prisoners-royale/internal/game"
	"github.com/grantmcd/prisoners-royale/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defectorGraph() models.StrategyGraph {
	return models.StrategyGraph{
		Nodes: []models.Node{
			{ID: "s", Type: models.NodeStart},
			{ID: "d", Type: models.NodeMove, Data: models.NodeData{Move: models.MovePtr(models.Defect)}},
		},
		Edges: []models.Edge{{From: "s", To: "d"}},
	}
}

func TestResolverBuiltinsFirst(t *testing.T) {
	r := NewResolver(nil, nil)
	s, err := r.Resolve("Pavlov")
	require.NoError(t, err)
	assert.Equal(t, game.PavlovName, s.Name())

	_, err = r.Resolve("saved-one")
	assert.ErrorIs(t, err, game.ErrUnknownStrategy)
}

func TestResolverLoadsLibraryGraphs(t *testing.T) {
	lib := models.NewLibrary(t.TempDir())
	require.NoError(t, lib.Save(&models.SavedStrategy{Name: "meanie", Graph: defectorGraph()}))
	require.NoError(t, lib.Save(&models.SavedStrategy{Name: "broken", Graph: models.StrategyGraph{}}))

	r := NewResolver(game.NewRegistry(nil), lib)

	s, err := r.Resolve("meanie")
	require.NoError(t, err)
	assert.Equal(t, "meanie", s.Name())
	assert.Equal(t, models.Defect, s.Decide(nil))

	_, err = r.Resolve("broken")
	assert.ErrorIs(t, err, compiler.ErrStructural)

	_, err = r.Resolve("nobody")
	assert.ErrorIs(t, err, game.ErrUnknownStrategy)
}

func TestResolveAllFailsFast(t *testing.T) {
	r := NewResolver(nil, nil)

	all, err := r.ResolveAll([]string{"TitForTat", "Grudger"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	all, err = r.ResolveAll([]string{"TitForTat", "Nope", "Grudger"})
	assert.Nil(t, all)
	var unknown *game.UnknownStrategyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Nope", unknown.Name)
}
