package models

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const titForTatJSON = `{
  "nodes": [
    {"id": "start", "type": "START", "data": {}},
    {"id": "check", "type": "CONDITION", "data": {"conditionType": "OPPONENT_LAST", "expectedMove": "D"}},
    {"id": "c", "type": "MOVE", "data": {"move": "cooperate"}},
    {"id": "d", "type": "MOVE", "data": {"move": "defect"}}
  ],
  "edges": [
    {"from": "start", "to": "check"},
    {"from": "check", "to": "d", "branch": "yes"},
    {"from": "check", "to": "c", "branch": "no"}
  ]
}`

func TestStrategyGraphJSONWireNames(t *testing.T) {
	var g StrategyGraph
	require.NoError(t, json.Unmarshal([]byte(titForTatJSON), &g))

	require.Len(t, g.Nodes, 4)
	require.Len(t, g.Edges, 3)
	assert.Equal(t, NodeCondition, g.Nodes[1].Type)
	assert.Equal(t, OpponentLast, g.Nodes[1].Data.ConditionType)
	require.NotNil(t, g.Nodes[1].Data.ExpectedMove)
	assert.Equal(t, Defect, *g.Nodes[1].Data.ExpectedMove)
	assert.Equal(t, BranchYes, g.Edges[1].Branch)
	assert.Equal(t, BranchNone, g.Edges[0].Branch)

	out, err := json.Marshal(g.Edges[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"start","to":"check"}`, string(out))
}

func TestInteractionWireNames(t *testing.T) {
	out, err := json.Marshal(History{{MyMove: Cooperate, OpponentMove: Defect}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"myMove":"cooperate","opponentMove":"defect"}]`, string(out))
}

func TestDecodeRejectsUnknownValues(t *testing.T) {
	cases := map[string]string{
		"move":      `{"nodes":[{"id":"m","type":"MOVE","data":{"move":"maybe"}}],"edges":[]}`,
		"node type": `{"nodes":[{"id":"m","type":"LOOP","data":{}}],"edges":[]}`,
		"condition": `{"nodes":[{"id":"m","type":"CONDITION","data":{"conditionType":"THEIR_NEXT"}}],"edges":[]}`,
		"branch":    `{"nodes":[],"edges":[{"from":"a","to":"b","branch":"maybe"}]}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			var g StrategyGraph
			assert.Error(t, json.Unmarshal([]byte(input), &g))
		})
	}
}

func TestHistoryLast(t *testing.T) {
	_, ok := History{}.Last()
	assert.False(t, ok)

	last, ok := History{{MyMove: Cooperate}, {MyMove: Defect, OpponentMove: Defect}}.Last()
	require.True(t, ok)
	assert.Equal(t, Interaction{MyMove: Defect, OpponentMove: Defect}, last)
}

func TestLibrarySaveLoadList(t *testing.T) {
	lib := NewLibrary(filepath.Join(t.TempDir(), "lib"))

	names, err := lib.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	var g StrategyGraph
	require.NoError(t, json.Unmarshal([]byte(titForTatJSON), &g))

	s := &SavedStrategy{Name: "mirror", Description: "copies the opponent", Graph: g}
	require.NoError(t, lib.Save(s))
	require.NotEmpty(t, s.ID)

	loaded, err := lib.Load("mirror")
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, g, loaded.Graph)

	// Re-saving under the same name keeps the identity.
	again := &SavedStrategy{Name: "mirror", Graph: g}
	require.NoError(t, lib.Save(again))
	assert.Equal(t, s.ID, again.ID)

	require.NoError(t, lib.Save(&SavedStrategy{Name: "alpha", Graph: g}))
	names, err = lib.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mirror"}, names)
}

func TestLibraryErrors(t *testing.T) {
	lib := NewLibrary(t.TempDir())

	_, err := lib.Load("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = lib.Load("../escape")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, lib.Save(&SavedStrategy{Name: "bad name"}))
}

func TestReadGraphFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.yaml")
	src := `
nodes:
  - id: start
    type: START
  - id: d
    type: MOVE
    data:
      move: D
edges:
  - from: start
    to: d
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	g, err := ReadGraphFile(path)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	require.NotNil(t, g.Nodes[1].Data.Move)
	assert.Equal(t, Defect, *g.Nodes[1].Data.Move)

	out, err := yaml.Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(out), "move: defect")
}
