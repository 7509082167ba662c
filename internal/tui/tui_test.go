package tui

import (
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantmcd/prisoners-royale/internal/engine"
)

func newTestModel() model {
	eng := engine.NewEngine(engine.WithLogger(slog.New(slog.DiscardHandler)))
	return NewModel(eng, engine.NewResolver(nil, nil))
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(model)
	require.True(t, ok)
	return out, cmd
}

func TestRosterRunsTournament(t *testing.T) {
	m := newTestModel()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m.input.SetValue("AlwaysCooperate, TitForTat, AlwaysDefect")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, stateRunning, m.state)
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(tournamentDoneMsg)
	require.True(t, ok, "expected tournamentDoneMsg, got %T", msg)

	m, _ = update(t, m, done)
	assert.Equal(t, stateViewing, m.state)
	assert.Equal(t, 0, m.cycle)
	require.Len(t, m.result.Log, 2)
	assert.Contains(t, m.View(), "Winner: AlwaysDefect")
	assert.Contains(t, m.viewport.View(), "CYCLE 1 OF 2")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.cycle)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.cycle, "paging stops at the last cycle")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.cycle)
}

func TestUnknownStrategyShowsError(t *testing.T) {
	m := newTestModel()
	m.input.SetValue("TitForTat, Ghost")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.Equal(t, stateError, m.state)
	assert.Contains(t, m.View(), "Ghost")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Equal(t, stateInputRoster, m.state)
	assert.Nil(t, m.err)
	assert.Empty(t, m.input.Value())
}

func TestEmptyRosterUsesPlaceholder(t *testing.T) {
	m := newTestModel()

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, ok := cmd().(tournamentDoneMsg)
	assert.True(t, ok)
}

func TestParseRoster(t *testing.T) {
	assert.Equal(t,
		[]string{"TitForTat", "AlwaysDefect", "mine"},
		parseRoster(" TitForTat,AlwaysDefect ,  mine "))
	assert.Empty(t, parseRoster(" , "))
}
