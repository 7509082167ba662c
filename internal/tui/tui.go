package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/grantmcd/prisoners-royale/internal/engine"
)

type sessionState int

const (
	stateInputRoster sessionState = iota
	stateRunning
	stateViewing
	stateError
)

const rosterPlaceholder = "AlwaysCooperate, AlwaysDefect, TitForTat, Grudger"

type model struct {
	state    sessionState
	engine   *engine.Engine
	resolver *engine.Resolver
	input    textinput.Model
	viewport viewport.Model
	result   *engine.Result
	cycle    int
	err      error
	width    int
	height   int
}

var (
	eliminatedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)

	survivorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	sideStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#33FF66")).
			Bold(true).
			Underline(true)
)

func NewModel(eng *engine.Engine, resolver *engine.Resolver) model {
	ti := textinput.New()
	ti.Placeholder = rosterPlaceholder
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	return model{
		state:    stateInputRoster,
		engine:   eng,
		resolver: resolver,
		input:    ti,
		viewport: viewport.New(80, 20),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type tournamentDoneMsg struct {
	result *engine.Result
}

type errMsg struct {
	err error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.state == stateInputRoster {
				roster := m.input.Value()
				if strings.TrimSpace(roster) == "" {
					roster = rosterPlaceholder
				}
				m.state = stateRunning
				return m, m.runTournament(parseRoster(roster))
			}

		case tea.KeyRight:
			if m.state == stateViewing && m.cycle < len(m.result.Log)-1 {
				m.cycle++
				m.refresh()
			}
			return m, nil

		case tea.KeyLeft:
			if m.state == stateViewing && m.cycle > 0 {
				m.cycle--
				m.refresh()
			}
			return m, nil

		case tea.KeyRunes:
			if m.state == stateViewing || m.state == stateError {
				switch string(msg.Runes) {
				case "q":
					return m, tea.Quit
				case "r":
					m.state = stateInputRoster
					m.result = nil
					m.err = nil
					m.cycle = 0
					m.input.Reset()
					return m, nil
				}
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.65)
		m.viewport.Height = max(msg.Height-6, 1)
		if m.state == stateViewing {
			m.refresh()
		}

	case tournamentDoneMsg:
		m.result = msg.result
		m.state = stateViewing
		m.cycle = 0
		m.refresh()
		return m, nil

	case errMsg:
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	if m.state == stateInputRoster {
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateInputRoster:
		s = fmt.Sprintf(
			"PRISONER'S ROYALE\n\n%s\n\n%s",
			"Enter the participants (built-in or saved strategy names, comma separated):",
			m.input.View(),
		)

	case stateRunning:
		s = "\n  Running the tournament...\n"

	case stateViewing:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderSide(),
		)
		help := helpStyle.Render("←/→: previous/next cycle, r: new tournament, q: quit")
		s = lipgloss.JoinVertical(lipgloss.Left, mainView, "\n"+help)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress r to try again or Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m *model) refresh() {
	m.viewport.SetContent(m.renderCycle())
	m.viewport.GotoTop()
}

func (m model) renderCycle() string {
	if m.result == nil || len(m.result.Log) == 0 {
		return ""
	}
	log := m.result.Log[m.cycle]

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("CYCLE %d OF %d", log.Round, len(m.result.Log))))
	b.WriteString("\n\n")
	for _, e := range log.Eliminated {
		b.WriteString(eliminatedStyle.Render(fmt.Sprintf("ELIMINATED  %-28s %5d", e.ID, e.Score)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for i, e := range log.Leaderboard {
		b.WriteString(survivorStyle.Render(fmt.Sprintf("#%02d %-32s %5d", i+1, e.ID, e.Score)))
		b.WriteString("\n")
	}
	if len(log.Leaderboard) == 0 {
		b.WriteString(survivorStyle.Render("(no survivors)"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) renderSide() string {
	if m.result == nil {
		return ""
	}

	outcome := titleStyle.Render("OUTCOME") + "\n"
	if m.result.Draw() {
		outcome += "Draw: everyone left fell together\n\n"
	} else {
		outcome += "Winner: " + m.result.Winner + "\n\n"
	}

	fallen := titleStyle.Render("FALLEN SO FAR") + "\n"
	for _, log := range m.result.Log[:m.cycle+1] {
		for _, e := range log.Eliminated {
			fallen += fmt.Sprintf("%d. %s\n", log.Round, e.StrategyName)
		}
	}

	width := max(int(float64(m.width)*0.3), 24)
	return sideStyle.Width(width).Height(m.viewport.Height).Render(outcome + fallen)
}

func (m model) runTournament(names []string) tea.Cmd {
	return func() tea.Msg {
		players, err := m.resolver.ResolveAll(names)
		if err != nil {
			return errMsg{err}
		}
		result, err := m.engine.Run(players)
		if err != nil {
			return errMsg{err}
		}
		return tournamentDoneMsg{result}
	}
}

func parseRoster(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	return fields
}

func Run(eng *engine.Engine, resolver *engine.Resolver) error {
	p := tea.NewProgram(NewModel(eng, resolver), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
