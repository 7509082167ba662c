// Package compiler turns a user-authored StrategyGraph into an executable strategy.
//
// A compiled graph is a small interpreter: every Decide call walks the graph from
// its START node until it reaches a MOVE node. Walks that dead-end, point at a
// missing node, or run past MaxSteps fall back to DefaultMove, so a malformed or
// cyclic graph plays as a cooperator instead of failing a tournament.
package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/grantmcd/prisoners-royale/internal/models"
)

const (
	// MaxSteps bounds the number of node visits in one walk.
	MaxSteps = 100

	DefaultMove = models.Cooperate

	// DefaultName is used when a graph is compiled without a name.
	DefaultName = "Custom"
)

// ErrStructural is matched by StructuralValidationError.
var ErrStructural = errors.New("invalid strategy graph")

// StructuralValidationError lists everything that keeps a graph from compiling.
type StructuralValidationError struct {
	Problems []string
}

func (e *StructuralValidationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrStructural, strings.Join(e.Problems, "; "))
}

func (e *StructuralValidationError) Is(target error) bool {
	return target == ErrStructural
}

const noNode = -1

type edge struct {
	to     int
	branch models.Branch
}

type node struct {
	id       string
	kind     models.NodeType
	move     models.Move
	cond     models.ConditionType
	expected *models.Move
	out      []edge
}

// met evaluates a condition node. With no prior round there is nothing to compare.
func (n *node) met(h models.History) bool {
	last, ok := h.Last()
	if !ok || n.expected == nil {
		return false
	}
	seen := last.OpponentMove
	if n.cond == models.MyLast {
		seen = last.MyMove
	}
	return seen == *n.expected
}

// next picks the edge labelled want, falling back to the first outgoing edge.
func (n *node) next(want models.Branch) int {
	if want != models.BranchNone {
		for _, e := range n.out {
			if e.branch == want {
				return e.to
			}
		}
	}
	if len(n.out) == 0 {
		return noNode
	}
	return n.out[0].to
}

// Strategy is a compiled graph. It is immutable and safe for concurrent use.
type Strategy struct {
	name  string
	nodes []node
	start int
}

// Compile validates g and builds its strategy. The graph is copied, so later
// changes to g do not affect the result.
func Compile(name string, g models.StrategyGraph) (*Strategy, error) {
	if err := Validate(g); err != nil {
		return nil, err
	}
	if name == "" {
		name = DefaultName
	}

	s := &Strategy{name: name, nodes: make([]node, 0, len(g.Nodes)), start: noNode}
	index := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := index[n.ID]; dup {
			continue
		}
		compiled := node{id: n.ID, kind: n.Type, cond: n.Data.ConditionType}
		if n.Data.Move != nil {
			compiled.move = *n.Data.Move
		}
		if n.Data.ExpectedMove != nil {
			expected := *n.Data.ExpectedMove
			compiled.expected = &expected
		}
		index[n.ID] = len(s.nodes)
		if n.Type == models.NodeStart {
			s.start = len(s.nodes)
		}
		s.nodes = append(s.nodes, compiled)
	}

	for _, e := range g.Edges {
		from, ok := index[e.From]
		if !ok {
			continue
		}
		to, ok := index[e.To]
		if !ok {
			to = noNode
		}
		s.nodes[from].out = append(s.nodes[from].out, edge{to: to, branch: e.Branch})
	}
	return s, nil
}

// Validate checks the structural rules: exactly one START node and at least one MOVE node.
func Validate(g models.StrategyGraph) error {
	var starts, moves int
	for _, n := range g.Nodes {
		switch n.Type {
		case models.NodeStart:
			starts++
		case models.NodeMove:
			moves++
		}
	}

	var problems []string
	switch {
	case starts == 0:
		problems = append(problems, "missing START node")
	case starts > 1:
		problems = append(problems, fmt.Sprintf("found %d START nodes, want exactly one", starts))
	}
	if moves == 0 {
		problems = append(problems, "no MOVE node")
	}
	if len(problems) > 0 {
		return &StructuralValidationError{Problems: problems}
	}
	return nil
}

func (s *Strategy) Name() string {
	return s.name
}

// Named returns a copy of s under a different name. The graph is shared.
func (s *Strategy) Named(name string) *Strategy {
	c := *s
	c.name = name
	return &c
}

func (s *Strategy) Decide(h models.History) models.Move {
	return s.walk(h, nil).Move
}

// Trace describes one walk of the graph.
type Trace struct {
	Move models.Move `json:"move"`
	Path []string    `json:"path"`
	// Fallback is set when the walk ended without reaching a MOVE node.
	Fallback bool `json:"fallback"`
}

// Explain walks the graph for h and records the visited node IDs.
func (s *Strategy) Explain(h models.History) Trace {
	path := []string{}
	return s.walk(h, &path)
}

func (s *Strategy) walk(h models.History, path *[]string) Trace {
	cur := s.start
	for steps := 0; cur != noNode && steps < MaxSteps; steps++ {
		n := &s.nodes[cur]
		if path != nil {
			*path = append(*path, n.id)
		}

		switch n.kind {
		case models.NodeMove:
			return Trace{Move: n.move, Path: deref(path)}
		case models.NodeCondition:
			want := models.BranchNo
			if n.met(h) {
				want = models.BranchYes
			}
			cur = n.next(want)
		default:
			cur = n.next(models.BranchNone)
		}
	}
	return Trace{Move: DefaultMove, Path: deref(path), Fallback: true}
}

func deref(path *[]string) []string {
	if path == nil {
		return nil
	}
	return *path
}
