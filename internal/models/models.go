package models

import (
	"fmt"
	"strings"
)

// Move is a single Prisoner's Dilemma choice.
type Move uint8

const (
	Cooperate Move = iota
	Defect
)

func (m Move) String() string {
	if m == Defect {
		return "defect"
	}
	return "cooperate"
}

// Short is the one-letter form used in round logs ("C" or "D").
func (m Move) Short() string {
	if m == Defect {
		return "D"
	}
	return "C"
}

func (m Move) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Move) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "cooperate", "c":
		*m = Cooperate
	case "defect", "d":
		*m = Defect
	default:
		return fmt.Errorf("invalid move %q", string(b))
	}
	return nil
}

// Interaction is one resolved round seen from one side.
type Interaction struct {
	MyMove       Move `json:"myMove" yaml:"myMove"`
	OpponentMove Move `json:"opponentMove" yaml:"opponentMove"`
}

// History is the ordered record of rounds against a single opponent, most recent last.
type History []Interaction

// Last returns the most recent interaction.
func (h History) Last() (Interaction, bool) {
	if len(h) == 0 {
		return Interaction{}, false
	}
	return h[len(h)-1], true
}

// NodeType identifies the kind of a strategy graph node.
type NodeType string

const (
	NodeStart     NodeType = "START"
	NodeMove      NodeType = "MOVE"
	NodeCondition NodeType = "CONDITION"
)

func (t *NodeType) UnmarshalText(b []byte) error {
	switch v := NodeType(strings.ToUpper(strings.TrimSpace(string(b)))); v {
	case NodeStart, NodeMove, NodeCondition:
		*t = v
	default:
		return fmt.Errorf("invalid node type %q", string(b))
	}
	return nil
}

// ConditionType selects which side's last move a condition inspects.
type ConditionType string

const (
	OpponentLast ConditionType = "OPPONENT_LAST"
	MyLast       ConditionType = "MY_LAST"
)

func (c *ConditionType) UnmarshalText(b []byte) error {
	switch v := ConditionType(strings.ToUpper(strings.TrimSpace(string(b)))); v {
	case OpponentLast, MyLast:
		*c = v
	default:
		return fmt.Errorf("invalid condition type %q", string(b))
	}
	return nil
}

// Branch labels an edge leaving a condition node.
type Branch string

const (
	BranchNone Branch = ""
	BranchYes  Branch = "yes"
	BranchNo   Branch = "no"
)

func (br *Branch) UnmarshalText(b []byte) error {
	switch v := Branch(strings.ToLower(strings.TrimSpace(string(b)))); v {
	case BranchNone, BranchYes, BranchNo:
		*br = v
	default:
		return fmt.Errorf("invalid branch %q", string(b))
	}
	return nil
}

// NodeData carries the per-type payload of a node. Unused fields stay empty.
type NodeData struct {
	Move          *Move         `json:"move,omitempty" yaml:"move,omitempty"`
	ConditionType ConditionType `json:"conditionType,omitempty" yaml:"conditionType,omitempty"`
	ExpectedMove  *Move         `json:"expectedMove,omitempty" yaml:"expectedMove,omitempty"`
}

// Node is a vertex of a strategy graph. X and Y are editor coordinates only.
type Node struct {
	ID   string   `json:"id" yaml:"id"`
	Type NodeType `json:"type" yaml:"type"`
	Data NodeData `json:"data" yaml:"data"`
	X    float64  `json:"x,omitempty" yaml:"x,omitempty"`
	Y    float64  `json:"y,omitempty" yaml:"y,omitempty"`
}

// Edge connects two nodes. Only edges leaving a condition node carry a branch.
type Edge struct {
	From   string `json:"from" yaml:"from"`
	To     string `json:"to" yaml:"to"`
	Branch Branch `json:"branch,omitempty" yaml:"branch,omitempty"`
}

// StrategyGraph is the declarative form of a user-authored strategy.
type StrategyGraph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// MovePtr is a convenience for building node data literals.
func MovePtr(m Move) *Move {
	return &m
}

// StandingEntry is one player's line in a round log.
type StandingEntry struct {
	ID           string `json:"id" yaml:"id"`
	StrategyName string `json:"strategyName" yaml:"strategyName"`
	Score        int    `json:"score" yaml:"score"`
}

// RoundLog records the outcome of one elimination cycle.
type RoundLog struct {
	Round         int             `json:"round" yaml:"round"`
	SurvivorCount int             `json:"survivorCount" yaml:"survivorCount"`
	Eliminated    []StandingEntry `json:"eliminated" yaml:"eliminated"`
	Leaderboard   []StandingEntry `json:"leaderboard" yaml:"leaderboard"`
}

// SavedStrategy is a named graph stored in the strategy library.
type SavedStrategy struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Graph       StrategyGraph `json:"graph" yaml:"graph"`
}
