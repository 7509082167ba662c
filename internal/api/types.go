package api

import (
	"github.com/grantmcd/prisoners-royale/internal/compiler"
	"github.com/grantmcd/prisoners-royale/internal/engine"
	"github.com/grantmcd/prisoners-royale/internal/models"
)

type ErrorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

type NamedGraph struct {
	Name  string               `json:"name" binding:"required"`
	Graph models.StrategyGraph `json:"graph"`
}

// SimulateRequest names built-in or saved strategies and may add inline graphs.
// Together they must provide at least two participants.
type SimulateRequest struct {
	Strategies []string     `json:"strategies" binding:"omitempty,dive,required"`
	Graphs     []NamedGraph `json:"graphs" binding:"omitempty,dive"`
}

type SimulateResponse struct {
	RunID string `json:"runId"`
	*engine.Result
}

type CompileRequest struct {
	Name  string               `json:"name"`
	Graph models.StrategyGraph `json:"graph"`
}

type CompileResponse struct {
	Valid bool `json:"valid"`
	Nodes int  `json:"nodes"`
	Edges int  `json:"edges"`
	// Opening is how the strategy plays its first round.
	Opening compiler.Trace `json:"opening"`
}

// TestMatchRequest plays one graph against a named opponent.
type TestMatchRequest struct {
	Name     string               `json:"name"`
	Graph    models.StrategyGraph `json:"graph"`
	Opponent string               `json:"opponent" binding:"required"`
	Rounds   int                  `json:"rounds" binding:"omitempty,min=1,max=1000"`
}

type StrategyList struct {
	Builtins []string `json:"builtins"`
	Saved    []string `json:"saved"`
}

type SaveStrategyRequest struct {
	Description string               `json:"description"`
	Graph       models.StrategyGraph `json:"graph"`
}

// StreamMessage is one websocket frame of a streamed tournament.
type StreamMessage struct {
	Type   string           `json:"type"`
	RunID  string           `json:"runId,omitempty"`
	Round  *models.RoundLog `json:"round,omitempty"`
	Result *engine.Result   `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

const (
	streamRound  = "round"
	streamResult = "result"
	streamError  = "error"
)
