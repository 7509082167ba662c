package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/grantmcd/prisoners-royale/internal/models"
)

// Strategy decides the next move from the history against one opponent.
// Implementations must not keep state between calls.
type Strategy interface {
	Name() string
	Decide(h models.History) models.Move
}

// Func adapts a plain function into a Strategy.
type Func struct {
	name   string
	decide func(models.History) models.Move
}

func NewFunc(name string, decide func(models.History) models.Move) Func {
	return Func{name: name, decide: decide}
}

func (f Func) Name() string                        { return f.name }
func (f Func) Decide(h models.History) models.Move { return f.decide(h) }

// Built-in strategy names.
const (
	AlwaysCooperateName = "AlwaysCooperate"
	AlwaysDefectName    = "AlwaysDefect"
	TitForTatName       = "TitForTat"
	RandomName          = "Random"
	GrudgerName         = "Grudger"
	PavlovName          = "Pavlov"
)

var (
	AlwaysCooperate Strategy = NewFunc(AlwaysCooperateName, func(models.History) models.Move {
		return models.Cooperate
	})

	AlwaysDefect Strategy = NewFunc(AlwaysDefectName, func(models.History) models.Move {
		return models.Defect
	})

	// TitForTat opens with cooperation, then copies the opponent's last move.
	TitForTat Strategy = NewFunc(TitForTatName, func(h models.History) models.Move {
		last, ok := h.Last()
		if !ok {
			return models.Cooperate
		}
		return last.OpponentMove
	})

	// Grudger cooperates until the opponent defects once, then defects forever.
	Grudger Strategy = NewFunc(GrudgerName, func(h models.History) models.Move {
		for _, in := range h {
			if in.OpponentMove == models.Defect {
				return models.Defect
			}
		}
		return models.Cooperate
	})

	// Pavlov (win-stay, lose-shift) repeats its last move when both sides
	// matched and switches otherwise.
	Pavlov Strategy = NewFunc(PavlovName, func(h models.History) models.Move {
		last, ok := h.Last()
		if !ok {
			return models.Cooperate
		}
		if last.MyMove == last.OpponentMove {
			return last.MyMove
		}
		return flip(last.MyMove)
	})
)

func flip(m models.Move) models.Move {
	if m == models.Cooperate {
		return models.Defect
	}
	return models.Cooperate
}

// Coin supplies the randomness for the Random strategy.
type Coin interface {
	// Heads reports whether the next flip favours cooperation.
	Heads() bool
}

// CoinFunc adapts a function into a Coin.
type CoinFunc func() bool

func (f CoinFunc) Heads() bool { return f() }

// DefaultCoin draws from the shared math/rand/v2 source.
var DefaultCoin Coin = CoinFunc(func() bool { return rand.Float64() > 0.5 })

// SeededCoin returns a reproducible coin that is safe for concurrent use.
func SeededCoin(seed uint64) Coin {
	var mu sync.Mutex
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return CoinFunc(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return r.Float64() > 0.5
	})
}

// NewRandom returns a Random strategy driven by coin.
func NewRandom(coin Coin) Strategy {
	if coin == nil {
		coin = DefaultCoin
	}
	return NewFunc(RandomName, func(models.History) models.Move {
		if coin.Heads() {
			return models.Cooperate
		}
		return models.Defect
	})
}

// ErrUnknownStrategy is matched by UnknownStrategyError.
var ErrUnknownStrategy = errors.New("unknown strategy")

// UnknownStrategyError reports a name with no registry entry.
type UnknownStrategyError struct {
	Name string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown strategy %q", e.Name)
}

func (e *UnknownStrategyError) Is(target error) bool {
	return target == ErrUnknownStrategy
}

// Registry resolves built-in strategies by name.
type Registry struct {
	builtins map[string]Strategy
}

// NewRegistry builds the registry of built-ins. A nil coin uses DefaultCoin.
func NewRegistry(coin Coin) *Registry {
	r := &Registry{builtins: make(map[string]Strategy)}
	for _, s := range []Strategy{AlwaysCooperate, AlwaysDefect, TitForTat, NewRandom(coin), Grudger, Pavlov} {
		r.builtins[s.Name()] = s
	}
	return r
}

func (r *Registry) Lookup(name string) (Strategy, error) {
	s, ok := r.builtins[name]
	if !ok {
		return nil, &UnknownStrategyError{Name: name}
	}
	return s, nil
}

// Names lists the registered built-ins in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builtins))
	for name := range r.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
