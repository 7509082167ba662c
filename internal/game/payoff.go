// Package game holds the Prisoner's Dilemma rules and the built-in strategies.
package game

import "github.com/grantmcd/prisoners-royale/internal/models"

// Payoffs for a single round.
const (
	Reward     = 3 // mutual cooperation
	Punishment = 1 // mutual defection
	Temptation = 5 // defecting against a cooperator
	Sucker     = 0 // cooperating against a defector
)

// Score returns the points earned by each side for one round.
func Score(a, b models.Move) (int, int) {
	switch {
	case a == models.Cooperate && b == models.Cooperate:
		return Reward, Reward
	case a == models.Defect && b == models.Defect:
		return Punishment, Punishment
	case a == models.Defect:
		return Temptation, Sucker
	default:
		return Sucker, Temptation
	}
}
