// Package tricks implements the pure trick-resolution logic of spec.md
// §4.5: winner determination from a completed trick's plays, and the
// round-advance decision. Card ordering itself is delegated to
// internal/rules.
package tricks

import (
	"github.com/robpatriot/nommie/internal/model"
	"github.com/robpatriot/nommie/internal/rules"
)

// Play is one recorded play within a trick, in the order it was made.
type Play struct {
	PlayerID string
	Card     model.Card
}

// Winner determines the winning play of a complete trick given the lead
// suit (the first play's suit) and the round's trump. plays must be
// non-empty; behavior is undefined for an incomplete trick.
func Winner(plays []Play, trump *model.Suit) Play {
	lead := plays[0].Card.Suit
	best := plays[0]
	for _, p := range plays[1:] {
		if rules.Beats(p.Card, best.Card, lead, trump) {
			best = p
		}
	}
	return best
}

// IsComplete reports whether a trick has received a play from every seated
// player.
func IsComplete(playCount, playerCount int) bool {
	return playCount >= playerCount
}

// IsRoundComplete reports whether every trick of the round has been played
// (spec.md §4.5: a round has exactly cards_dealt tricks).
func IsRoundComplete(tricksPlayed, cardsDealt int) bool {
	return tricksPlayed >= cardsDealt
}

// IsLastRound reports whether roundNumber is the final round of the game.
func IsLastRound(roundNumber int) bool {
	return roundNumber >= rules.TotalRounds
}
