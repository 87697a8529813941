// Package scoring implements the pure per-round and game-total scoring
// formulas of spec.md §4.4. Totals are always computed on demand from
// persisted RoundScore/RoundBid rows; nothing here is persisted directly.
package scoring

import "github.com/robpatriot/nommie/internal/model"

// RoundLine is one player's bid/tricks-won pair for a single round, enough
// to derive that round's points via model.RoundPoints.
type RoundLine struct {
	PlayerID  string
	Bid       int
	TricksWon int
}

// GameTotal sums a player's round points across every supplied line. Callers
// pass only the lines for rounds 1..N that exist so far; for a completed
// game that's all 26 rounds.
func GameTotal(lines []RoundLine) int {
	total := 0
	for _, l := range lines {
		total += model.RoundPoints(l.Bid, l.TricksWon)
	}
	return total
}

// TotalsByPlayer sums GameTotal per player across a mixed slice of lines
// from potentially many rounds.
func TotalsByPlayer(lines []RoundLine) map[string]int {
	totals := make(map[string]int)
	for _, l := range lines {
		totals[l.PlayerID] += model.RoundPoints(l.Bid, l.TricksWon)
	}
	return totals
}
