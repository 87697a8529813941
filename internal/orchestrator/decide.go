package orchestrator

import "github.com/robpatriot/nommie/internal/model"

// allReady reports whether a game has its full complement of four seats,
// all marked ready, per spec.md §4.6's ready command / §4.7's start
// condition.
func allReady(players []model.GamePlayer) bool {
	if len(players) != 4 {
		return false
	}
	for _, p := range players {
		if !p.IsReady {
			return false
		}
	}
	return true
}

// nextTurn advances current_turn by one seat, wrapping mod 4 — the
// ascending turn_order rule spec.md §4.3/§4.5 use for bidding and
// follow-play order.
func nextTurn(current int) int {
	return (current + 1) % 4
}

// tricksWonByPlayer tallies how many of the supplied trick winners belong
// to each player, for the RoundScore aggregation of spec.md §4.5.
func tricksWonByPlayer(winnerPlayerIDs []string) map[string]int {
	tally := make(map[string]int, len(winnerPlayerIDs))
	for _, id := range winnerPlayerIDs {
		tally[id]++
	}
	return tally
}

// seatOrder returns players sorted by turn_order, used by startGame and
// finishRound to pick the dealer seat and deal hands in play order.
func seatOrder(players []model.GamePlayer) []model.GamePlayer {
	out := make([]model.GamePlayer, len(players))
	copy(out, players)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && orderOf(out[j]) < orderOf(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func orderOf(p model.GamePlayer) int {
	if p.TurnOrder == nil {
		return -1
	}
	return *p.TurnOrder
}
