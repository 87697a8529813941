// Package bidding implements the pure bid-resolution logic of spec.md
// §4.3: highest-bid wins, first-in-turn-order wins ties.
package bidding

// Entry is one player's bid, tagged with the turn_order it was submitted
// at. Bids are accepted strictly in turn order (spec.md §4.3), so
// "first submitted" and "earliest turn order" coincide.
type Entry struct {
	PlayerID  string
	TurnOrder int
	Bid       int
}

// MinBid and MaxBid bound a legal bid (spec.md §4.3, §8).
const (
	MinBid = 0
	MaxBid = 13
)

// ValidRange reports whether bid is within the legal 0..13 range.
func ValidRange(bid int) bool {
	return bid >= MinBid && bid <= MaxBid
}

// Resolve picks the trump chooser from a complete set of four bids:
// highest bid wins; ties are broken by earliest turn_order (spec.md §4.3,
// scenario 3). entries must be non-empty; behavior is undefined for fewer
// than four entries (the orchestrator only calls Resolve once four
// RoundBid rows exist).
func Resolve(entries []Entry) Entry {
	best := entries[0]
	for _, e := range entries[1:] {
		if e.Bid > best.Bid || (e.Bid == best.Bid && e.TurnOrder < best.TurnOrder) {
			best = e
		}
	}
	return best
}

// IsClosed reports whether the round's bidding phase is complete: every
// seated player has submitted exactly one bid.
func IsClosed(bidCount, playerCount int) bool {
	return bidCount >= playerCount
}
