// Package rules implements the pure, I/O-free rules of spec.md §4.1: the
// round-to-hand-size mapping, dealer rotation, and trick comparison /
// follow-suit predicates.
package rules

import (
	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/model"
)

// TotalRounds is the fixed length of a Nommie game.
const TotalRounds = 26

// CardsDealt returns the number of cards dealt to each player in round r,
// per spec.md §4.1:
//
//	rounds 1-11:  14 - r   (13, 12, ..., 3)
//	rounds 12-15: 2
//	rounds 16-26: r - 13   (3, 4, ..., 13)
func CardsDealt(round int) int {
	switch {
	case round >= 1 && round <= 11:
		return 14 - round
	case round >= 12 && round <= 15:
		return 2
	case round >= 16 && round <= 26:
		return round - 13
	default:
		panic("rules: round out of range 1..26")
	}
}

// DealerSeat returns the turn_order (0..3) of the dealer for round r,
// per spec.md §4.1: dealer index is (r-1) mod 4.
func DealerSeat(round int) int {
	return (round - 1) % 4
}

// FirstLeader is the turn_order that leads trick 1 of every round. The
// reference behavior fixes this at player 0 (spec.md §4.1, §9 Open
// Questions) rather than deriving it from the dealer.
const FirstLeader = 0

// Beats reports whether card a beats card b within a trick led with suit
// lead and played under trump (nil if the round has no trump, e.g. during
// the brief window before trump selection), per spec.md §4.1 rules 1-4.
// Only called for pairs that can actually arise as lead/trump-consistent
// plays; rule 5 ("otherwise undefined") is unreachable given a legal trick.
func Beats(a, b model.Card, lead model.Suit, trump *model.Suit) bool {
	aTrump := trump != nil && a.Suit == *trump
	bTrump := trump != nil && b.Suit == *trump
	switch {
	case aTrump && !bTrump:
		return true
	case bTrump && !aTrump:
		return false
	case aTrump && bTrump:
		return a.Rank > b.Rank
	case a.Suit == lead && b.Suit == lead:
		return a.Rank > b.Rank
	case a.Suit == lead && b.Suit != lead:
		return true
	default:
		return false
	}
}

// MustFollowSuit reports whether hand must follow lead, i.e. it holds at
// least one card of the lead suit.
func MustFollowSuit(hand []model.Card, lead model.Suit) bool {
	for _, c := range hand {
		if c.Suit == lead {
			return true
		}
	}
	return false
}

// ValidatePlay checks a proposed play against the follow-suit rule
// (spec.md §4.1). trickEmpty indicates this is the opening lead of the
// trick, in which case any card is legal.
func ValidatePlay(hand []model.Card, card model.Card, trickEmpty bool, lead model.Suit) error {
	found := false
	for _, c := range hand {
		if c == card {
			found = true
			break
		}
	}
	if !found {
		return apierrors.New(apierrors.OwnershipViolation, "card %s not in hand", card)
	}
	if trickEmpty {
		return nil
	}
	if card.Suit != lead && MustFollowSuit(hand, lead) {
		return apierrors.New(apierrors.FollowSuitViolation, "must follow suit %s", lead)
	}
	return nil
}
