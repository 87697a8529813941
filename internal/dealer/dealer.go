// Package dealer builds and deals decks: a fixed 52-card deck shuffled
// through an injectable random source and cut into per-round hand sizes
// (spec.md §4.2).
package dealer

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
	"time"

	"github.com/robpatriot/nommie/internal/model"
)

// Source is the subset of *math/rand.Rand the dealer needs, so tests can
// inject a seeded, deterministic permutation (spec.md §9 "Randomness").
type Source interface {
	Shuffle(n int, swap func(i, j int))
}

// NewCryptoSource returns a Source seeded from a cryptographically secure
// random seed, the production default (spec.md §9).
func NewCryptoSource() Source {
	var seed [8]byte
	if _, err := cryptorand.Read(seed[:]); err != nil {
		// crypto/rand failing is an unrecoverable environment fault; fall
		// back to a time-derived seed rather than dealing an undefined deck.
		return mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	}
	return mathrand.New(mathrand.NewSource(int64(binary.LittleEndian.Uint64(seed[:]))))
}

// Deal constructs a freshly shuffled 52-card deck using src and deals
// cardsPerHand cards to each of the len(playerIDs) players, in turn_order.
// The reference allocation is contiguous: player 0 gets deck[0:k], player 1
// gets deck[k:2k], etc. (spec.md §4.2). Returns a map from playerID to
// their dealt hand.
func Deal(src Source, playerIDs []string, cardsPerHand int) map[string][]model.Card {
	deck := model.StandardDeck()
	src.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	hands := make(map[string][]model.Card, len(playerIDs))
	for i, id := range playerIDs {
		start := i * cardsPerHand
		hand := make([]model.Card, cardsPerHand)
		copy(hand, deck[start:start+cardsPerHand])
		hands[id] = hand
	}
	return hands
}
