package rules

import (
	"testing"

	"github.com/robpatriot/nommie/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardsDealtSequence(t *testing.T) {
	want := []int{13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 2, 2, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}
	require.Len(t, want, TotalRounds)
	for r := 1; r <= TotalRounds; r++ {
		assert.Equalf(t, want[r-1], CardsDealt(r), "round %d", r)
	}
}

func TestCardsDealtSymmetric(t *testing.T) {
	for r := 1; r <= TotalRounds; r++ {
		assert.Equal(t, CardsDealt(r), CardsDealt(TotalRounds+1-r))
	}
	assert.Equal(t, 13, CardsDealt(1))
	assert.Equal(t, 13, CardsDealt(26))
}

func TestDealerSeatRotation(t *testing.T) {
	assert.Equal(t, 0, DealerSeat(1))
	assert.Equal(t, 1, DealerSeat(2))
	assert.Equal(t, 3, DealerSeat(4))
	assert.Equal(t, 0, DealerSeat(5))
}

func TestParseCard(t *testing.T) {
	c, err := model.ParseCard("KH")
	require.NoError(t, err)
	assert.Equal(t, model.King, c.Rank)
	assert.Equal(t, model.Hearts, c.Suit)

	_, err = model.ParseCard("1H")
	assert.Error(t, err)
	_, err = model.ParseCard("KX")
	assert.Error(t, err)
	_, err = model.ParseCard("K")
	assert.Error(t, err)
}

// Scenario 1 — deterministic trick winner, no trump.
func TestBeatsScenario1NoTrump(t *testing.T) {
	h7 := model.Card{Rank: 7, Suit: model.Hearts}
	hK := model.Card{Rank: model.King, Suit: model.Hearts}
	h2 := model.Card{Rank: 2, Suit: model.Hearts}
	h9 := model.Card{Rank: 9, Suit: model.Hearts}

	plays := []model.Card{h7, hK, h2, h9}
	winner := 0
	for i := 1; i < len(plays); i++ {
		if Beats(plays[i], plays[winner], model.Hearts, nil) {
			winner = i
		}
	}
	assert.Equal(t, 1, winner) // KH
}

// Scenario 2 — trump overrides lead.
func TestBeatsScenario2Trump(t *testing.T) {
	ah := model.Card{Rank: model.Ace, Suit: model.Hearts}
	s2 := model.Card{Rank: 2, Suit: model.Spades}
	h7 := model.Card{Rank: 7, Suit: model.Hearts}
	sk := model.Card{Rank: model.King, Suit: model.Spades}

	trump := model.Spades
	plays := []model.Card{ah, s2, h7, sk}
	winner := 0
	for i := 1; i < len(plays); i++ {
		if Beats(plays[i], plays[winner], model.Hearts, &trump) {
			winner = i
		}
	}
	assert.Equal(t, 3, winner) // KS
}

func TestValidatePlayFollowSuit(t *testing.T) {
	hand := []model.Card{
		{Rank: 5, Suit: model.Hearts},
		{Rank: 9, Suit: model.Clubs},
	}
	err := ValidatePlay(hand, hand[1], false, model.Hearts)
	assert.ErrorContains(t, err, "must follow suit")

	err = ValidatePlay(hand, hand[0], false, model.Hearts)
	assert.NoError(t, err)

	err = ValidatePlay(hand, model.Card{Rank: 2, Suit: model.Diamonds}, false, model.Hearts)
	assert.ErrorContains(t, err, "not in hand")
}
