package orchestrator

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/dealer"
	"github.com/robpatriot/nommie/internal/gamefsm"
	"github.com/robpatriot/nommie/internal/model"
	"github.com/robpatriot/nommie/internal/rules"
	"github.com/robpatriot/nommie/internal/tricks"
)

// PlayCard records callerUserID's card for the current trick, per spec.md
// §4.6's play row. On trick completion it resolves the winner; on round
// completion it tallies scores and either starts the next round or
// completes the game, all per spec.md §4.5.
func (o *Orchestrator) PlayCard(ctx context.Context, gameID, callerUserID string, card model.Card) (*model.Game, error) {
	var g *model.Game
	err := o.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		g, err = o.store.LockGame(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if err := gamefsm.Check(tagOf(g), gamefsm.PlayCard); err != nil {
			return err
		}
		me, players, err := requireMember(ctx, tx, o.store, gameID, callerUserID)
		if err != nil {
			return err
		}
		if err := requireTurn(me, g); err != nil {
			return err
		}

		round, err := o.store.CurrentRound(ctx, tx, gameID)
		if err != nil {
			return err
		}
		trick, err := o.store.CurrentTrick(ctx, tx, round.ID)
		if err != nil {
			return err
		}
		plays, err := o.store.TrickPlays(ctx, tx, trick.ID)
		if err != nil {
			return err
		}
		hand, err := o.store.PlayerHand(ctx, tx, round.ID, me.ID)
		if err != nil {
			return err
		}

		trickEmpty := len(plays) == 0
		var lead model.Suit
		if !trickEmpty {
			lead = plays[0].Card.Suit
		}
		if err := rules.ValidatePlay(hand, card, trickEmpty, lead); err != nil {
			return err
		}

		if err := o.store.RecordPlay(ctx, tx, trick.ID, me.ID, card, len(plays)); err != nil {
			return err
		}
		if err := o.store.RemoveCard(ctx, tx, round.ID, me.ID, card); err != nil {
			return err
		}
		plays = append(plays, model.TrickPlay{TrickID: trick.ID, PlayerID: me.ID, Card: card, PlayOrder: len(plays)})

		if !tricks.IsComplete(len(plays), len(players)) {
			next := nextTurn(*g.CurrentTurn)
			g.CurrentTurn = &next
			return o.store.UpdateGame(ctx, tx, g)
		}

		winner := tricks.Winner(toTrickPlays(plays), round.TrumpSuit)
		if err := o.store.SetTrickWinner(ctx, tx, trick.ID, winner.PlayerID); err != nil {
			return err
		}

		allTricks, err := o.store.AllTricks(ctx, tx, round.ID)
		if err != nil {
			return err
		}
		tricksPlayed := len(allTricks)

		if !tricks.IsRoundComplete(tricksPlayed, round.CardsDealt) {
			winnerSeat, ok := findPlayerByID(players, winner.PlayerID)
			if !ok {
				return apierrors.New(apierrors.Internal, "trick winner %s is not a seated player", winner.PlayerID)
			}
			if _, err := o.store.CreateTrick(ctx, tx, round.ID, trick.TrickNumber+1); err != nil {
				return err
			}
			g.CurrentTurn = winnerSeat.TurnOrder
			return o.store.UpdateGame(ctx, tx, g)
		}

		return o.finishRound(ctx, tx, g, round, players, allTricks)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// finishRound tallies the completed round's trick wins into RoundScore
// and either opens the next round's Bidding phase or completes the game,
// per spec.md §4.5.
func (o *Orchestrator) finishRound(ctx context.Context, tx pgx.Tx, g *model.Game, round *model.GameRound, players []model.GamePlayer, allTricks []model.RoundTrick) error {
	tally := tricksWonByPlayer(winnerIDs(allTricks))
	scores := make(map[string]int, len(players))
	for _, p := range players {
		scores[p.ID] = tally[p.ID]
	}
	if err := o.store.RecordRoundScores(ctx, tx, round.ID, scores); err != nil {
		return err
	}

	if tricks.IsLastRound(round.RoundNumber) {
		g.State = model.GameCompleted
		g.Phase = ""
		g.CurrentTurn = nil
		now := time.Now()
		g.CompletedAt = &now
		return o.store.UpdateGame(ctx, tx, g)
	}

	nextRoundNumber := round.RoundNumber + 1
	ordered := seatOrder(players)
	dealerSeat := rules.DealerSeat(nextRoundNumber)
	dealerPlayerID := ordered[dealerSeat].ID
	cardsDealt := rules.CardsDealt(nextRoundNumber)
	hands := dealer.Deal(o.newSource(), playerIDs(ordered), cardsDealt)

	if _, err := o.store.CreateRound(ctx, tx, g.ID, nextRoundNumber, dealerPlayerID, cardsDealt, hands); err != nil {
		return err
	}

	g.Phase = model.PhaseBidding
	first := rules.FirstLeader
	g.CurrentTurn = &first
	return o.store.UpdateGame(ctx, tx, g)
}

func toTrickPlays(plays []model.TrickPlay) []tricks.Play {
	out := make([]tricks.Play, len(plays))
	for i, p := range plays {
		out[i] = tricks.Play{PlayerID: p.PlayerID, Card: p.Card}
	}
	return out
}

func winnerIDs(ts []model.RoundTrick) []string {
	ids := make([]string, 0, len(ts))
	for _, t := range ts {
		if t.WinnerPlayerID != nil {
			ids = append(ids, *t.WinnerPlayerID)
		}
	}
	return ids
}
