package orchestrator

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/bidding"
	"github.com/robpatriot/nommie/internal/gamefsm"
	"github.com/robpatriot/nommie/internal/model"
)

// Bid records callerUserID's bid for the current round, per spec.md
// §4.6's bid row. If this is the fourth bid, bidding closes per §4.3:
// phase advances to TrumpSelection and current_turn becomes the winning
// bidder's turn_order.
func (o *Orchestrator) Bid(ctx context.Context, gameID, callerUserID string, bid int) (*model.Game, error) {
	var g *model.Game
	err := o.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		g, err = o.store.LockGame(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if err := gamefsm.Check(tagOf(g), gamefsm.Bid); err != nil {
			return err
		}
		if !bidding.ValidRange(bid) {
			return apierrors.New(apierrors.RangeViolation, "bid %d out of range 0..%d", bid, bidding.MaxBid)
		}
		me, _, err := requireMember(ctx, tx, o.store, gameID, callerUserID)
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
		if err := o.store.RecordBid(ctx, tx, round.ID, me.ID, bid); err != nil {
			return err
		}

		bids, err := o.store.RoundBids(ctx, tx, round.ID)
		if err != nil {
			return err
		}
		players, err := o.store.ListPlayers(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if !bidding.IsClosed(len(bids), len(players)) {
			next := nextTurn(*g.CurrentTurn)
			g.CurrentTurn = &next
			return o.store.UpdateGame(ctx, tx, g)
		}

		entries := make([]bidding.Entry, len(bids))
		for i, b := range bids {
			p, ok := findPlayerByID(players, b.PlayerID)
			if !ok {
				return apierrors.New(apierrors.Internal, "bid %s references unknown seat", b.ID)
			}
			entries[i] = bidding.Entry{PlayerID: b.PlayerID, TurnOrder: *p.TurnOrder, Bid: b.Bid}
		}
		winner := bidding.Resolve(entries)

		g.Phase = model.PhaseTrumpSelect
		g.CurrentTurn = &winner.TurnOrder
		return o.store.UpdateGame(ctx, tx, g)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ChooseTrump records the round's trump suit, per spec.md §4.6's trump
// row. Only the round's highest bidder may call it; writing the trump
// opens Playing with player 0 leading the first trick.
func (o *Orchestrator) ChooseTrump(ctx context.Context, gameID, callerUserID string, suit model.Suit) (*model.Game, error) {
	var g *model.Game
	err := o.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		g, err = o.store.LockGame(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if err := gamefsm.Check(tagOf(g), gamefsm.ChooseTrump); err != nil {
			return err
		}
		me, players, err := requireMember(ctx, tx, o.store, gameID, callerUserID)
		if err != nil {
			return err
		}

		round, err := o.store.CurrentRound(ctx, tx, gameID)
		if err != nil {
			return err
		}
		bids, err := o.store.RoundBids(ctx, tx, round.ID)
		if err != nil {
			return err
		}
		entries := make([]bidding.Entry, len(bids))
		for i, b := range bids {
			p, ok := findPlayerByID(players, b.PlayerID)
			if !ok {
				return apierrors.New(apierrors.Internal, "bid %s references unknown seat", b.ID)
			}
			entries[i] = bidding.Entry{PlayerID: b.PlayerID, TurnOrder: *p.TurnOrder, Bid: b.Bid}
		}
		winner := bidding.Resolve(entries)
		if winner.PlayerID != me.ID {
			return apierrors.New(apierrors.Unauthorized, "only the highest bidder chooses trump")
		}

		if err := o.store.SetTrump(ctx, tx, round.ID, suit); err != nil {
			return err
		}
		if _, err := o.store.CreateTrick(ctx, tx, round.ID, 1); err != nil {
			return err
		}

		g.Phase = model.PhasePlaying
		first := 0
		g.CurrentTurn = &first
		return o.store.UpdateGame(ctx, tx, g)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// findPlayerByID locates a seat by its GamePlayer id (distinct from
// FindPlayer, which looks up by user_id).
func findPlayerByID(players []model.GamePlayer, gamePlayerID string) (model.GamePlayer, bool) {
	for _, p := range players {
		if p.ID == gamePlayerID {
			return p, true
		}
	}
	return model.GamePlayer{}, false
}
