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
)

// CreateGame creates a Waiting game with callerUserID seated at turn_order
// 0, per spec.md §4.6's create_game row. No game row exists yet to lock.
func (o *Orchestrator) CreateGame(ctx context.Context, callerUserID string) (*model.Game, []model.GamePlayer, error) {
	g, err := o.store.CreateGame(ctx, callerUserID)
	if err != nil {
		return nil, nil, err
	}
	var players []model.GamePlayer
	err = o.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var listErr error
		players, listErr = o.store.ListPlayers(ctx, tx, g.ID)
		return listErr
	})
	if err != nil {
		return nil, nil, err
	}
	log.Infof("game %s created by %s", g.ID, callerUserID)
	return g, players, nil
}

// JoinGame seats callerUserID into gameID, per spec.md §4.6's join_game row.
func (o *Orchestrator) JoinGame(ctx context.Context, gameID, callerUserID string) (*model.Game, error) {
	var g *model.Game
	err := o.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		g, err = o.store.LockGame(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if err := gamefsm.Check(tagOf(g), gamefsm.JoinGame); err != nil {
			return err
		}
		_, err = o.store.AddPlayer(ctx, tx, gameID, callerUserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// AddAI seats a freshly created, already-ready AI user into gameID, per
// spec.md §4.6's add_ai row. The caller must already be seated.
func (o *Orchestrator) AddAI(ctx context.Context, gameID, callerUserID string) (*model.Game, error) {
	var g *model.Game
	err := o.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		g, err = o.store.LockGame(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if err := gamefsm.Check(tagOf(g), gamefsm.AddAI); err != nil {
			return err
		}
		if _, _, err := requireMember(ctx, tx, o.store, gameID, callerUserID); err != nil {
			return err
		}
		ai, err := o.store.CreateAIUser(ctx, "AI")
		if err != nil {
			return err
		}
		seat, err := o.store.AddPlayer(ctx, tx, gameID, ai.ID)
		if err != nil {
			return err
		}
		return o.store.SetReady(ctx, tx, seat.ID, true)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Ready marks callerUserID's seat ready, and if all four seats are now
// ready, starts the game within the same transaction, per spec.md §4.6's
// ready row and §4.7.
func (o *Orchestrator) Ready(ctx context.Context, gameID, callerUserID string) (*model.Game, error) {
	var g *model.Game
	err := o.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		g, err = o.store.LockGame(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if err := gamefsm.Check(tagOf(g), gamefsm.Ready); err != nil {
			return err
		}
		me, players, err := requireMember(ctx, tx, o.store, gameID, callerUserID)
		if err != nil {
			return err
		}
		if err := o.store.SetReady(ctx, tx, me.ID, true); err != nil {
			return err
		}
		for i := range players {
			if players[i].UserID == callerUserID {
				players[i].IsReady = true
			}
		}
		if !allReady(players) {
			return nil
		}
		return o.startGame(ctx, tx, g, players)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// startGame implements spec.md §4.7: deals round 1 and opens Bidding.
// Seats already carry the turn_order 0..3 AddPlayer assigned at join time
// (the reference "join order" allocation); g and tx are the caller's
// already-locked state, and g is mutated in place.
func (o *Orchestrator) startGame(ctx context.Context, tx pgx.Tx, g *model.Game, players []model.GamePlayer) error {
	ordered := seatOrder(players)

	dealerSeat := rules.DealerSeat(1)
	dealerPlayerID := ordered[dealerSeat].ID
	cardsDealt := rules.CardsDealt(1)

	hands := dealer.Deal(o.newSource(), playerIDs(ordered), cardsDealt)

	if _, err := o.store.CreateRound(ctx, tx, g.ID, 1, dealerPlayerID, cardsDealt, hands); err != nil {
		return err
	}

	g.State = model.GameStarted
	g.Phase = model.PhaseBidding
	zero := rules.FirstLeader
	g.CurrentTurn = &zero
	now := time.Now()
	g.StartedAt = &now
	return o.store.UpdateGame(ctx, tx, g)
}

// DeleteGame cascades-deletes gameID, permitted only when the game is not
// Started, per spec.md §9's Open Questions resolution.
func (o *Orchestrator) DeleteGame(ctx context.Context, gameID, callerUserID string) error {
	return o.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		g, err := o.store.LockGame(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if _, _, err := requireMember(ctx, tx, o.store, gameID, callerUserID); err != nil {
			return err
		}
		if g.State == model.GameStarted {
			return apierrors.New(apierrors.StateConflict, "cannot delete a game in progress")
		}
		return o.store.DeleteGame(ctx, tx, gameID)
	})
}

func playerIDs(players []model.GamePlayer) []string {
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}
