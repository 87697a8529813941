// Package orchestrator is the transactional command coordinator of
// spec.md §4.6: for each external command it opens a transaction, locks
// the target Game row, validates against the current (state, phase) tag
// and the rules packages, mutates the store, and advances phase when a
// triggering condition is met. There is no in-process game registry:
// every method here opens its own transaction and locks only the
// database row (spec.md §5, §9 "Concurrency").
package orchestrator

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/dealer"
	"github.com/robpatriot/nommie/internal/gamefsm"
	"github.com/robpatriot/nommie/internal/logging"
	"github.com/robpatriot/nommie/internal/model"
	"github.com/robpatriot/nommie/internal/store"
)

var log = logging.Logger("ORCH")

// Orchestrator dispatches the nine commands of spec.md §4.6 against a Store.
type Orchestrator struct {
	store     store.Querier
	newSource func() dealer.Source
}

// New builds an Orchestrator backed by st, dealing with a fresh
// cryptographically seeded shuffle source per round.
func New(st store.Querier) *Orchestrator {
	return &Orchestrator{store: st, newSource: func() dealer.Source { return dealer.NewCryptoSource() }}
}

// WithSource overrides the shuffle source factory, for deterministic tests.
func (o *Orchestrator) WithSource(factory func() dealer.Source) *Orchestrator {
	o.newSource = factory
	return o
}

// tagOf derives the gamefsm.Tag of a game's current (state, phase).
func tagOf(g *model.Game) gamefsm.Tag {
	return gamefsm.Tag{State: g.State, Phase: g.Phase}
}

// requireMember looks up callerUserID's seat in gameID, failing with
// Unauthorized if the caller never joined, per spec.md §7.
func requireMember(ctx context.Context, tx pgx.Tx, st store.Querier, gameID, callerUserID string) (model.GamePlayer, []model.GamePlayer, error) {
	players, err := st.ListPlayers(ctx, tx, gameID)
	if err != nil {
		return model.GamePlayer{}, nil, err
	}
	me, ok := store.FindPlayer(players, callerUserID)
	if !ok {
		return model.GamePlayer{}, nil, apierrors.New(apierrors.Unauthorized, "caller is not a participant in game %s", gameID)
	}
	return me, players, nil
}

// requireTurn checks that me is the seat whose turn_order matches the
// game's current_turn, per spec.md §7 TurnConflict.
func requireTurn(me model.GamePlayer, g *model.Game) error {
	if g.CurrentTurn == nil || me.TurnOrder == nil || *me.TurnOrder != *g.CurrentTurn {
		return apierrors.New(apierrors.TurnConflict, "it is not player %s's turn", me.UserID)
	}
	return nil
}
