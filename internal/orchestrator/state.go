package orchestrator

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/robpatriot/nommie/internal/model"
	"github.com/robpatriot/nommie/internal/snapshot"
	"github.com/robpatriot/nommie/internal/store"
)

// GameSummary is one row of the spec.md §6 GET /api/games lobby listing.
type GameSummary struct {
	ID           string          `json:"id"`
	State        model.GameState `json:"state"`
	PlayerCount  int             `json:"player_count"`
	MaxPlayers   int             `json:"max_players"`
	IsUserInGame bool            `json:"is_user_in_game"`
}

// GetState returns callerUserID's view of gameID, per spec.md §4.6's
// get_state row, built by the read-only Snapshot Builder. No row lock is
// taken, but the read runs inside one repeatable-read transaction so a
// concurrent round transition can't be observed half-applied.
func (o *Orchestrator) GetState(ctx context.Context, gameID, callerUserID string) (*snapshot.Snapshot, error) {
	var snap *snapshot.Snapshot
	err := o.store.WithReadTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		snap, err = snapshot.Build(ctx, tx, o.store, gameID, callerUserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// GetSummary returns gameID's final summary, the per-player total score
// and round-by-round breakdown available once a game has completed.
func (o *Orchestrator) GetSummary(ctx context.Context, gameID, callerUserID string) (*snapshot.Summary, error) {
	var sum *snapshot.Summary
	err := o.store.WithReadTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		sum, err = snapshot.BuildSummary(ctx, tx, o.store, gameID, callerUserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// ListGames returns the lobby listing of spec.md §6's GET /api/games,
// annotated with whether callerUserID is seated in each.
func (o *Orchestrator) ListGames(ctx context.Context, callerUserID string, limit int) ([]GameSummary, error) {
	games, err := o.store.ListGames(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]GameSummary, 0, len(games))
	err = o.store.WithReadTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, g := range games {
			players, err := o.store.ListPlayers(ctx, tx, g.ID)
			if err != nil {
				return err
			}
			_, inGame := store.FindPlayer(players, callerUserID)
			out = append(out, GameSummary{
				ID:           g.ID,
				State:        g.State,
				PlayerCount:  len(players),
				MaxPlayers:   4,
				IsUserInGame: inGame,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
