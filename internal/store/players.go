package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/model"
)

// AddPlayer seats userID into a Waiting game at the next free turn_order
// (0-3), per spec.md §4.1's join_game / add_ai commands. Caller must hold
// the game's row lock; the UNIQUE(game_id, turn_order) constraint backs
// up the capacity check against a racing writer.
func (s *Store) AddPlayer(ctx context.Context, tx pgx.Tx, gameID, userID string) (*model.GamePlayer, error) {
	existing, err := s.ListPlayers(ctx, tx, gameID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= 4 {
		return nil, apierrors.New(apierrors.CapacityConflict, "game %s already has 4 players", gameID)
	}
	for _, p := range existing {
		if p.UserID == userID {
			return nil, apierrors.New(apierrors.DuplicateAction, "user %s already joined game %s", userID, gameID)
		}
	}
	order := len(existing)

	var p model.GamePlayer
	row := tx.QueryRow(ctx, `
		INSERT INTO game_players (id, game_id, user_id, turn_order, is_ready)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, game_id, user_id, turn_order, is_ready
	`, uuid.NewString(), gameID, userID, order)
	if err := row.Scan(&p.ID, &p.GameID, &p.UserID, &p.TurnOrder, &p.IsReady); err != nil {
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "seat player %s", userID)
	}
	return &p, nil
}

// ListPlayers returns a game's seats ordered by turn_order, within tx so
// it observes the caller's locked snapshot.
func (s *Store) ListPlayers(ctx context.Context, tx pgx.Tx, gameID string) ([]model.GamePlayer, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, game_id, user_id, turn_order, is_ready
		FROM game_players WHERE game_id = $1 ORDER BY turn_order NULLS LAST
	`, gameID)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "list players for %s", gameID)
	}
	defer rows.Close()

	var players []model.GamePlayer
	for rows.Next() {
		var p model.GamePlayer
		if err := rows.Scan(&p.ID, &p.GameID, &p.UserID, &p.TurnOrder, &p.IsReady); err != nil {
			return nil, apierrors.Wrap(apierrors.TransientStorage, err, "scan player row")
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// SetReady marks a seat ready, per spec.md §4.1's ready command.
func (s *Store) SetReady(ctx context.Context, tx pgx.Tx, gamePlayerID string, ready bool) error {
	tag, err := tx.Exec(ctx, `UPDATE game_players SET is_ready = $2 WHERE id = $1`, gamePlayerID, ready)
	if err != nil {
		return apierrors.Wrap(apierrors.TransientStorage, err, "set ready for %s", gamePlayerID)
	}
	if tag.RowsAffected() == 0 {
		return apierrors.New(apierrors.NotFound, "game player %s not found", gamePlayerID)
	}
	return nil
}

// FindPlayer locates the seat for userID, if any, among players.
func FindPlayer(players []model.GamePlayer, userID string) (model.GamePlayer, bool) {
	for _, p := range players {
		if p.UserID == userID {
			return p, true
		}
	}
	return model.GamePlayer{}, false
}
