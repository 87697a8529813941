package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/model"
)

// CreateGame inserts a new Waiting-state game with its creator seated at
// turn order 0, per spec.md §4.1 (create_game also joins the caller).
func (s *Store) CreateGame(ctx context.Context, creatorUserID string) (*model.Game, error) {
	var g model.Game
	err := s.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		zero := 0
		row := tx.QueryRow(ctx, `
			INSERT INTO games (id, state)
			VALUES ($1, $2)
			RETURNING id, state, phase, current_turn, created_at, updated_at, started_at, completed_at
		`, uuid.NewString(), model.GameWaiting)
		if err := scanGame(row, &g); err != nil {
			return apierrors.Wrap(apierrors.TransientStorage, err, "insert game")
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO game_players (id, game_id, user_id, turn_order, is_ready)
			VALUES ($1, $2, $3, $4, FALSE)
		`, uuid.NewString(), g.ID, creatorUserID, zero)
		if err != nil {
			return apierrors.Wrap(apierrors.TransientStorage, err, "seat creator")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// LockGame takes SELECT ... FOR UPDATE on the game row, the locking
// primitive spec.md §5/§9 mandate every command transaction hold before
// reading or mutating round state.
func (s *Store) LockGame(ctx context.Context, tx pgx.Tx, gameID string) (*model.Game, error) {
	var g model.Game
	row := tx.QueryRow(ctx, `
		SELECT id, state, phase, current_turn, created_at, updated_at, started_at, completed_at
		FROM games WHERE id = $1 FOR UPDATE
	`, gameID)
	if err := scanGame(row, &g); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apierrors.New(apierrors.NotFound, "game %s not found", gameID)
		}
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "lock game %s", gameID)
	}
	return &g, nil
}

// GetGame reads a game without locking, within tx, for read-only
// endpoints (get_state, summary) that don't need
// serialization but do need a consistent read frame alongside the
// round/player/trick reads that follow it in the same transaction.
func (s *Store) GetGame(ctx context.Context, tx pgx.Tx, gameID string) (*model.Game, error) {
	var g model.Game
	row := tx.QueryRow(ctx, `
		SELECT id, state, phase, current_turn, created_at, updated_at, started_at, completed_at
		FROM games WHERE id = $1
	`, gameID)
	if err := scanGame(row, &g); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apierrors.New(apierrors.NotFound, "game %s not found", gameID)
		}
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "get game %s", gameID)
	}
	return &g, nil
}

// UpdateGame persists the given game's mutable fields within tx; the
// caller must already hold LockGame's row lock.
func (s *Store) UpdateGame(ctx context.Context, tx pgx.Tx, g *model.Game) error {
	_, err := tx.Exec(ctx, `
		UPDATE games
		SET state = $2, phase = $3, current_turn = $4, updated_at = now(),
			started_at = $5, completed_at = $6
		WHERE id = $1
	`, g.ID, g.State, nullPhase(g.Phase), g.CurrentTurn, g.StartedAt, g.CompletedAt)
	if err != nil {
		return apierrors.Wrap(apierrors.TransientStorage, err, "update game %s", g.ID)
	}
	return nil
}

// DeleteGame removes a game and all of its rounds/players via cascade,
// per spec.md §4.1's delete_game command.
func (s *Store) DeleteGame(ctx context.Context, tx pgx.Tx, gameID string) error {
	_, err := tx.Exec(ctx, `DELETE FROM games WHERE id = $1`, gameID)
	if err != nil {
		return apierrors.Wrap(apierrors.TransientStorage, err, "delete game %s", gameID)
	}
	return nil
}

// ListGames returns games in reverse creation order, for the
// GET /api/games supplemented listing endpoint.
func (s *Store) ListGames(ctx context.Context, limit int) ([]model.Game, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, state, phase, current_turn, created_at, updated_at, started_at, completed_at
		FROM games ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "list games")
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		var g model.Game
		if err := scanGame(rows, &g); err != nil {
			return nil, apierrors.Wrap(apierrors.TransientStorage, err, "scan game row")
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "iterate games")
	}
	return games, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner, g *model.Game) error {
	var phase *string
	if err := row.Scan(&g.ID, &g.State, &phase, &g.CurrentTurn, &g.CreatedAt, &g.UpdatedAt, &g.StartedAt, &g.CompletedAt); err != nil {
		return err
	}
	if phase != nil {
		g.Phase = model.GamePhase(*phase)
	}
	return nil
}

func nullPhase(p model.GamePhase) *string {
	if p == "" {
		return nil
	}
	s := string(p)
	return &s
}
