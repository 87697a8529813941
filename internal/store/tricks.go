package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/model"
)

// CreateTrick starts a new trick within a round, per spec.md §4.3.
func (s *Store) CreateTrick(ctx context.Context, tx pgx.Tx, roundID string, trickNumber int) (*model.RoundTrick, error) {
	var t model.RoundTrick
	row := tx.QueryRow(ctx, `
		INSERT INTO round_tricks (id, round_id, trick_number)
		VALUES ($1, $2, $3)
		RETURNING id, round_id, trick_number, winner_player_id, created_at
	`, uuid.NewString(), roundID, trickNumber)
	if err := row.Scan(&t.ID, &t.RoundID, &t.TrickNumber, &t.WinnerPlayerID, &t.CreatedAt); err != nil {
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "create trick %d", trickNumber)
	}
	return &t, nil
}

// CurrentTrick returns the highest-numbered trick of a round.
func (s *Store) CurrentTrick(ctx context.Context, tx pgx.Tx, roundID string) (*model.RoundTrick, error) {
	var t model.RoundTrick
	row := tx.QueryRow(ctx, `
		SELECT id, round_id, trick_number, winner_player_id, created_at
		FROM round_tricks WHERE round_id = $1 ORDER BY trick_number DESC LIMIT 1
	`, roundID)
	if err := row.Scan(&t.ID, &t.RoundID, &t.TrickNumber, &t.WinnerPlayerID, &t.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apierrors.New(apierrors.NotFound, "no tricks for round %s", roundID)
		}
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "current trick for round %s", roundID)
	}
	return &t, nil
}

// AllTricks returns every trick of a round in ascending order, for
// snapshot and summary building.
func (s *Store) AllTricks(ctx context.Context, tx pgx.Tx, roundID string) ([]model.RoundTrick, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, round_id, trick_number, winner_player_id, created_at
		FROM round_tricks WHERE round_id = $1 ORDER BY trick_number ASC
	`, roundID)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "list tricks for round %s", roundID)
	}
	defer rows.Close()

	var out []model.RoundTrick
	for rows.Next() {
		var t model.RoundTrick
		if err := rows.Scan(&t.ID, &t.RoundID, &t.TrickNumber, &t.WinnerPlayerID, &t.CreatedAt); err != nil {
			return nil, apierrors.Wrap(apierrors.TransientStorage, err, "scan trick row")
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SetTrickWinner records the trick's winning seat once all plays are in.
func (s *Store) SetTrickWinner(ctx context.Context, tx pgx.Tx, trickID, winnerPlayerID string) error {
	_, err := tx.Exec(ctx, `UPDATE round_tricks SET winner_player_id = $2 WHERE id = $1`, trickID, winnerPlayerID)
	if err != nil {
		return apierrors.Wrap(apierrors.TransientStorage, err, "set winner for trick %s", trickID)
	}
	return nil
}

// RecordPlay appends a played card to a trick, per spec.md §4.3's play
// command. The UNIQUE(trick_id, player_id) constraint backs the
// DuplicateAction check for a seat trying to play twice in one trick.
func (s *Store) RecordPlay(ctx context.Context, tx pgx.Tx, trickID, playerID string, card model.Card, playOrder int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO trick_plays (id, trick_id, player_id, card, play_order)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), trickID, playerID, card.String(), playOrder)
	if err != nil {
		if isUniqueViolation(err) {
			return apierrors.New(apierrors.DuplicateAction, "player %s already played in this trick", playerID)
		}
		return apierrors.Wrap(apierrors.TransientStorage, err, "record play for %s", playerID)
	}
	return nil
}

// TrickPlays returns the cards played so far in a trick, ordered by play
// order (the order in which seats played).
func (s *Store) TrickPlays(ctx context.Context, tx pgx.Tx, trickID string) ([]model.TrickPlay, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, trick_id, player_id, card, play_order
		FROM trick_plays WHERE trick_id = $1 ORDER BY play_order ASC
	`, trickID)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "list plays for trick %s", trickID)
	}
	defer rows.Close()

	var out []model.TrickPlay
	for rows.Next() {
		var p model.TrickPlay
		var token string
		if err := rows.Scan(&p.ID, &p.TrickID, &p.PlayerID, &token, &p.PlayOrder); err != nil {
			return nil, apierrors.Wrap(apierrors.TransientStorage, err, "scan play row")
		}
		c, err := model.ParseCard(token)
		if err != nil {
			return nil, apierrors.Wrap(apierrors.Internal, err, "stored card %q malformed", token)
		}
		p.Card = c
		out = append(out, p)
	}
	return out, rows.Err()
}
