package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/model"
)

// RecordRoundScores writes the final tricks-won tally for every seat in a
// round, per spec.md §4.4, once the round's last trick resolves.
func (s *Store) RecordRoundScores(ctx context.Context, tx pgx.Tx, roundID string, tricksWon map[string]int) error {
	for playerID, count := range tricksWon {
		_, err := tx.Exec(ctx, `
			INSERT INTO round_scores (id, round_id, player_id, tricks_won)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), roundID, playerID, count)
		if err != nil {
			return apierrors.Wrap(apierrors.TransientStorage, err, "record score for %s", playerID)
		}
	}
	return nil
}

// RoundScores returns a round's recorded tricks-won tallies.
func (s *Store) RoundScores(ctx context.Context, tx pgx.Tx, roundID string) ([]model.RoundScore, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, round_id, player_id, tricks_won FROM round_scores WHERE round_id = $1
	`, roundID)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "list scores for round %s", roundID)
	}
	defer rows.Close()

	var out []model.RoundScore
	for rows.Next() {
		var sc model.RoundScore
		if err := rows.Scan(&sc.ID, &sc.RoundID, &sc.PlayerID, &sc.TricksWon); err != nil {
			return nil, apierrors.Wrap(apierrors.TransientStorage, err, "scan score row")
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// AllScoresForGame joins round_scores and round_bids across every round of
// a game, for the final game summary (SPEC_FULL.md's supplemented
// endpoint) and the live snapshot's running totals.
func (s *Store) AllScoresForGame(ctx context.Context, tx pgx.Tx, gameID string) ([]ScoreLine, error) {
	rows, err := tx.Query(ctx, `
		SELECT gr.round_number, rs.player_id, rb.bid, rs.tricks_won
		FROM round_scores rs
		JOIN game_rounds gr ON gr.id = rs.round_id
		JOIN round_bids rb ON rb.round_id = rs.round_id AND rb.player_id = rs.player_id
		WHERE gr.game_id = $1
		ORDER BY gr.round_number ASC
	`, gameID)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "scores for game %s", gameID)
	}
	defer rows.Close()

	var out []ScoreLine
	for rows.Next() {
		var l ScoreLine
		if err := rows.Scan(&l.RoundNumber, &l.PlayerID, &l.Bid, &l.TricksWon); err != nil {
			return nil, apierrors.Wrap(apierrors.TransientStorage, err, "scan score line")
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ScoreLine is one player's bid/result for one round of a game, the join
// result internal/scoring and internal/snapshot build totals from.
type ScoreLine struct {
	RoundNumber int
	PlayerID    string
	Bid         int
	TricksWon   int
}
