package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/model"
)

// RecordBid writes a player's bid for a round. The UNIQUE(round_id,
// player_id) constraint rejects a second bid from the same seat, backing
// the DuplicateAction check spec.md §7 names.
func (s *Store) RecordBid(ctx context.Context, tx pgx.Tx, roundID, playerID string, bid int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO round_bids (id, round_id, player_id, bid) VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), roundID, playerID, bid)
	if err != nil {
		if isUniqueViolation(err) {
			return apierrors.New(apierrors.DuplicateAction, "player %s already bid this round", playerID)
		}
		return apierrors.Wrap(apierrors.TransientStorage, err, "record bid for %s", playerID)
	}
	return nil
}

// RoundBids returns every bid recorded so far for a round.
func (s *Store) RoundBids(ctx context.Context, tx pgx.Tx, roundID string) ([]model.RoundBid, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, round_id, player_id, bid FROM round_bids WHERE round_id = $1
	`, roundID)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "list bids for round %s", roundID)
	}
	defer rows.Close()

	var out []model.RoundBid
	for rows.Next() {
		var b model.RoundBid
		if err := rows.Scan(&b.ID, &b.RoundID, &b.PlayerID, &b.Bid); err != nil {
			return nil, apierrors.Wrap(apierrors.TransientStorage, err, "scan bid row")
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
