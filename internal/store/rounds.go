package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/model"
)

// CreateRound inserts a new round and the dealt hands for it in one
// transaction, per spec.md §4.2's deal step. hands maps game_player_id to
// that player's dealt cards.
func (s *Store) CreateRound(ctx context.Context, tx pgx.Tx, gameID string, roundNumber int, dealerPlayerID string, cardsDealt int, hands map[string][]model.Card) (*model.GameRound, error) {
	var r model.GameRound
	row := tx.QueryRow(ctx, `
		INSERT INTO game_rounds (id, game_id, round_number, dealer_player_id, cards_dealt)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, game_id, round_number, dealer_player_id, trump_suit, cards_dealt, created_at
	`, uuid.NewString(), gameID, roundNumber, dealerPlayerID, cardsDealt)
	if err := scanRound(row, &r); err != nil {
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "insert round %d", roundNumber)
	}

	for playerID, cards := range hands {
		for _, c := range cards {
			_, err := tx.Exec(ctx, `
				INSERT INTO round_hands (id, round_id, player_id, card) VALUES ($1, $2, $3, $4)
			`, uuid.NewString(), r.ID, playerID, c.String())
			if err != nil {
				return nil, apierrors.Wrap(apierrors.TransientStorage, err, "deal card to %s", playerID)
			}
		}
	}
	return &r, nil
}

// CurrentRound returns the highest-numbered round of a game, the round in
// progress for any Started game.
func (s *Store) CurrentRound(ctx context.Context, tx pgx.Tx, gameID string) (*model.GameRound, error) {
	var r model.GameRound
	row := tx.QueryRow(ctx, `
		SELECT id, game_id, round_number, dealer_player_id, trump_suit, cards_dealt, created_at
		FROM game_rounds WHERE game_id = $1 ORDER BY round_number DESC LIMIT 1
	`, gameID)
	if err := scanRound(row, &r); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apierrors.New(apierrors.NotFound, "no rounds for game %s", gameID)
		}
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "current round for %s", gameID)
	}
	return &r, nil
}

// AllRounds returns every round of a game in ascending order, for summary
// and snapshot building.
func (s *Store) AllRounds(ctx context.Context, tx pgx.Tx, gameID string) ([]model.GameRound, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, game_id, round_number, dealer_player_id, trump_suit, cards_dealt, created_at
		FROM game_rounds WHERE game_id = $1 ORDER BY round_number ASC
	`, gameID)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "list rounds for %s", gameID)
	}
	defer rows.Close()

	var out []model.GameRound
	for rows.Next() {
		var r model.GameRound
		if err := scanRound(rows, &r); err != nil {
			return nil, apierrors.Wrap(apierrors.TransientStorage, err, "scan round row")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SetTrump records the round's chosen trump suit, per spec.md §4.3.
func (s *Store) SetTrump(ctx context.Context, tx pgx.Tx, roundID string, trump model.Suit) error {
	suit := trump.String()
	_, err := tx.Exec(ctx, `UPDATE game_rounds SET trump_suit = $2 WHERE id = $1`, roundID, suit)
	if err != nil {
		return apierrors.Wrap(apierrors.TransientStorage, err, "set trump for round %s", roundID)
	}
	return nil
}

// PlayerHand returns a player's remaining cards in a round.
func (s *Store) PlayerHand(ctx context.Context, tx pgx.Tx, roundID, playerID string) ([]model.Card, error) {
	rows, err := tx.Query(ctx, `
		SELECT card FROM round_hands WHERE round_id = $1 AND player_id = $2
	`, roundID, playerID)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "hand for %s", playerID)
	}
	defer rows.Close()

	var hand []model.Card
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, apierrors.Wrap(apierrors.TransientStorage, err, "scan hand card")
		}
		c, err := model.ParseCard(token)
		if err != nil {
			return nil, apierrors.Wrap(apierrors.Internal, err, "stored card %q malformed", token)
		}
		hand = append(hand, c)
	}
	return hand, rows.Err()
}

// RemoveCard deletes a single played card from a player's hand.
func (s *Store) RemoveCard(ctx context.Context, tx pgx.Tx, roundID, playerID string, card model.Card) error {
	tag, err := tx.Exec(ctx, `
		DELETE FROM round_hands
		WHERE ctid = (
			SELECT ctid FROM round_hands
			WHERE round_id = $1 AND player_id = $2 AND card = $3
			LIMIT 1
		)
	`, roundID, playerID, card.String())
	if err != nil {
		return apierrors.Wrap(apierrors.TransientStorage, err, "remove card %s from %s", card, playerID)
	}
	if tag.RowsAffected() == 0 {
		return apierrors.New(apierrors.OwnershipViolation, "card %s not in %s's hand", card, playerID)
	}
	return nil
}

func scanRound(row rowScanner, r *model.GameRound) error {
	var trump *string
	if err := row.Scan(&r.ID, &r.GameID, &r.RoundNumber, &r.DealerPlayerID, &trump, &r.CardsDealt, &r.CreatedAt); err != nil {
		return err
	}
	if trump != nil {
		suit, err := model.ParseSuit(*trump)
		if err != nil {
			return err
		}
		r.TrumpSuit = &suit
	}
	return nil
}
