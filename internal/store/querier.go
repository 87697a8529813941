package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/robpatriot/nommie/internal/model"
)

// Querier is the subset of Store's methods internal/orchestrator and
// internal/snapshot call. Depending on this interface rather than the
// concrete *Store lets tests substitute an in-memory stand-in instead of a
// live Postgres connection. *Store satisfies it.
type Querier interface {
	CreateGame(ctx context.Context, creatorUserID string) (*model.Game, error)
	LockGame(ctx context.Context, tx pgx.Tx, gameID string) (*model.Game, error)
	GetGame(ctx context.Context, tx pgx.Tx, gameID string) (*model.Game, error)
	UpdateGame(ctx context.Context, tx pgx.Tx, g *model.Game) error
	DeleteGame(ctx context.Context, tx pgx.Tx, gameID string) error
	ListGames(ctx context.Context, limit int) ([]model.Game, error)

	AddPlayer(ctx context.Context, tx pgx.Tx, gameID, userID string) (*model.GamePlayer, error)
	ListPlayers(ctx context.Context, tx pgx.Tx, gameID string) ([]model.GamePlayer, error)
	SetReady(ctx context.Context, tx pgx.Tx, gamePlayerID string, ready bool) error

	CreateRound(ctx context.Context, tx pgx.Tx, gameID string, roundNumber int, dealerPlayerID string, cardsDealt int, hands map[string][]model.Card) (*model.GameRound, error)
	CurrentRound(ctx context.Context, tx pgx.Tx, gameID string) (*model.GameRound, error)
	AllRounds(ctx context.Context, tx pgx.Tx, gameID string) ([]model.GameRound, error)
	SetTrump(ctx context.Context, tx pgx.Tx, roundID string, trump model.Suit) error
	PlayerHand(ctx context.Context, tx pgx.Tx, roundID, playerID string) ([]model.Card, error)
	RemoveCard(ctx context.Context, tx pgx.Tx, roundID, playerID string, card model.Card) error

	RecordBid(ctx context.Context, tx pgx.Tx, roundID, playerID string, bid int) error
	RoundBids(ctx context.Context, tx pgx.Tx, roundID string) ([]model.RoundBid, error)

	CreateTrick(ctx context.Context, tx pgx.Tx, roundID string, trickNumber int) (*model.RoundTrick, error)
	CurrentTrick(ctx context.Context, tx pgx.Tx, roundID string) (*model.RoundTrick, error)
	AllTricks(ctx context.Context, tx pgx.Tx, roundID string) ([]model.RoundTrick, error)
	SetTrickWinner(ctx context.Context, tx pgx.Tx, trickID, winnerPlayerID string) error
	RecordPlay(ctx context.Context, tx pgx.Tx, trickID, playerID string, card model.Card, playOrder int) error
	TrickPlays(ctx context.Context, tx pgx.Tx, trickID string) ([]model.TrickPlay, error)

	RecordRoundScores(ctx context.Context, tx pgx.Tx, roundID string, tricksWon map[string]int) error
	RoundScores(ctx context.Context, tx pgx.Tx, roundID string) ([]model.RoundScore, error)
	AllScoresForGame(ctx context.Context, tx pgx.Tx, gameID string) ([]ScoreLine, error)

	CreateAIUser(ctx context.Context, displayName string) (*model.User, error)

	WithTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
	WithReadTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

var _ Querier = (*Store)(nil)
