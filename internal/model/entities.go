// Package model defines the entities and value types of the Nommie game
// engine (spec.md §3). It has no I/O and no dependency on the store or
// transport layers.
package model

import "time"

// GameState is the coarse lifecycle stage of a Game.
type GameState string

const (
	GameWaiting   GameState = "WAITING"
	GameStarted   GameState = "STARTED"
	GameCompleted GameState = "COMPLETED"
)

// GamePhase is the sub-state of a Started game.
type GamePhase string

const (
	PhaseBidding       GamePhase = "BIDDING"
	PhaseTrumpSelect   GamePhase = "TRUMP_SELECTION"
	PhasePlaying       GamePhase = "PLAYING"
	PhaseScoring       GamePhase = "SCORING"
)

// User is a stable player identity, human or AI.
type User struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"external_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	IsAI        bool      `json:"is_ai"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Game is a single 26-round Nommie match.
type Game struct {
	ID          string     `json:"id"`
	State       GameState  `json:"state"`
	Phase       GamePhase  `json:"phase,omitempty"`
	CurrentTurn *int       `json:"current_turn,omitempty"` // 0..3, defined iff Phase is set and State=Started
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// GamePlayer is one participant's seat at a Game.
type GamePlayer struct {
	ID        string `json:"id"`
	GameID    string `json:"game_id"`
	UserID    string `json:"user_id"`
	TurnOrder *int   `json:"turn_order,omitempty"` // 0..3, assigned at game start
	IsReady   bool   `json:"is_ready"`
}

// GameRound is one deal-bid-trump-play-score cycle within a Game.
type GameRound struct {
	ID             string    `json:"id"`
	GameID         string    `json:"game_id"`
	RoundNumber    int       `json:"round_number"`
	DealerPlayerID *string   `json:"dealer_player_id,omitempty"`
	TrumpSuit      *Suit     `json:"trump_suit,omitempty"`
	CardsDealt     int       `json:"cards_dealt"`
	CreatedAt      time.Time `json:"created_at"`
}

// RoundHand is a single card still held by a player in a round.
type RoundHand struct {
	ID       string `json:"id"`
	RoundID  string `json:"round_id"`
	PlayerID string `json:"player_id"`
	Card     Card   `json:"card"`
}

// RoundBid is a player's bid for a round. Final once written.
type RoundBid struct {
	ID       string `json:"id"`
	RoundID  string `json:"round_id"`
	PlayerID string `json:"player_id"`
	Bid      int    `json:"bid"`
}

// RoundTrick is one trick within a round's Playing phase.
type RoundTrick struct {
	ID             string    `json:"id"`
	RoundID        string    `json:"round_id"`
	TrickNumber    int       `json:"trick_number"`
	WinnerPlayerID *string   `json:"winner_player_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// TrickPlay is a single card played within a trick.
type TrickPlay struct {
	ID        string `json:"id"`
	TrickID   string `json:"trick_id"`
	PlayerID  string `json:"player_id"`
	Card      Card   `json:"card"`
	PlayOrder int    `json:"play_order"` // 0-based index of play within the trick
}

// RoundScore is a player's tricks-won tally for a completed round. Bonus
// points are derived on demand (spec.md §4.4), not persisted.
type RoundScore struct {
	ID        string `json:"id"`
	RoundID   string `json:"round_id"`
	PlayerID  string `json:"player_id"`
	TricksWon int    `json:"tricks_won"`
}

// RoundPoints computes a player's round score given their bid, per
// spec.md §4.4: tricks_won + (tricks_won == bid ? 10 : 0).
func RoundPoints(bid, tricksWon int) int {
	points := tricksWon
	if tricksWon == bid {
		points += 10
	}
	return points
}
