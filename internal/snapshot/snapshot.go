// Package snapshot assembles the caller-scoped read-only view of a Game
// that spec.md §4.8 calls the Snapshot Builder: game metadata, players
// with running totals, and — when the game has started — detail of the
// current round with the caller's own hand only (other players' hands
// are never included). Read-only; spec.md §4.8 requires no row lock, only
// a single transaction for a consistent read frame, so every Build call
// runs inside one (non-FOR-UPDATE) transaction.
package snapshot

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/bidding"
	"github.com/robpatriot/nommie/internal/model"
	"github.com/robpatriot/nommie/internal/scoring"
	"github.com/robpatriot/nommie/internal/store"
)

// PlayerView is one seat's public-facing state plus running game total.
type PlayerView struct {
	UserID       string  `json:"user_id"`
	TurnOrder    *int    `json:"turn_order"`
	IsReady      bool    `json:"is_ready"`
	RunningTotal int     `json:"running_total"`
	DisplayName  string  `json:"display_name,omitempty"`
}

// BidView is one player's bid in the current round.
type BidView struct {
	PlayerID string `json:"player_id"`
	Bid      int    `json:"bid"`
}

// TrickPlayView is one play within a trick.
type TrickPlayView struct {
	PlayerID  string `json:"player_id"`
	Card      string `json:"card"`
	PlayOrder int    `json:"play_order"`
}

// TrickView is one trick's plays and, once resolved, its winner.
type TrickView struct {
	TrickNumber    int             `json:"trick_number"`
	Plays          []TrickPlayView `json:"plays"`
	WinnerPlayerID *string         `json:"winner_player_id,omitempty"`
}

// RoundScoreView is one player's tallied result for a completed round.
type RoundScoreView struct {
	PlayerID  string `json:"player_id"`
	Bid       int    `json:"bid"`
	TricksWon int    `json:"tricks_won"`
	Points    int    `json:"points"`
}

// CurrentRoundView is the detail of the game's in-progress round.
type CurrentRoundView struct {
	RoundNumber     int              `json:"round_number"`
	CardsDealt      int              `json:"cards_dealt"`
	DealerPlayerID  *string          `json:"dealer_player_id,omitempty"`
	TrumpSuit       *string          `json:"trump_suit,omitempty"`
	Bids            []BidView        `json:"bids"`
	CurrentTrick    *TrickView       `json:"current_trick,omitempty"`
	CompletedTricks []TrickView      `json:"completed_tricks"`
	RoundScores     []RoundScoreView `json:"round_scores"`
	TrumpChooserID  *string          `json:"trump_chooser_id,omitempty"`
	Hand            []string         `json:"hand,omitempty"`
}

// Snapshot is the full caller-scoped view of a Game, per spec.md §4.8.
type Snapshot struct {
	GameID       string             `json:"game_id"`
	State        model.GameState    `json:"state"`
	Phase        model.GamePhase    `json:"phase,omitempty"`
	CurrentTurn  *int               `json:"current_turn,omitempty"`
	Players      []PlayerView       `json:"players"`
	CurrentRound *CurrentRoundView  `json:"current_round,omitempty"`
}

// Build assembles gameID's snapshot as seen by callerUserID. Returns
// Unauthorized if callerUserID never joined the game.
func Build(ctx context.Context, tx pgx.Tx, st store.Querier, gameID, callerUserID string) (*Snapshot, error) {
	g, err := st.GetGame(ctx, tx, gameID)
	if err != nil {
		return nil, err
	}
	players, err := st.ListPlayers(ctx, tx, gameID)
	if err != nil {
		return nil, err
	}
	me, isMember := store.FindPlayer(players, callerUserID)
	if !isMember {
		return nil, apierrors.New(apierrors.Unauthorized, "caller is not a participant in game %s", gameID)
	}

	lines, err := st.AllScoresForGame(ctx, tx, gameID)
	if err != nil {
		return nil, err
	}
	totals := scoring.TotalsByPlayer(toRoundLines(lines))

	snap := &Snapshot{
		GameID:      g.ID,
		State:       g.State,
		Phase:       g.Phase,
		CurrentTurn: g.CurrentTurn,
	}
	for _, p := range players {
		snap.Players = append(snap.Players, PlayerView{
			UserID:       p.UserID,
			TurnOrder:    p.TurnOrder,
			IsReady:      p.IsReady,
			RunningTotal: totals[p.ID],
		})
	}

	if g.State != model.GameStarted {
		return snap, nil
	}

	round, err := st.CurrentRound(ctx, tx, gameID)
	if err != nil {
		return nil, err
	}
	crv, err := buildCurrentRound(ctx, tx, st, round, g.Phase, me)
	if err != nil {
		return nil, err
	}
	snap.CurrentRound = crv
	return snap, nil
}

func buildCurrentRound(ctx context.Context, tx pgx.Tx, st store.Querier, round *model.GameRound, phase model.GamePhase, me model.GamePlayer) (*CurrentRoundView, error) {
	crv := &CurrentRoundView{
		RoundNumber:    round.RoundNumber,
		CardsDealt:     round.CardsDealt,
		DealerPlayerID: round.DealerPlayerID,
	}
	if round.TrumpSuit != nil {
		s := round.TrumpSuit.String()
		crv.TrumpSuit = &s
	}

	bids, err := st.RoundBids(ctx, tx, round.ID)
	if err != nil {
		return nil, err
	}
	for _, b := range bids {
		crv.Bids = append(crv.Bids, BidView{PlayerID: b.PlayerID, Bid: b.Bid})
	}

	if phase == model.PhaseTrumpSelect && len(bids) > 0 {
		players, err := st.ListPlayers(ctx, tx, round.GameID)
		if err != nil {
			return nil, err
		}
		entries := make([]bidding.Entry, 0, len(bids))
		for _, b := range bids {
			p, ok := seatByID(players, b.PlayerID)
			if !ok || p.TurnOrder == nil {
				continue
			}
			entries = append(entries, bidding.Entry{PlayerID: b.PlayerID, TurnOrder: *p.TurnOrder, Bid: b.Bid})
		}
		if len(entries) > 0 {
			winner := bidding.Resolve(entries)
			crv.TrumpChooserID = &winner.PlayerID
		}
	}

	allTricks, err := st.AllTricks(ctx, tx, round.ID)
	if err != nil {
		return nil, err
	}
	for _, t := range allTricks {
		tv, err := buildTrickView(ctx, tx, st, t)
		if err != nil {
			return nil, err
		}
		if t.WinnerPlayerID == nil {
			crv.CurrentTrick = tv
		} else {
			crv.CompletedTricks = append(crv.CompletedTricks, *tv)
		}
	}

	scores, err := st.RoundScores(ctx, tx, round.ID)
	if err != nil {
		return nil, err
	}
	bidByPlayer := make(map[string]int, len(bids))
	for _, b := range bids {
		bidByPlayer[b.PlayerID] = b.Bid
	}
	for _, sc := range scores {
		bid := bidByPlayer[sc.PlayerID]
		crv.RoundScores = append(crv.RoundScores, RoundScoreView{
			PlayerID:  sc.PlayerID,
			Bid:       bid,
			TricksWon: sc.TricksWon,
			Points:    model.RoundPoints(bid, sc.TricksWon),
		})
	}

	hand, err := st.PlayerHand(ctx, tx, round.ID, me.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range hand {
		crv.Hand = append(crv.Hand, c.String())
	}

	return crv, nil
}

func buildTrickView(ctx context.Context, tx pgx.Tx, st store.Querier, t model.RoundTrick) (*TrickView, error) {
	plays, err := st.TrickPlays(ctx, tx, t.ID)
	if err != nil {
		return nil, err
	}
	tv := &TrickView{TrickNumber: t.TrickNumber, WinnerPlayerID: t.WinnerPlayerID}
	for _, p := range plays {
		tv.Plays = append(tv.Plays, TrickPlayView{PlayerID: p.PlayerID, Card: p.Card.String(), PlayOrder: p.PlayOrder})
	}
	return tv, nil
}

func seatByID(players []model.GamePlayer, gamePlayerID string) (model.GamePlayer, bool) {
	for _, p := range players {
		if p.ID == gamePlayerID {
			return p, true
		}
	}
	return model.GamePlayer{}, false
}

func toRoundLines(lines []store.ScoreLine) []scoring.RoundLine {
	out := make([]scoring.RoundLine, len(lines))
	for i, l := range lines {
		out[i] = scoring.RoundLine{PlayerID: l.PlayerID, Bid: l.Bid, TricksWon: l.TricksWon}
	}
	return out
}
