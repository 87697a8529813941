package snapshot

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/model"
	"github.com/robpatriot/nommie/internal/scoring"
	"github.com/robpatriot/nommie/internal/store"
)

// PlayerTotal is one player's final score across the whole game.
type PlayerTotal struct {
	UserID string `json:"user_id"`
	Total  int    `json:"total"`
}

// RoundBreakdown is one round's bid/result/points for every player, for
// the round-by-round detail of the game summary.
type RoundBreakdown struct {
	RoundNumber int              `json:"round_number"`
	Scores      []RoundScoreView `json:"scores"`
}

// Summary is the final, per-game report available once state=Completed,
// per SPEC_FULL.md's supplemented game-summary endpoint.
type Summary struct {
	GameID  string           `json:"game_id"`
	Totals  []PlayerTotal    `json:"totals"`
	Rounds  []RoundBreakdown `json:"rounds"`
}

// BuildSummary assembles the final summary for a Completed game. Returns
// StateConflict if the game has not yet completed.
func BuildSummary(ctx context.Context, tx pgx.Tx, st store.Querier, gameID, callerUserID string) (*Summary, error) {
	g, err := st.GetGame(ctx, tx, gameID)
	if err != nil {
		return nil, err
	}
	if g.State != model.GameCompleted {
		return nil, apierrors.New(apierrors.StateConflict, "game %s has not completed", gameID)
	}

	players, err := st.ListPlayers(ctx, tx, gameID)
	if err != nil {
		return nil, err
	}
	if _, ok := store.FindPlayer(players, callerUserID); !ok {
		return nil, apierrors.New(apierrors.Unauthorized, "caller is not a participant in game %s", gameID)
	}

	lines, err := st.AllScoresForGame(ctx, tx, gameID)
	if err != nil {
		return nil, err
	}

	totals := scoring.TotalsByPlayer(toRoundLines(lines))
	summary := &Summary{GameID: gameID}
	for _, p := range players {
		summary.Totals = append(summary.Totals, PlayerTotal{UserID: p.UserID, Total: totals[p.ID]})
	}

	byRound := make(map[int][]RoundScoreView)
	var roundNumbers []int
	for _, l := range lines {
		if _, seen := byRound[l.RoundNumber]; !seen {
			roundNumbers = append(roundNumbers, l.RoundNumber)
		}
		byRound[l.RoundNumber] = append(byRound[l.RoundNumber], RoundScoreView{
			PlayerID:  l.PlayerID,
			Bid:       l.Bid,
			TricksWon: l.TricksWon,
			Points:    model.RoundPoints(l.Bid, l.TricksWon),
		})
	}
	for _, n := range sortInts(roundNumbers) {
		summary.Rounds = append(summary.Rounds, RoundBreakdown{RoundNumber: n, Scores: byRound[n]})
	}
	return summary, nil
}

func sortInts(nums []int) []int {
	out := make([]int, len(nums))
	copy(out, nums)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
