package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/dealer"
	"github.com/robpatriot/nommie/internal/model"
)

// noShuffleSource deals cards in model.StandardDeck's fixed order (suit
// major, rank ascending), so a test can predict exactly which 13 cards
// each of the 4 seats receives.
type noShuffleSource struct{}

func (noShuffleSource) Shuffle(n int, swap func(i, j int)) {}

func newTestOrchestrator() (*Orchestrator, *fakeStore) {
	fs := newFakeStore()
	o := New(fs).WithSource(func() dealer.Source { return noShuffleSource{} })
	return o, fs
}

// seatFourPlayers creates a game and seats alice (the creator) plus bob,
// carol, and dave, in that turn order.
func seatFourPlayers(t *testing.T, ctx context.Context, o *Orchestrator) *model.Game {
	t.Helper()
	g, _, err := o.CreateGame(ctx, "alice")
	require.NoError(t, err)
	for _, userID := range []string{"bob", "carol", "dave"} {
		_, err := o.JoinGame(ctx, g.ID, userID)
		require.NoError(t, err)
	}
	return g
}

func TestReadyStartsGameOnFourthSeat(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOrchestrator()
	g := seatFourPlayers(t, ctx, o)

	for _, userID := range []string{"alice", "bob", "carol"} {
		g2, err := o.Ready(ctx, g.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, model.GameWaiting, g2.State, "game must not start before all 4 seats are ready")
	}

	g3, err := o.Ready(ctx, g.ID, "dave")
	require.NoError(t, err)
	assert.Equal(t, model.GameStarted, g3.State)
	assert.Equal(t, model.PhaseBidding, g3.Phase)
	require.NotNil(t, g3.CurrentTurn)
	assert.Equal(t, 0, *g3.CurrentTurn)
	assert.NotNil(t, g3.StartedAt)
}

func TestAddAISeatsAReadyAIPlayer(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOrchestrator()
	g, _, err := o.CreateGame(ctx, "alice")
	require.NoError(t, err)

	_, err = o.AddAI(ctx, g.ID, "alice")
	require.NoError(t, err)

	snap, err := o.GetState(ctx, g.ID, "alice")
	require.NoError(t, err)
	require.Len(t, snap.Players, 2)
	assert.True(t, snap.Players[1].IsReady, "AddAI must seat an already-ready AI player")
}

// readyAllFourAndStart drives a freshly-seated 4 player game through Ready
// so it reaches Bidding with alice on turn 0.
func readyAllFourAndStart(t *testing.T, ctx context.Context, o *Orchestrator, g *model.Game) *model.Game {
	t.Helper()
	var started *model.Game
	for _, userID := range []string{"alice", "bob", "carol", "dave"} {
		var err error
		started, err = o.Ready(ctx, g.ID, userID)
		require.NoError(t, err)
	}
	return started
}

func TestBidTieBreakAdvancesToTrumpSelection(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOrchestrator()
	g := seatFourPlayers(t, ctx, o)
	g = readyAllFourAndStart(t, ctx, o, g)
	require.Equal(t, model.PhaseBidding, g.Phase)

	// alice and bob tie at 5; alice holds the earlier turn_order and must
	// win the tie-break (bidding.Resolve, scenario 3).
	bids := []struct {
		userID string
		bid    int
	}{
		{"alice", 5}, {"bob", 5}, {"carol", 3}, {"dave", 2},
	}
	var g2 *model.Game
	for i, b := range bids {
		var err error
		g2, err = o.Bid(ctx, g.ID, b.userID, b.bid)
		require.NoError(t, err)
		if i < len(bids)-1 {
			assert.Equal(t, model.PhaseBidding, g2.Phase, "phase must not advance before the fourth bid")
		}
	}

	assert.Equal(t, model.PhaseTrumpSelect, g2.Phase)
	require.NotNil(t, g2.CurrentTurn)
	assert.Equal(t, 0, *g2.CurrentTurn, "the tie-break winner (alice, turn_order 0) must choose trump")
}

func TestChooseTrumpRejectsNonWinnerThenOpensPlaying(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOrchestrator()
	g := seatFourPlayers(t, ctx, o)
	g = readyAllFourAndStart(t, ctx, o, g)

	for _, b := range []struct {
		userID string
		bid    int
	}{{"alice", 5}, {"bob", 5}, {"carol", 3}, {"dave", 2}} {
		var err error
		g, err = o.Bid(ctx, g.ID, b.userID, b.bid)
		require.NoError(t, err)
	}

	_, err := o.ChooseTrump(ctx, g.ID, "bob", model.Spades)
	require.Error(t, err)
	assert.Equal(t, apierrors.Unauthorized, apierrors.KindOf(err))

	g2, err := o.ChooseTrump(ctx, g.ID, "alice", model.Spades)
	require.NoError(t, err)
	assert.Equal(t, model.PhasePlaying, g2.Phase)
	require.NotNil(t, g2.CurrentTurn)
	assert.Equal(t, 0, *g2.CurrentTurn)
}

// TestPlayCardThroughTrickAndRoundCompletion plays every card of round 1.
// Seats are dealt single-suit hands (model.StandardDeck's fixed order cut
// into 4 contiguous 13-card blocks: alice all Spades, bob all Hearts,
// carol all Diamonds, dave all Clubs), and trump is Spades, so alice's
// lead always trumps the trick and wins all 13 tricks. That makes the
// whole round — and the round-complete -> next-round transition — exactly
// reproducible without a shuffle.
func TestPlayCardThroughTrickAndRoundCompletion(t *testing.T) {
	ctx := context.Background()
	o, fs := newTestOrchestrator()
	g := seatFourPlayers(t, ctx, o)
	g = readyAllFourAndStart(t, ctx, o, g)

	for _, b := range []struct {
		userID string
		bid    int
	}{{"alice", 5}, {"bob", 5}, {"carol", 3}, {"dave", 2}} {
		var err error
		g, err = o.Bid(ctx, g.ID, b.userID, b.bid)
		require.NoError(t, err)
	}
	g, err := o.ChooseTrump(ctx, g.ID, "alice", model.Spades)
	require.NoError(t, err)

	deck := model.StandardDeck()
	hands := map[string][]model.Card{
		"alice": append([]model.Card(nil), deck[0:13]...),
		"bob":   append([]model.Card(nil), deck[13:26]...),
		"carol": append([]model.Card(nil), deck[26:39]...),
		"dave":  append([]model.Card(nil), deck[39:52]...),
	}

	for trick := 1; trick <= 13; trick++ {
		for _, userID := range []string{"alice", "bob", "carol", "dave"} {
			card := hands[userID][0]
			hands[userID] = hands[userID][1:]
			var err error
			g, err = o.PlayCard(ctx, g.ID, userID, card)
			require.NoErrorf(t, err, "trick %d play by %s", trick, userID)
		}
	}

	assert.Equal(t, model.PhaseBidding, g.Phase, "round 1 completing must open round 2's bidding")
	require.NotNil(t, g.CurrentTurn)
	assert.Equal(t, 0, *g.CurrentTurn)

	snap, err := o.GetState(ctx, g.ID, "alice")
	require.NoError(t, err)
	require.NotNil(t, snap.CurrentRound)
	assert.Equal(t, 2, snap.CurrentRound.RoundNumber, "finishRound must have opened round 2")
	assert.Empty(t, snap.CurrentRound.RoundScores, "round 2 has no tallied scores yet")

	rounds, err := fs.AllRounds(ctx, nil, g.ID)
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	round1Scores, err := fs.RoundScores(ctx, nil, rounds[0].ID)
	require.NoError(t, err)
	require.Len(t, round1Scores, 4)
	for _, sc := range round1Scores {
		if sc.TricksWon == 13 {
			assert.Equal(t, 13, model.RoundPoints(5, sc.TricksWon), "alice bid 5 but swept all 13 tricks: no bid-match bonus")
		} else {
			assert.Equal(t, 0, sc.TricksWon, "only alice's trump-holding seat should win any trick")
		}
	}
}

func TestFinishRoundCompletesGameOnLastRound(t *testing.T) {
	ctx := context.Background()
	o, fs := newTestOrchestrator()

	g, err := fs.CreateGame(ctx, "alice")
	require.NoError(t, err)
	for _, userID := range []string{"bob", "carol", "dave"} {
		_, err := fs.AddPlayer(ctx, nil, g.ID, userID)
		require.NoError(t, err)
	}
	players, err := fs.ListPlayers(ctx, nil, g.ID)
	require.NoError(t, err)

	round, err := fs.CreateRound(ctx, nil, g.ID, 26, players[0].ID, 13, nil)
	require.NoError(t, err)
	trick, err := fs.CreateTrick(ctx, nil, round.ID, 1)
	require.NoError(t, err)
	require.NoError(t, fs.SetTrickWinner(ctx, nil, trick.ID, players[0].ID))
	allTricks, err := fs.AllTricks(ctx, nil, round.ID)
	require.NoError(t, err)

	g.State = model.GameStarted
	g.Phase = model.PhasePlaying
	require.NoError(t, o.finishRound(ctx, nil, g, round, players, allTricks))

	assert.Equal(t, model.GameCompleted, g.State)
	assert.Equal(t, model.GamePhase(""), g.Phase)
	assert.Nil(t, g.CurrentTurn)
	assert.NotNil(t, g.CompletedAt)

	scores, err := fs.RoundScores(ctx, nil, round.ID)
	require.NoError(t, err)
	require.Len(t, scores, 4)
}

func TestGetSummaryRejectsIncompleteGame(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOrchestrator()
	g := seatFourPlayers(t, ctx, o)

	_, err := o.GetSummary(ctx, g.ID, "alice")
	require.Error(t, err)
	assert.Equal(t, apierrors.StateConflict, apierrors.KindOf(err))
}

func TestDeleteGameRejectsStartedGame(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOrchestrator()
	g := seatFourPlayers(t, ctx, o)
	readyAllFourAndStart(t, ctx, o, g)

	err := o.DeleteGame(ctx, g.ID, "alice")
	require.Error(t, err)
	assert.Equal(t, apierrors.StateConflict, apierrors.KindOf(err))
}

func TestDeleteGameRemovesWaitingGame(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOrchestrator()
	g, _, err := o.CreateGame(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, o.DeleteGame(ctx, g.ID, "alice"))

	_, err = o.GetState(ctx, g.ID, "alice")
	require.Error(t, err)
	assert.Equal(t, apierrors.NotFound, apierrors.KindOf(err))
}
