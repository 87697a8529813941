package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/model"
	"github.com/robpatriot/nommie/internal/store"
)

// fakeStore is an in-memory stand-in for store.Querier. It has no
// transaction semantics of its own — WithTx/WithReadTx just invoke fn
// directly against the shared state — which is enough to exercise the
// orchestrator's command flows without a live Postgres connection.
type fakeStore struct {
	mu  sync.Mutex
	seq int

	games        map[string]*model.Game
	players      map[string][]*model.GamePlayer // gameID -> seats
	roundsByGame map[string][]string            // gameID -> round IDs, ascending
	roundByID    map[string]*model.GameRound
	hands        map[string]map[string][]model.Card // roundID -> playerID -> hand
	bidsByRound  map[string][]*model.RoundBid
	tricksByRnd  map[string][]string // roundID -> trick IDs, ascending
	trickByID    map[string]*model.RoundTrick
	playsByTrick map[string][]*model.TrickPlay
	scoresByRnd  map[string][]*model.RoundScore
	users        map[string]*model.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		games:        map[string]*model.Game{},
		players:      map[string][]*model.GamePlayer{},
		roundsByGame: map[string][]string{},
		roundByID:    map[string]*model.GameRound{},
		hands:        map[string]map[string][]model.Card{},
		bidsByRound:  map[string][]*model.RoundBid{},
		tricksByRnd:  map[string][]string{},
		trickByID:    map[string]*model.RoundTrick{},
		playsByTrick: map[string][]*model.TrickPlay{},
		scoresByRnd:  map[string][]*model.RoundScore{},
		users:        map[string]*model.User{},
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func intPtr(n int) *int { return &n }

func (f *fakeStore) CreateGame(ctx context.Context, creatorUserID string) (*model.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	g := &model.Game{ID: f.nextID("game"), State: model.GameWaiting, CreatedAt: now, UpdatedAt: now}
	f.games[g.ID] = g
	f.players[g.ID] = []*model.GamePlayer{
		{ID: f.nextID("gp"), GameID: g.ID, UserID: creatorUserID, TurnOrder: intPtr(0)},
	}
	gameCopy := *g
	return &gameCopy, nil
}

func (f *fakeStore) LockGame(ctx context.Context, tx pgx.Tx, gameID string) (*model.Game, error) {
	return f.GetGame(ctx, tx, gameID)
}

func (f *fakeStore) GetGame(ctx context.Context, tx pgx.Tx, gameID string) (*model.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	g, ok := f.games[gameID]
	if !ok {
		return nil, apierrors.New(apierrors.NotFound, "game %s not found", gameID)
	}
	gameCopy := *g
	return &gameCopy, nil
}

func (f *fakeStore) UpdateGame(ctx context.Context, tx pgx.Tx, g *model.Game) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.games[g.ID]; !ok {
		return apierrors.New(apierrors.NotFound, "game %s not found", g.ID)
	}
	gameCopy := *g
	f.games[g.ID] = &gameCopy
	return nil
}

func (f *fakeStore) DeleteGame(ctx context.Context, tx pgx.Tx, gameID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.games, gameID)
	delete(f.players, gameID)
	for _, roundID := range f.roundsByGame[gameID] {
		delete(f.roundByID, roundID)
		delete(f.hands, roundID)
		delete(f.bidsByRound, roundID)
		delete(f.scoresByRnd, roundID)
		for _, trickID := range f.tricksByRnd[roundID] {
			delete(f.trickByID, trickID)
			delete(f.playsByTrick, trickID)
		}
		delete(f.tricksByRnd, roundID)
	}
	delete(f.roundsByGame, gameID)
	return nil
}

func (f *fakeStore) ListGames(ctx context.Context, limit int) ([]model.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.Game, 0, len(f.games))
	for _, g := range f.games {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) AddPlayer(ctx context.Context, tx pgx.Tx, gameID, userID string) (*model.GamePlayer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing := f.players[gameID]
	if len(existing) >= 4 {
		return nil, apierrors.New(apierrors.CapacityConflict, "game %s already has 4 players", gameID)
	}
	for _, p := range existing {
		if p.UserID == userID {
			return nil, apierrors.New(apierrors.DuplicateAction, "user %s already joined game %s", userID, gameID)
		}
	}
	p := &model.GamePlayer{ID: f.nextID("gp"), GameID: gameID, UserID: userID, TurnOrder: intPtr(len(existing))}
	f.players[gameID] = append(existing, p)
	pCopy := *p
	return &pCopy, nil
}

func (f *fakeStore) ListPlayers(ctx context.Context, tx pgx.Tx, gameID string) ([]model.GamePlayer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	players := f.players[gameID]
	out := make([]model.GamePlayer, len(players))
	for i, p := range players {
		out[i] = *p
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TurnOrder == nil {
			return false
		}
		if out[j].TurnOrder == nil {
			return true
		}
		return *out[i].TurnOrder < *out[j].TurnOrder
	})
	return out, nil
}

func (f *fakeStore) SetReady(ctx context.Context, tx pgx.Tx, gamePlayerID string, ready bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, players := range f.players {
		for _, p := range players {
			if p.ID == gamePlayerID {
				p.IsReady = ready
				return nil
			}
		}
	}
	return apierrors.New(apierrors.NotFound, "game player %s not found", gamePlayerID)
}

func (f *fakeStore) CreateRound(ctx context.Context, tx pgx.Tx, gameID string, roundNumber int, dealerPlayerID string, cardsDealt int, hands map[string][]model.Card) (*model.GameRound, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := &model.GameRound{
		ID: f.nextID("round"), GameID: gameID, RoundNumber: roundNumber,
		DealerPlayerID: &dealerPlayerID, CardsDealt: cardsDealt, CreatedAt: time.Now(),
	}
	f.roundByID[r.ID] = r
	f.roundsByGame[gameID] = append(f.roundsByGame[gameID], r.ID)

	dealt := make(map[string][]model.Card, len(hands))
	for playerID, cards := range hands {
		cc := make([]model.Card, len(cards))
		copy(cc, cards)
		dealt[playerID] = cc
	}
	f.hands[r.ID] = dealt

	rCopy := *r
	return &rCopy, nil
}

func (f *fakeStore) CurrentRound(ctx context.Context, tx pgx.Tx, gameID string) (*model.GameRound, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := f.roundsByGame[gameID]
	if len(ids) == 0 {
		return nil, apierrors.New(apierrors.NotFound, "no rounds for game %s", gameID)
	}
	rCopy := *f.roundByID[ids[len(ids)-1]]
	return &rCopy, nil
}

func (f *fakeStore) AllRounds(ctx context.Context, tx pgx.Tx, gameID string) ([]model.GameRound, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := f.roundsByGame[gameID]
	out := make([]model.GameRound, len(ids))
	for i, id := range ids {
		out[i] = *f.roundByID[id]
	}
	return out, nil
}

func (f *fakeStore) SetTrump(ctx context.Context, tx pgx.Tx, roundID string, trump model.Suit) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.roundByID[roundID]
	if !ok {
		return apierrors.New(apierrors.NotFound, "round %s not found", roundID)
	}
	t := trump
	r.TrumpSuit = &t
	return nil
}

func (f *fakeStore) PlayerHand(ctx context.Context, tx pgx.Tx, roundID, playerID string) ([]model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	hand := f.hands[roundID][playerID]
	out := make([]model.Card, len(hand))
	copy(out, hand)
	return out, nil
}

func (f *fakeStore) RemoveCard(ctx context.Context, tx pgx.Tx, roundID, playerID string, card model.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	hand := f.hands[roundID][playerID]
	for i, c := range hand {
		if c == card {
			f.hands[roundID][playerID] = append(hand[:i], hand[i+1:]...)
			return nil
		}
	}
	return apierrors.New(apierrors.OwnershipViolation, "card %s not in %s's hand", card, playerID)
}

func (f *fakeStore) RecordBid(ctx context.Context, tx pgx.Tx, roundID, playerID string, bid int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bidsByRound[roundID] {
		if b.PlayerID == playerID {
			return apierrors.New(apierrors.DuplicateAction, "player %s already bid this round", playerID)
		}
	}
	f.bidsByRound[roundID] = append(f.bidsByRound[roundID], &model.RoundBid{
		ID: f.nextID("bid"), RoundID: roundID, PlayerID: playerID, Bid: bid,
	})
	return nil
}

func (f *fakeStore) RoundBids(ctx context.Context, tx pgx.Tx, roundID string) ([]model.RoundBid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bids := f.bidsByRound[roundID]
	out := make([]model.RoundBid, len(bids))
	for i, b := range bids {
		out[i] = *b
	}
	return out, nil
}

func (f *fakeStore) CreateTrick(ctx context.Context, tx pgx.Tx, roundID string, trickNumber int) (*model.RoundTrick, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &model.RoundTrick{ID: f.nextID("trick"), RoundID: roundID, TrickNumber: trickNumber, CreatedAt: time.Now()}
	f.trickByID[t.ID] = t
	f.tricksByRnd[roundID] = append(f.tricksByRnd[roundID], t.ID)
	tCopy := *t
	return &tCopy, nil
}

func (f *fakeStore) CurrentTrick(ctx context.Context, tx pgx.Tx, roundID string) (*model.RoundTrick, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := f.tricksByRnd[roundID]
	if len(ids) == 0 {
		return nil, apierrors.New(apierrors.NotFound, "no tricks for round %s", roundID)
	}
	tCopy := *f.trickByID[ids[len(ids)-1]]
	return &tCopy, nil
}

func (f *fakeStore) AllTricks(ctx context.Context, tx pgx.Tx, roundID string) ([]model.RoundTrick, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := f.tricksByRnd[roundID]
	out := make([]model.RoundTrick, len(ids))
	for i, id := range ids {
		out[i] = *f.trickByID[id]
	}
	return out, nil
}

func (f *fakeStore) SetTrickWinner(ctx context.Context, tx pgx.Tx, trickID, winnerPlayerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.trickByID[trickID]
	if !ok {
		return apierrors.New(apierrors.NotFound, "trick %s not found", trickID)
	}
	w := winnerPlayerID
	t.WinnerPlayerID = &w
	return nil
}

func (f *fakeStore) RecordPlay(ctx context.Context, tx pgx.Tx, trickID, playerID string, card model.Card, playOrder int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.playsByTrick[trickID] {
		if p.PlayerID == playerID {
			return apierrors.New(apierrors.DuplicateAction, "player %s already played in this trick", playerID)
		}
	}
	f.playsByTrick[trickID] = append(f.playsByTrick[trickID], &model.TrickPlay{
		ID: f.nextID("play"), TrickID: trickID, PlayerID: playerID, Card: card, PlayOrder: playOrder,
	})
	return nil
}

func (f *fakeStore) TrickPlays(ctx context.Context, tx pgx.Tx, trickID string) ([]model.TrickPlay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	plays := f.playsByTrick[trickID]
	out := make([]model.TrickPlay, len(plays))
	for i, p := range plays {
		out[i] = *p
	}
	return out, nil
}

func (f *fakeStore) RecordRoundScores(ctx context.Context, tx pgx.Tx, roundID string, tricksWon map[string]int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for playerID, count := range tricksWon {
		f.scoresByRnd[roundID] = append(f.scoresByRnd[roundID], &model.RoundScore{
			ID: f.nextID("score"), RoundID: roundID, PlayerID: playerID, TricksWon: count,
		})
	}
	return nil
}

func (f *fakeStore) RoundScores(ctx context.Context, tx pgx.Tx, roundID string) ([]model.RoundScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	scores := f.scoresByRnd[roundID]
	out := make([]model.RoundScore, len(scores))
	for i, s := range scores {
		out[i] = *s
	}
	return out, nil
}

func (f *fakeStore) AllScoresForGame(ctx context.Context, tx pgx.Tx, gameID string) ([]store.ScoreLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []store.ScoreLine
	for _, roundID := range f.roundsByGame[gameID] {
		round := f.roundByID[roundID]
		bidByPlayer := make(map[string]int, len(f.bidsByRound[roundID]))
		for _, b := range f.bidsByRound[roundID] {
			bidByPlayer[b.PlayerID] = b.Bid
		}
		for _, sc := range f.scoresByRnd[roundID] {
			out = append(out, store.ScoreLine{
				RoundNumber: round.RoundNumber,
				PlayerID:    sc.PlayerID,
				Bid:         bidByPlayer[sc.PlayerID],
				TricksWon:   sc.TricksWon,
			})
		}
	}
	return out, nil
}

func (f *fakeStore) CreateAIUser(ctx context.Context, displayName string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID("user")
	u := &model.User{ID: id, ExternalID: "ai:" + id, Email: "ai+" + id + "@nommie.local", DisplayName: displayName, IsAI: true}
	f.users[id] = u
	uCopy := *u
	return &uCopy, nil
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

func (f *fakeStore) WithReadTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

var _ store.Querier = (*fakeStore)(nil)
