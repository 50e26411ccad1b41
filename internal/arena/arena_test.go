package arena

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarloMagno/Warlight/internal/bot"
	"github.com/CarloMagno/Warlight/internal/model"
	"github.com/CarloMagno/Warlight/pkg/warlight"
)

// memRepo is an in-memory MatchRepository.
type memRepo struct {
	mu      sync.Mutex
	matches map[string]*model.Match
	rounds  []model.Round
	orders  map[string][]model.Order
}

func newMemRepo() *memRepo {
	return &memRepo{matches: make(map[string]*model.Match), orders: make(map[string][]model.Order)}
}

func (r *memRepo) CreateMatch(_ context.Context, m *model.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.matches[m.ID] = &cp
	return nil
}

func (r *memRepo) SaveRound(_ context.Context, matchID string, number int, stateAfter json.RawMessage, orders []model.Order) (*model.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rd := model.Round{ID: fmt.Sprintf("%s/%d", matchID, number), MatchID: matchID, Number: number, StateAfter: stateAfter}
	r.rounds = append(r.rounds, rd)
	r.orders[rd.ID] = append(r.orders[rd.ID], orders...)
	return &rd, nil
}

func (r *memRepo) FinishMatch(_ context.Context, matchID, winner string, rounds int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return errors.New("no such match")
	}
	m.Status = model.MatchFinished
	m.Winner = winner
	m.Rounds = rounds
	return nil
}

func (r *memRepo) FindMatch(_ context.Context, id string) (*model.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.matches[id], nil
}

func (r *memRepo) ListRounds(context.Context, string) ([]model.Round, error) { return r.rounds, nil }

func (r *memRepo) OrdersByRound(_ context.Context, roundID string) ([]model.Order, error) {
	return r.orders[roundID], nil
}

func (r *memRepo) ListFinished(context.Context, int) ([]model.Match, error) { return nil, nil }

// memCache is an in-memory MatchCache that remembers what it was asked to
// store and delete.
type memCache struct {
	mu        sync.Mutex
	states    int
	orders    map[string]int
	active    map[string]bool
	deleted   []string
	lastState json.RawMessage
}

func newMemCache() *memCache {
	return &memCache{orders: make(map[string]int), active: make(map[string]bool)}
}

func (c *memCache) SetRoundState(_ context.Context, _ string, state json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states++
	c.lastState = state
	return nil
}

func (c *memCache) GetRoundState(context.Context, string) (json.RawMessage, error) {
	return c.lastState, nil
}

func (c *memCache) SetOrders(_ context.Context, _, player string, _ json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders[player]++
	return nil
}

func (c *memCache) GetOrders(context.Context, string, string) (json.RawMessage, error) {
	return nil, nil
}

func (c *memCache) MarkActive(_ context.Context, matchID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active[matchID] = true
	return nil
}

func (c *memCache) ActiveMatches(context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ids []string
	for id := range c.active {
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *memCache) DeleteMatchData(_ context.Context, matchID string, _ []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.active, matchID)
	c.deleted = append(c.deleted, matchID)
	return nil
}

func TestRunGameDryRun(t *testing.T) {
	bot.SeedBotRng(42)
	t.Cleanup(bot.ResetBotRng)

	result, err := RunGame(context.Background(), Config{Player1: "heuristic", Player2: "random", MaxRounds: 30, Seed: 42}, nil, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, result.MatchID)
	assert.GreaterOrEqual(t, result.Rounds, 1)
	assert.LessOrEqual(t, result.Rounds, 30)
	total := result.Territories["player1"] + result.Territories["player2"]
	assert.Greater(t, total, 0)
	assert.LessOrEqual(t, total, 42)
	assert.Contains(t, []string{"player1", "player2", ""}, result.Winner)
}

func TestRunGameHeuristicBeatsHold(t *testing.T) {
	bot.SeedBotRng(7)
	t.Cleanup(bot.ResetBotRng)

	result, err := RunGame(context.Background(), Config{Player1: "heuristic", Player2: "hold", MaxRounds: 40, Seed: 7}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "player1", result.Winner)
	assert.Greater(t, result.Territories["player1"], result.Territories["player2"])
}

func TestRunGameDeterministicWithSeed(t *testing.T) {
	run := func() *Result {
		bot.SeedBotRng(3)
		res, err := RunGame(context.Background(), Config{Player1: "heuristic", Player2: "random", MaxRounds: 25, Seed: 3}, nil, nil)
		require.NoError(t, err)
		return res
	}
	t.Cleanup(bot.ResetBotRng)

	a, b := run(), run()
	assert.NotEqual(t, a.MatchID, b.MatchID)
	assert.Equal(t, a.Winner, b.Winner)
	assert.Equal(t, a.Rounds, b.Rounds)
	assert.Equal(t, a.Territories, b.Territories)
	assert.Equal(t, a.Armies, b.Armies)
}

func TestRunGamePersistsRounds(t *testing.T) {
	bot.SeedBotRng(11)
	t.Cleanup(bot.ResetBotRng)

	repo, cache := newMemRepo(), newMemCache()
	result, err := RunGame(context.Background(), Config{Player1: "heuristic", Player2: "random", MaxRounds: 10, Seed: 11}, repo, cache)
	require.NoError(t, err)

	m, err := repo.FindMatch(context.Background(), result.MatchID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, model.MatchFinished, m.Status)
	assert.Equal(t, result.Winner, m.Winner)
	assert.Equal(t, result.Rounds, m.Rounds)
	assert.Equal(t, "heuristic", m.Player1)
	assert.Equal(t, "random", m.Player2)

	require.Len(t, repo.rounds, result.Rounds)
	for i, rd := range repo.rounds {
		assert.Equal(t, i+1, rd.Number)
		var gs warlight.GameState
		require.NoError(t, json.Unmarshal(rd.StateAfter, &gs))
		assert.Equal(t, i+1, gs.Round)
	}
	first, err := repo.OrdersByRound(context.Background(), repo.rounds[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, first, "round one has placements")

	assert.Equal(t, result.Rounds, cache.states)
	assert.Positive(t, cache.orders["player1"])
	assert.Equal(t, []string{result.MatchID}, cache.deleted)
	active, _ := cache.ActiveMatches(context.Background())
	assert.Empty(t, active)
}

// scripted plays fixed orders so the round mechanics can be checked.
type scripted struct {
	name    string
	picks   []int
	places  func(st *bot.State) []warlight.PlaceOrder
	attacks func(st *bot.State) []warlight.AttackTransferOrder
}

func (s *scripted) Name() string { return s.name }

func (s *scripted) PickStartingRegions(_ *bot.State, _ []int, _ int) []int { return s.picks }

func (s *scripted) PlaceArmies(st *bot.State) []warlight.PlaceOrder {
	if s.places == nil {
		return nil
	}
	return s.places(st)
}

func (s *scripted) AttackTransfer(st *bot.State) []warlight.AttackTransferOrder {
	if s.attacks == nil {
		return nil
	}
	return s.attacks(st)
}

func TestRunGameDropsInvalidPlacements(t *testing.T) {
	cheat := &scripted{
		name: "cheat",
		places: func(st *bot.State) []warlight.PlaceOrder {
			owned := st.Owned()
			return []warlight.PlaceOrder{{Player: st.Me, Territory: owned[0], Armies: st.StartingArmies + 50}}
		},
	}
	result, err := RunGame(context.Background(), Config{
		Strategies: [2]bot.Strategy{cheat, bot.HoldStrategy{}},
		MaxRounds:  3,
		Seed:       5,
	}, nil, nil)
	require.NoError(t, err)

	// Three starting territories with two armies each and nothing placed.
	assert.Equal(t, 6, result.Armies["player1"])
	assert.Equal(t, 3, result.Territories["player1"])
}

func TestRunGameEndsOnElimination(t *testing.T) {
	m := warlight.NewMap()
	m.AddSuperRegion(1, 1)
	m.AddSuperRegion(2, 1)
	for id := 1; id <= 4; id++ {
		m.AddTerritory(id, 1+(id-1)/2)
	}
	m.Connect(1, 2)
	m.Connect(2, 3)
	m.Connect(3, 4)
	m.Connect(1, 4)

	// player1 attacks the first foreign neighbor of every stack while
	// player2 never moves.
	rush := &scripted{
		name: "rush",
		attacks: func(st *bot.State) []warlight.AttackTransferOrder {
			var out []warlight.AttackTransferOrder
			for _, id := range st.Owned() {
				for _, n := range st.Map.Neighbors(id) {
					if st.GameState.OwnerOf(n) != st.Me && st.GameState.ArmiesOn(id) > 1 {
						out = append(out, warlight.AttackTransferOrder{Player: st.Me, From: id, To: n, Armies: st.GameState.ArmiesOn(id) - 1})
						break
					}
				}
			}
			return out
		},
		places: func(st *bot.State) []warlight.PlaceOrder {
			return []warlight.PlaceOrder{{Player: st.Me, Territory: st.Owned()[0], Armies: st.StartingArmies}}
		},
	}
	rush.picks = []int{1}
	idle := &scripted{name: "idle", picks: []int{3}}

	result, err := RunGame(context.Background(), Config{
		Strategies:    [2]bot.Strategy{rush, idle},
		Map:           m,
		MaxRounds:     200,
		StartingPicks: 1,
		NeutralArmies: 1,
		Seed:          9,
	}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "player1", result.Winner)
	assert.Zero(t, result.Territories["player2"])
	assert.Less(t, result.Rounds, 200)
}

func TestRunGameContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunGame(ctx, Config{Player1: "random", Player2: "random", Seed: 1}, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInterleave(t *testing.T) {
	a := []warlight.AttackTransferOrder{{Player: "player1", From: 1}, {Player: "player1", From: 2}, {Player: "player1", From: 3}}
	b := []warlight.AttackTransferOrder{{Player: "player2", From: 9}}

	got := interleave(a, b, false)
	require.Len(t, got, 4)
	assert.Equal(t, []int{1, 9, 2, 3}, []int{got[0].From, got[1].From, got[2].From, got[3].From})

	got = interleave(a, b, true)
	assert.Equal(t, []int{9, 1, 2, 3}, []int{got[0].From, got[1].From, got[2].From, got[3].From})
}

func TestWinnerByTerritoryCount(t *testing.T) {
	gs := &warlight.GameState{}
	gs.Set(1, player1, 1)
	gs.Set(2, player2, 5)
	assert.Equal(t, "", winner(gs))

	gs.Set(3, player2, 1)
	assert.Equal(t, "player2", winner(gs))
}
