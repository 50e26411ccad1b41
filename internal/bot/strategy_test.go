package bot

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarloMagno/Warlight/pkg/warlight"
)

func TestStrategyForName(t *testing.T) {
	opts := StrategyOptions{Params: DefaultParams()}

	assert.Equal(t, "random", StrategyForName("random", opts).Name())
	assert.Equal(t, "hold", StrategyForName("hold", opts).Name())
	assert.Equal(t, "heuristic", StrategyForName("", opts).Name())
	assert.Equal(t, "heuristic", StrategyForName("external", opts).Name(), "no engine path falls back")
}

func TestHeuristicPlaceArmiesOnBorders(t *testing.T) {
	m := testMap([2]int{1, 2}, [2]int{2, 3})
	st := &State{
		Me: me, Opponent: opp, StartingArmies: 5, Map: m,
		GameState: testState(holding{1, me, 3}, holding{2, me, 2}, holding{3, opp, 6}),
	}

	got := NewHeuristicStrategy(DefaultParams()).PlaceArmies(st)

	assert.Equal(t, []warlight.PlaceOrder{place(2, 5)}, got)
}

func TestHeuristicPlaceArmiesAgainstStrongestNeighbor(t *testing.T) {
	m := testMap([2]int{1, 2}, [2]int{1, 3}, [2]int{4, 5})
	st := &State{
		Me: me, Opponent: opp, StartingArmies: 5, Map: m,
		GameState: testState(
			holding{1, me, 10}, holding{2, opp, 6}, holding{3, warlight.Neutral, 5},
			holding{4, me, 3}, holding{5, opp, 5},
		),
	}

	got := NewHeuristicStrategy(DefaultParams()).PlaceArmies(st)

	// 1 holds four more than its strongest neighbor, so only 4 is reinforced.
	assert.Equal(t, []warlight.PlaceOrder{place(4, 5)}, got)
}

func TestHeuristicPlaceArmiesWithoutBorders(t *testing.T) {
	m := testMap([2]int{1, 2})
	st := &State{
		Me: me, Opponent: opp, StartingArmies: 5, Map: m,
		GameState: testState(holding{1, me, 3}, holding{2, me, 2}),
	}

	got := NewHeuristicStrategy(DefaultParams()).PlaceArmies(st)

	assert.Equal(t, []warlight.PlaceOrder{place(2, 2), place(1, 3)}, got)
}

func TestHeuristicSetParams(t *testing.T) {
	m := testMap([2]int{1, 2}, [2]int{1, 3})
	st := &State{
		Me: me, Opponent: opp, Map: m,
		GameState: testState(holding{1, me, 7}, holding{2, me, 1}, holding{3, me, 1}),
	}
	h := NewHeuristicStrategy(DefaultParams())
	require.Len(t, h.AttackTransfer(st), 2)

	p := DefaultParams()
	p.WorldDominanceLimit = 1
	h.SetParams(p)

	assert.Empty(t, h.AttackTransfer(st))
	assert.Equal(t, 1, h.Params().WorldDominanceLimit)
}

func TestHeuristicZeroValueUsesDefaults(t *testing.T) {
	var h HeuristicStrategy
	assert.Equal(t, DefaultParams(), h.Params())
}

func TestHeuristicLogsDecisions(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	m := testMap([2]int{1, 2})
	st := &State{
		Me: me, Opponent: opp, Map: m, Log: &logger,
		GameState: testState(holding{1, me, 10}, holding{2, warlight.Neutral, 4}),
	}

	NewHeuristicStrategy(DefaultParams()).AttackTransfer(st)

	assert.Contains(t, buf.String(), `"rule":"expansion"`)
}

func TestRandomStrategyOrdersAreValid(t *testing.T) {
	SeedBotRng(9)
	defer ResetBotRng()
	m := warlight.StandardMap()
	gs := warlight.NewGameState(m, 2)
	for _, id := range []int{10, 11, 12, 13, 9} {
		gs.Set(id, me, 4)
	}
	st := &State{Me: me, Opponent: opp, StartingArmies: 7, Map: m, GameState: gs}
	var s RandomStrategy

	placed := 0
	places := s.PlaceArmies(st)
	require.NoError(t, warlight.ValidatePlacements(places, me, 7, gs))
	for _, o := range places {
		placed += o.Armies
	}
	assert.Equal(t, 7, placed)

	for _, o := range s.AttackTransfer(st) {
		assert.NoError(t, warlight.ValidateAttackTransfer(o, gs, m))
	}
	assert.Len(t, s.PickStartingRegions(st, []int{1, 2, 3, 4}, 2), 2)
}

func TestHoldStrategy(t *testing.T) {
	m := testMap([2]int{1, 2}, [2]int{2, 3})
	st := &State{
		Me: me, Opponent: opp, StartingArmies: 5, Map: m,
		GameState: testState(holding{1, me, 3}, holding{2, me, 2}, holding{3, opp, 6}),
	}
	var s HoldStrategy

	assert.Equal(t, []warlight.PlaceOrder{place(2, 5)}, s.PlaceArmies(st))
	assert.Nil(t, s.AttackTransfer(st))
	assert.Equal(t, []int{4, 5}, s.PickStartingRegions(st, []int{4, 5, 6}, 2))
}

func TestHoldStrategyRanksByStrongestNeighbor(t *testing.T) {
	m := testMap([2]int{1, 2}, [2]int{1, 3}, [2]int{4, 5})
	st := &State{
		Me: me, Opponent: opp, StartingArmies: 5, Map: m,
		GameState: testState(
			holding{1, me, 10}, holding{2, opp, 6}, holding{3, warlight.Neutral, 5},
			holding{4, me, 3}, holding{5, opp, 3},
		),
	}

	assert.Equal(t, []warlight.PlaceOrder{place(4, 5)}, HoldStrategy{}.PlaceArmies(st))
}
