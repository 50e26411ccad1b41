package bot

import (
	"sync/atomic"

	"github.com/CarloMagno/Warlight/pkg/warlight"
)

// HeuristicStrategy plays the one-ply planner: reinforce outnumbered
// borders, strike where the local odds are good, and pull spare armies out
// of the interior. Params can be swapped between turns with SetParams.
type HeuristicStrategy struct {
	params atomic.Pointer[Params]
}

// NewHeuristicStrategy returns a planner using p.
func NewHeuristicStrategy(p Params) *HeuristicStrategy {
	h := &HeuristicStrategy{}
	h.SetParams(p)
	return h
}

func (h *HeuristicStrategy) Name() string { return "heuristic" }

// Params returns the tuning currently in use.
func (h *HeuristicStrategy) Params() Params {
	if p := h.params.Load(); p != nil {
		return *p
	}
	return DefaultParams()
}

// SetParams replaces the tuning. Safe to call while a game is running.
func (h *HeuristicStrategy) SetParams(p Params) {
	h.params.Store(&p)
}

func (h *HeuristicStrategy) PickStartingRegions(st *State, pickable []int, n int) []int {
	return PickStartingRegions(pickable, n, h.Params().PreferredSuperRegions, st.Map)
}

// PlaceArmies reinforces territories that border foreign land, weakest
// first. A player with no border left reinforces everything it owns.
func (h *HeuristicStrategy) PlaceArmies(st *State) []warlight.PlaceOrder {
	owned := st.Owned()
	var exposed []int
	for _, id := range owned {
		if !IsSafe(id, st.Me, st.GameState, st.Map) {
			exposed = append(exposed, id)
		}
	}
	if len(exposed) == 0 {
		exposed = owned
	}
	ranked := RankAdvantages(exposed, st.Me, st.GameState, st.Map)
	orders := Allocate(ranked, st.StartingArmies, st.Me)
	st.logger().Debug().Int("round", st.Round).Int("armies", st.StartingArmies).
		Int("candidates", len(ranked)).Int("orders", len(orders)).Msg("placement")
	return orders
}

func (h *HeuristicStrategy) AttackTransfer(st *State) []warlight.AttackTransferOrder {
	return plan(st.Owned(), st.Me, st.Opponent, st.GameState, st.Map, h.Params(), st.logger())
}
