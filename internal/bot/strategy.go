package bot

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/CarloMagno/Warlight/pkg/warlight"
)

// Strategy decides a player's orders for each step of a round.
type Strategy interface {
	Name() string
	PickStartingRegions(st *State, pickable []int, n int) []int
	PlaceArmies(st *State) []warlight.PlaceOrder
	AttackTransfer(st *State) []warlight.AttackTransferOrder
}

// Closer is implemented by strategies that hold external resources.
type Closer interface {
	Close() error
}

// StrategyOptions carries what StrategyForName needs beyond the name.
type StrategyOptions struct {
	Params        Params
	EnginePath    string
	EngineTimeout time.Duration
}

// StrategyForName returns the strategy registered under name. Unknown names
// get the heuristic planner.
func StrategyForName(name string, opts StrategyOptions) Strategy {
	switch name {
	case "hold":
		return HoldStrategy{}
	case "random":
		return RandomStrategy{}
	case "external":
		return newExternalOrFallback(opts)
	default:
		return NewHeuristicStrategy(opts.Params)
	}
}

// newExternalOrFallback attempts to create an ExternalStrategy. If the engine
// path is not configured or the engine fails to start, it falls back to the
// heuristic planner so the game can proceed.
func newExternalOrFallback(opts StrategyOptions) Strategy {
	if opts.EnginePath == "" {
		log.Warn().Msg("external strategy requested but no engine path set; falling back to heuristic")
		return NewHeuristicStrategy(opts.Params)
	}
	es, err := NewExternalStrategy(opts.EnginePath, opts.EngineTimeout, NewHeuristicStrategy(opts.Params))
	if err != nil {
		log.Warn().Err(err).Str("path", opts.EnginePath).Msg("failed to start external bot; falling back to heuristic")
		return NewHeuristicStrategy(opts.Params)
	}
	return es
}

// --- HoldStrategy ---

// HoldStrategy stacks every new army on its weakest territory and never
// moves.
type HoldStrategy struct{}

func (HoldStrategy) Name() string { return "hold" }

func (HoldStrategy) PickStartingRegions(_ *State, pickable []int, n int) []int {
	if n > len(pickable) {
		n = len(pickable)
	}
	return append([]int(nil), pickable[:n]...)
}

func (HoldStrategy) PlaceArmies(st *State) []warlight.PlaceOrder {
	ranked := RankAdvantages(st.Owned(), st.Me, st.GameState, st.Map)
	if len(ranked) == 0 || st.StartingArmies <= 0 {
		return nil
	}
	return []warlight.PlaceOrder{{Player: st.Me, Territory: ranked[0].Territory, Armies: st.StartingArmies}}
}

func (HoldStrategy) AttackTransfer(*State) []warlight.AttackTransferOrder { return nil }

// --- RandomStrategy ---

// RandomStrategy generates random but valid orders for sparring.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "random" }

func (RandomStrategy) PickStartingRegions(_ *State, pickable []int, n int) []int {
	var picks []int
	for _, i := range botPerm(len(pickable)) {
		if len(picks) == n {
			break
		}
		picks = append(picks, pickable[i])
	}
	return picks
}

// PlaceArmies drops each new army on a random owned territory.
func (RandomStrategy) PlaceArmies(st *State) []warlight.PlaceOrder {
	owned := st.Owned()
	if len(owned) == 0 {
		return nil
	}
	var orders []warlight.PlaceOrder
	for i := 0; i < st.StartingArmies; i++ {
		orders = addPlacement(orders, st.Me, owned[botIntn(len(owned))], 1)
	}
	return orders
}

// AttackTransfer sends a random share of each territory's spare armies to
// a random neighbor about half of the time.
func (RandomStrategy) AttackTransfer(st *State) []warlight.AttackTransferOrder {
	var orders []warlight.AttackTransferOrder
	for _, id := range st.Owned() {
		spare := st.GameState.ArmiesOn(id) - 1
		neighbors := st.Map.Neighbors(id)
		if spare <= 0 || len(neighbors) == 0 || botFloat64() < 0.5 {
			continue
		}
		orders = append(orders, warlight.AttackTransferOrder{
			Player: st.Me,
			From:   id,
			To:     neighbors[botIntn(len(neighbors))],
			Armies: 1 + botIntn(spare),
		})
	}
	return orders
}
