// Package arena plays bot strategies against each other on the standard
// Warlight map.
package arena

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/CarloMagno/Warlight/internal/bot"
	"github.com/CarloMagno/Warlight/internal/logger"
	"github.com/CarloMagno/Warlight/internal/model"
	"github.com/CarloMagno/Warlight/internal/repository"
	"github.com/CarloMagno/Warlight/pkg/warlight"
)

const (
	player1 warlight.Player = "player1"
	player2 warlight.Player = "player2"
)

// Config configures a single bot-vs-bot game.
type Config struct {
	Player1 string // strategy name for player1
	Player2 string // strategy name for player2

	// Strategies overrides Player1/Player2 when set.
	Strategies [2]bot.Strategy

	Options       bot.StrategyOptions
	MaxRounds     int   // draw cap, default 100
	Seed          int64 // 0 = random
	NeutralArmies int   // armies on unowned territories, default 2
	StartingPicks int   // territories each player starts with, default 3
	Map           *warlight.Map
}

// Result describes the outcome of a completed arena game.
type Result struct {
	MatchID     string
	Winner      string // player name or "" for draw
	Rounds      int
	Territories map[string]int // player -> final territory count
	Armies      map[string]int // player -> final army count
}

type seat struct {
	player   warlight.Player
	strategy bot.Strategy
}

// RunGame plays a full game between two strategies. Rounds and orders go to
// repo, round snapshots go to cache. Pass nil for either to skip it.
func RunGame(ctx context.Context, cfg Config, repo repository.MatchRepository, cache repository.MatchCache) (*Result, error) {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = 100
	}
	if cfg.NeutralArmies <= 0 {
		cfg.NeutralArmies = 2
	}
	if cfg.StartingPicks <= 0 {
		cfg.StartingPicks = 3
	}
	if cfg.Map == nil {
		cfg.Map = warlight.StandardMap()
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	seats := [2]seat{{player: player1}, {player: player2}}
	names := [2]string{cfg.Player1, cfg.Player2}
	for i := range seats {
		s := cfg.Strategies[i]
		if s == nil {
			s = bot.StrategyForName(names[i], cfg.Options)
		}
		seats[i].strategy = s
		if c, ok := s.(bot.Closer); ok {
			defer c.Close()
		}
	}

	matchID := logger.NewGameID()
	ctx = logger.WithGameID(ctx, matchID)
	l := logger.ForGame(ctx)

	if repo != nil {
		err := repo.CreateMatch(ctx, &model.Match{
			ID:      matchID,
			Player1: seats[0].strategy.Name(),
			Player2: seats[1].strategy.Name(),
			Status:  model.MatchActive,
			Seed:    cfg.Seed,
		})
		if err != nil {
			return nil, fmt.Errorf("create match: %w", err)
		}
	}
	if cache != nil {
		if err := cache.MarkActive(ctx, matchID); err != nil {
			return nil, fmt.Errorf("mark active: %w", err)
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	resolver := warlight.NewResolver(rng)
	m := cfg.Map
	gs := warlight.NewGameState(m, cfg.NeutralArmies)

	distributeStart(gs, m, seats, cfg, rng, l)
	l.Info().
		Str("player1", seats[0].strategy.Name()).
		Str("player2", seats[1].strategy.Name()).
		Int64("seed", cfg.Seed).
		Msg("Match started")

	result := &Result{
		MatchID:     matchID,
		Territories: make(map[string]int),
		Armies:      make(map[string]int),
	}

	for round := 1; round <= cfg.MaxRounds; round++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		gs.Round = round
		result.Rounds = round

		places, attacks := collectOrders(gs, m, seats, round, l)
		for _, p := range places {
			resolver.ApplyPlacements(p, gs)
		}
		resolved := resolver.ResolveAttackTransfers(interleave(attacks[0], attacks[1], rng.Intn(2) == 1), gs, m)

		if err := persistRound(ctx, repo, cache, matchID, round, gs, places, resolved); err != nil {
			return nil, err
		}

		l.Debug().
			Int("round", round).
			Int("p1Territories", gs.OwnedCount(player1)).
			Int("p2Territories", gs.OwnedCount(player2)).
			Msg("Round resolved")

		if gs.OwnedCount(player1) == 0 || gs.OwnedCount(player2) == 0 {
			break
		}
	}

	result.Winner = winner(gs)
	for _, s := range seats {
		result.Territories[string(s.player)] = gs.OwnedCount(s.player)
		result.Armies[string(s.player)] = gs.ArmyCount(s.player)
	}

	if repo != nil {
		if err := repo.FinishMatch(ctx, matchID, result.Winner, result.Rounds); err != nil {
			return nil, fmt.Errorf("finish match: %w", err)
		}
	}
	if cache != nil {
		if err := cache.DeleteMatchData(ctx, matchID, []string{string(player1), string(player2)}); err != nil {
			l.Warn().Err(err).Msg("Failed to clear match cache")
		}
	}

	l.Info().
		Str("winner", result.Winner).
		Int("rounds", result.Rounds).
		Interface("territories", result.Territories).
		Msg("Match finished")
	return result, nil
}

// distributeStart offers two random territories per super region and lets
// the players alternate through their preference lists. A player whose list
// runs dry gets a random remaining pick.
func distributeStart(gs *warlight.GameState, m *warlight.Map, seats [2]seat, cfg Config, rng *rand.Rand, l zerolog.Logger) {
	pickable := pickableTerritories(m, rng)
	if need := 2 * cfg.StartingPicks; need > len(pickable) {
		cfg.StartingPicks = len(pickable) / 2
	}

	var prefs [2][]int
	for i, s := range seats {
		st := seatState(s, seats, gs, m, 0, 0, l)
		prefs[i] = s.strategy.PickStartingRegions(st, append([]int(nil), pickable...), len(pickable)/2)
	}

	taken := make(map[int]bool)
	offered := make(map[int]bool, len(pickable))
	for _, id := range pickable {
		offered[id] = true
	}
	next := [2]int{}
	for pick := 0; pick < cfg.StartingPicks; pick++ {
		for i, s := range seats {
			id := -1
			for next[i] < len(prefs[i]) {
				cand := prefs[i][next[i]]
				next[i]++
				if offered[cand] && !taken[cand] {
					id = cand
					break
				}
			}
			if id < 0 {
				id = randomFree(pickable, taken, rng)
			}
			if id < 0 {
				return
			}
			taken[id] = true
			gs.Set(id, s.player, cfg.NeutralArmies)
		}
	}
}

func pickableTerritories(m *warlight.Map, rng *rand.Rand) []int {
	var out []int
	for _, srID := range sortedSuperRegions(m) {
		ids := append([]int(nil), m.SuperRegions[srID].Territories...)
		rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		if len(ids) > 2 {
			ids = ids[:2]
		}
		out = append(out, ids...)
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func randomFree(pickable []int, taken map[int]bool, rng *rand.Rand) int {
	var free []int
	for _, id := range pickable {
		if !taken[id] {
			free = append(free, id)
		}
	}
	if len(free) == 0 {
		return -1
	}
	return free[rng.Intn(len(free))]
}

// collectOrders asks each player for placements and then attack/transfers
// against its own fogged view with its placements applied.
func collectOrders(gs *warlight.GameState, m *warlight.Map, seats [2]seat, round int, l zerolog.Logger) ([2][]warlight.PlaceOrder, [2][]warlight.AttackTransferOrder) {
	var places [2][]warlight.PlaceOrder
	var attacks [2][]warlight.AttackTransferOrder
	for i, s := range seats {
		if gs.OwnedCount(s.player) == 0 {
			continue
		}
		income := warlight.Income(s.player, gs, m)
		st := seatState(s, seats, gs, m, income, round, l)

		p := s.strategy.PlaceArmies(st)
		if err := warlight.ValidatePlacements(p, s.player, income, gs); err != nil {
			l.Warn().Err(err).Str("player", string(s.player)).Int("round", round).Msg("Dropping invalid placements")
			p = nil
		}
		places[i] = p
		for _, o := range p {
			st.GameState.Armies[o.Territory] += o.Armies
		}

		// Validate against the real state with this player's placements.
		check := gs.Clone()
		for _, o := range p {
			check.Armies[o.Territory] += o.Armies
		}
		for _, o := range s.strategy.AttackTransfer(st) {
			if err := warlight.ValidateAttackTransfer(o, check, m); err != nil || o.Player != s.player {
				l.Warn().Err(err).Str("order", o.String()).Int("round", round).Msg("Dropping invalid attack/transfer")
				continue
			}
			attacks[i] = append(attacks[i], o)
		}
	}
	return places, attacks
}

func seatState(s seat, seats [2]seat, gs *warlight.GameState, m *warlight.Map, armies, round int, l zerolog.Logger) *bot.State {
	opp := seats[0].player
	if s.player == opp {
		opp = seats[1].player
	}
	vis := warlight.VisibleState(s.player, gs, m)
	vis.Round = round
	sl := l.With().Str("player", string(s.player)).Logger()
	return &bot.State{
		Me:             s.player,
		Opponent:       opp,
		StartingArmies: armies,
		Round:          round,
		Map:            m,
		GameState:      vis,
		Log:            &sl,
	}
}

// interleave alternates orders from both players, starting with b when
// bFirst is set. Leftovers of the longer list follow in order.
func interleave(a, b []warlight.AttackTransferOrder, bFirst bool) []warlight.AttackTransferOrder {
	if bFirst {
		a, b = b, a
	}
	out := make([]warlight.AttackTransferOrder, 0, len(a)+len(b))
	for i := 0; i < len(a) || i < len(b); i++ {
		if i < len(a) {
			out = append(out, a[i])
		}
		if i < len(b) {
			out = append(out, b[i])
		}
	}
	return out
}

func persistRound(
	ctx context.Context,
	repo repository.MatchRepository,
	cache repository.MatchCache,
	matchID string,
	round int,
	gs *warlight.GameState,
	places [2][]warlight.PlaceOrder,
	resolved []warlight.ResolvedOrder,
) error {
	if repo == nil && cache == nil {
		return nil
	}
	stateAfter, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	orders := ordersToModel(places, resolved)

	if repo != nil {
		if _, err := repo.SaveRound(ctx, matchID, round, stateAfter, orders); err != nil {
			return fmt.Errorf("save round %d: %w", round, err)
		}
	}
	if cache != nil {
		if err := cache.SetRoundState(ctx, matchID, stateAfter); err != nil {
			return fmt.Errorf("cache round %d: %w", round, err)
		}
		for player, list := range ordersByPlayer(orders) {
			data, err := json.Marshal(list)
			if err != nil {
				return fmt.Errorf("marshal orders: %w", err)
			}
			if err := cache.SetOrders(ctx, matchID, player, data); err != nil {
				return fmt.Errorf("cache orders: %w", err)
			}
		}
	}
	return nil
}

// winner returns the sole survivor, else the player with more territories,
// else "" for a draw.
func winner(gs *warlight.GameState) string {
	c1, c2 := gs.OwnedCount(player1), gs.OwnedCount(player2)
	switch {
	case c1 > c2:
		return string(player1)
	case c2 > c1:
		return string(player2)
	default:
		return ""
	}
}
