package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/CarloMagno/Warlight/pkg/engine"
	"github.com/CarloMagno/Warlight/pkg/warlight"
)

// ExternalStrategy implements Strategy by delegating to another bot binary
// that speaks the Warlight line protocol. When the process fails to answer
// in time, or answers with garbage, the fallback strategy decides instead.
type ExternalStrategy struct {
	eng      *engine.Engine
	timeout  time.Duration
	fallback Strategy

	mu       sync.Mutex
	mapSent  bool
	lastSeen warlight.Player
}

// NewExternalStrategy spawns the bot process and returns a ready strategy.
// A zero timeout means two seconds per request.
func NewExternalStrategy(path string, timeout time.Duration, fallback Strategy) (*ExternalStrategy, error) {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	eng := engine.NewEngine(path)
	if err := eng.Start(); err != nil {
		return nil, fmt.Errorf("external strategy: %w", err)
	}
	return &ExternalStrategy{eng: eng, timeout: timeout, fallback: fallback}, nil
}

func (e *ExternalStrategy) Name() string { return "external" }

// Close stops the bot process.
func (e *ExternalStrategy) Close() error {
	return e.eng.Close()
}

func (e *ExternalStrategy) PickStartingRegions(st *State, pickable []int, n int) []int {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, len(pickable))
	for i, id := range pickable {
		ids[i] = strconv.Itoa(id)
	}
	answer, err := e.request(st, fmt.Sprintf("pick_starting_regions %d %s", e.timeout.Milliseconds(), strings.Join(ids, " ")))
	if err == nil {
		var picks []int
		if picks, err = warlight.ParseIDs(strings.Fields(answer)); err == nil {
			return filterPicks(picks, pickable, n)
		}
	}
	st.logger().Warn().Err(err).Msg("external pick failed; using fallback")
	return e.fallback.PickStartingRegions(st, pickable, n)
}

func (e *ExternalStrategy) PlaceArmies(st *State) []warlight.PlaceOrder {
	e.mu.Lock()
	defer e.mu.Unlock()

	answer, err := e.request(st, fmt.Sprintf("go place_armies %d", e.timeout.Milliseconds()))
	if err == nil {
		var places []warlight.PlaceOrder
		if places, _, err = warlight.ParseMoves(answer); err == nil {
			return ownPlacements(places, st.Me)
		}
	}
	st.logger().Warn().Err(err).Msg("external placement failed; using fallback")
	return e.fallback.PlaceArmies(st)
}

func (e *ExternalStrategy) AttackTransfer(st *State) []warlight.AttackTransferOrder {
	e.mu.Lock()
	defer e.mu.Unlock()

	answer, err := e.request(st, fmt.Sprintf("go attack/transfer %d", e.timeout.Milliseconds()))
	if err == nil {
		var attacks []warlight.AttackTransferOrder
		if _, attacks, err = warlight.ParseMoves(answer); err == nil {
			return ownAttacks(attacks, st.Me)
		}
	}
	st.logger().Warn().Err(err).Msg("external attack/transfer failed; using fallback")
	return e.fallback.AttackTransfer(st)
}

// request brings the bot up to date with st and sends line.
func (e *ExternalStrategy) request(st *State, line string) (string, error) {
	var lines []string
	if !e.mapSent || e.lastSeen != st.Me {
		lines = append(lines,
			"settings your_bot "+string(st.Me),
			"settings opponent_bot "+string(st.Opponent))
		lines = append(lines, warlight.SetupMapLines(st.Map)...)
		e.mapSent = true
		e.lastSeen = st.Me
	}
	lines = append(lines,
		fmt.Sprintf("settings starting_armies %d", st.StartingArmies),
		warlight.UpdateMapLine(st.GameState))
	if err := e.eng.Send(lines...); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	return e.eng.Request(ctx, line)
}

func filterPicks(picks, pickable []int, n int) []int {
	allowed := make(map[int]bool, len(pickable))
	for _, id := range pickable {
		allowed[id] = true
	}
	var out []int
	for _, id := range picks {
		if len(out) == n {
			break
		}
		if allowed[id] {
			out = append(out, id)
			allowed[id] = false
		}
	}
	return out
}

func ownPlacements(orders []warlight.PlaceOrder, me warlight.Player) []warlight.PlaceOrder {
	var out []warlight.PlaceOrder
	for _, o := range orders {
		if o.Player == me {
			out = append(out, o)
		}
	}
	return out
}

func ownAttacks(orders []warlight.AttackTransferOrder, me warlight.Player) []warlight.AttackTransferOrder {
	var out []warlight.AttackTransferOrder
	for _, o := range orders {
		if o.Player == me {
			out = append(out, o)
		}
	}
	return out
}
