// Package protocol implements the bot side of the Warlight AI line
// protocol: it keeps the bot's view of the game up to date from host
// messages and answers pick and go requests with a bot.Strategy.
package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/CarloMagno/Warlight/internal/bot"
	"github.com/CarloMagno/Warlight/internal/logger"
	"github.com/CarloMagno/Warlight/pkg/warlight"
)

var (
	// ErrUnknownCommand is returned for lines the driver does not understand.
	ErrUnknownCommand = errors.New("protocol: unknown command")
	// ErrMalformed is returned for known commands with bad arguments.
	ErrMalformed = errors.New("protocol: malformed command")
	// ErrNoMap is returned for requests that arrive before setup_map.
	ErrNoMap = errors.New("protocol: no map received yet")
)

// defaultPickAmount is how many regions pick_starting_regions asks for when
// the host does not say.
const defaultPickAmount = 6

// Settings are the values a host sends with "settings" lines.
type Settings struct {
	Me                 warlight.Player
	Opponent           warlight.Player
	StartingArmies     int
	Timebank           time.Duration
	TimePerMove        time.Duration
	MaxRounds          int
	StartingPickAmount int
	StartingRegions    []int
}

// Driver holds one game's view and dispatches host lines to a strategy.
// It is not safe for concurrent use.
type Driver struct {
	strategy bot.Strategy
	log      zerolog.Logger

	settings Settings
	m        *warlight.Map
	gs       *warlight.GameState
	round    int
}

// NewDriver returns a driver that answers with s and logs to l.
func NewDriver(s bot.Strategy, l zerolog.Logger) *Driver {
	return &Driver{
		strategy: s,
		log:      l,
		settings: Settings{
			Me:                 "player1",
			Opponent:           "player2",
			StartingPickAmount: defaultPickAmount,
		},
	}
}

// Settings returns the settings received so far.
func (d *Driver) Settings() Settings { return d.settings }

// Map returns the map received with setup_map, or nil.
func (d *Driver) Map() *warlight.Map { return d.m }

// GameState returns the bot's current view of the board, or nil.
func (d *Driver) GameState() *warlight.GameState { return d.gs }

// Round returns the number of the round being played.
func (d *Driver) Round() int { return d.round }

// Handle processes one host line. When reply is true, answer must be sent
// back to the host, even if err is non-nil.
func (d *Driver) Handle(line string) (answer string, reply bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false, nil
	}
	switch fields[0] {
	case "settings":
		return "", false, d.handleSettings(fields[1:])
	case "setup_map":
		return "", false, d.handleSetupMap(fields[1:])
	case "update_map":
		return "", false, d.handleUpdateMap(fields[1:])
	case "opponent_moves":
		return "", false, d.handleOpponentMoves(fields[1:])
	case "pick_starting_regions":
		return d.handlePick(fields[1:], d.settings.StartingPickAmount)
	case "pick_starting_region":
		return d.handlePick(fields[1:], 1)
	case "go":
		return d.handleGo(fields[1:])
	}
	return "", false, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
}

// Serve reads host lines from conn until the host hangs up or ctx is
// canceled, replying where the protocol expects an answer. Bad lines are
// logged and skipped.
func (d *Driver) Serve(ctx context.Context, conn Conn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		line, err := conn.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("protocol: read: %w", err)
		}
		logger.LogLine(d.log, "in", line)

		answer, reply, err := d.Handle(line)
		if err != nil {
			d.log.Warn().Err(err).Int("round", d.round).Msg("Ignoring host line")
		}
		if !reply {
			continue
		}
		logger.LogLine(d.log, "out", answer)
		if err := conn.WriteLine(answer); err != nil {
			return fmt.Errorf("protocol: write: %w", err)
		}
	}
}

// Serve runs a driver for s over a byte stream, typically stdin/stdout.
func Serve(ctx context.Context, s bot.Strategy, r io.Reader, w io.Writer, l zerolog.Logger) error {
	return NewDriver(s, l).Serve(ctx, NewStreamConn(r, w))
}

func (d *Driver) handleSettings(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: settings needs a key and a value", ErrMalformed)
	}
	key, val := args[0], args[1]
	switch key {
	case "your_bot":
		d.settings.Me = warlight.Player(val)
	case "opponent_bot":
		d.settings.Opponent = warlight.Player(val)
	case "starting_regions":
		ids, err := warlight.ParseIDs(args[1:])
		if err != nil {
			return fmt.Errorf("%w: starting_regions: %v", ErrMalformed, err)
		}
		d.settings.StartingRegions = ids
	case "starting_armies", "timebank", "time_per_move", "max_rounds", "starting_pick_amount":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
		}
		switch key {
		case "starting_armies":
			d.settings.StartingArmies = n
		case "timebank":
			d.settings.Timebank = time.Duration(n) * time.Millisecond
		case "time_per_move":
			d.settings.TimePerMove = time.Duration(n) * time.Millisecond
		case "max_rounds":
			d.settings.MaxRounds = n
		case "starting_pick_amount":
			d.settings.StartingPickAmount = n
		}
	default:
		d.log.Debug().Str("key", key).Msg("Unknown setting")
	}
	return nil
}

func (d *Driver) handleSetupMap(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: setup_map needs a section", ErrMalformed)
	}
	if d.m == nil {
		d.m = warlight.NewMap()
	}
	section, rest := args[0], args[1:]
	switch section {
	case "super_regions":
		pairs, err := intPairs(rest)
		if err != nil {
			return fmt.Errorf("%w: super_regions: %v", ErrMalformed, err)
		}
		for _, p := range pairs {
			d.m.AddSuperRegion(p[0], p[1])
		}
	case "regions":
		pairs, err := intPairs(rest)
		if err != nil {
			return fmt.Errorf("%w: regions: %v", ErrMalformed, err)
		}
		for _, p := range pairs {
			d.m.AddTerritory(p[0], p[1])
		}
	case "neighbors":
		if len(rest)%2 != 0 {
			return fmt.Errorf("%w: neighbors: odd field count", ErrMalformed)
		}
		for i := 0; i < len(rest); i += 2 {
			id, err := strconv.Atoi(rest[i])
			if err != nil {
				return fmt.Errorf("%w: neighbors: %v", ErrMalformed, err)
			}
			others, err := warlight.ParseIDs(strings.Split(rest[i+1], ","))
			if err != nil {
				return fmt.Errorf("%w: neighbors of %d: %v", ErrMalformed, id, err)
			}
			for _, o := range others {
				d.m.Connect(id, o)
			}
		}
	case "wastelands":
		ids, err := warlight.ParseIDs(rest)
		if err != nil {
			return fmt.Errorf("%w: wastelands: %v", ErrMalformed, err)
		}
		d.m.Wastelands = ids
	default:
		return fmt.Errorf("%w: setup_map %q", ErrUnknownCommand, section)
	}
	if d.gs == nil {
		d.gs = &warlight.GameState{}
	}
	return nil
}

// handleUpdateMap replaces the visible board. Territories the host does not
// mention are hidden.
func (d *Driver) handleUpdateMap(args []string) error {
	if len(args)%3 != 0 {
		return fmt.Errorf("%w: update_map: field count %d is not a multiple of 3", ErrMalformed, len(args))
	}
	gs := &warlight.GameState{Round: d.round}
	for i := 0; i < len(args); i += 3 {
		id, err := strconv.Atoi(args[i])
		if err != nil {
			return fmt.Errorf("%w: update_map: %v", ErrMalformed, err)
		}
		armies, err := strconv.Atoi(args[i+2])
		if err != nil {
			return fmt.Errorf("%w: update_map: %v", ErrMalformed, err)
		}
		gs.Set(id, warlight.Player(args[i+1]), armies)
	}
	d.gs = gs
	return nil
}

func (d *Driver) handleOpponentMoves(args []string) error {
	places, attacks, err := warlight.ParseMoves(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("%w: opponent_moves: %v", ErrMalformed, err)
	}
	d.log.Debug().Int("round", d.round).Int("placements", len(places)).
		Int("attacks", len(attacks)).Msg("Opponent moves")
	return nil
}

func (d *Driver) handlePick(args []string, n int) (string, bool, error) {
	if len(args) < 2 {
		return warlight.NoMoves, true, fmt.Errorf("%w: pick needs a time and regions", ErrMalformed)
	}
	pickable, err := warlight.ParseIDs(args[1:])
	if err != nil {
		return warlight.NoMoves, true, fmt.Errorf("%w: pick: %v", ErrMalformed, err)
	}
	if d.m == nil {
		return strconv.Itoa(pickable[0]), true, ErrNoMap
	}
	picks := d.strategy.PickStartingRegions(d.state(), pickable, n)
	if len(picks) == 0 {
		picks = pickable[:1]
	}
	out := make([]string, len(picks))
	for i, id := range picks {
		out[i] = strconv.Itoa(id)
	}
	return strings.Join(out, " "), true, nil
}

func (d *Driver) handleGo(args []string) (string, bool, error) {
	if len(args) == 0 {
		return "", false, fmt.Errorf("%w: go needs a step", ErrMalformed)
	}
	if d.m == nil || d.gs == nil {
		return warlight.NoMoves, true, ErrNoMap
	}
	switch args[0] {
	case "place_armies":
		d.round++
		d.gs.Round = d.round
		orders := d.strategy.PlaceArmies(d.state())
		if err := warlight.ValidatePlacements(orders, d.settings.Me, d.settings.StartingArmies, d.gs); err != nil {
			d.log.Warn().Err(err).Int("round", d.round).Msg("Strategy placed illegally")
		}
		// Placed armies can attack this round; the host only reports them
		// with the next update_map.
		for _, o := range orders {
			if d.gs.OwnerOf(o.Territory) == d.settings.Me {
				d.gs.Set(o.Territory, d.settings.Me, d.gs.ArmiesOn(o.Territory)+o.Armies)
			}
		}
		return warlight.FormatPlaceOrders(orders), true, nil
	case "attack/transfer":
		orders := d.strategy.AttackTransfer(d.state())
		return warlight.FormatAttackTransferOrders(orders), true, nil
	}
	return warlight.NoMoves, true, fmt.Errorf("%w: go %q", ErrUnknownCommand, args[0])
}

func (d *Driver) state() *bot.State {
	l := d.log.With().Int("round", d.round).Logger()
	return &bot.State{
		Me:             d.settings.Me,
		Opponent:       d.settings.Opponent,
		StartingArmies: d.settings.StartingArmies,
		Round:          d.round,
		Map:            d.m,
		GameState:      d.gs,
		Log:            &l,
	}
}

func intPairs(fields []string) ([][2]int, error) {
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("odd field count %d", len(fields))
	}
	ids, err := warlight.ParseIDs(fields)
	if err != nil {
		return nil, err
	}
	out := make([][2]int, 0, len(ids)/2)
	for i := 0; i < len(ids); i += 2 {
		out = append(out, [2]int{ids[i], ids[i+1]})
	}
	return out, nil
}
