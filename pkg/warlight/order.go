package warlight

import (
	"fmt"
	"strconv"
	"strings"
)

// NoMoves is the protocol answer for an empty order list.
const NoMoves = "No moves"

// PlaceOrder deploys new armies on an owned territory.
type PlaceOrder struct {
	Player    Player `json:"player"`
	Territory int    `json:"territory"`
	Armies    int    `json:"armies"`
}

func (o PlaceOrder) String() string {
	return fmt.Sprintf("%s place_armies %d %d", o.Player, o.Territory, o.Armies)
}

// AttackTransferOrder moves armies from one territory to a neighbor. It is
// a transfer when the player owns the destination, an attack otherwise.
type AttackTransferOrder struct {
	Player Player `json:"player"`
	From   int    `json:"from"`
	To     int    `json:"to"`
	Armies int    `json:"armies"`
}

func (o AttackTransferOrder) String() string {
	return fmt.Sprintf("%s attack/transfer %d %d %d", o.Player, o.From, o.To, o.Armies)
}

// FormatPlaceOrders joins orders into a single protocol line.
func FormatPlaceOrders(orders []PlaceOrder) string {
	if len(orders) == 0 {
		return NoMoves
	}
	parts := make([]string, len(orders))
	for i, o := range orders {
		parts[i] = o.String()
	}
	return strings.Join(parts, ", ")
}

// FormatAttackTransferOrders joins orders into a single protocol line.
func FormatAttackTransferOrders(orders []AttackTransferOrder) string {
	if len(orders) == 0 {
		return NoMoves
	}
	parts := make([]string, len(orders))
	for i, o := range orders {
		parts[i] = o.String()
	}
	return strings.Join(parts, ", ")
}

// ParseMoves splits a protocol move line (comma separated, or a flat token
// stream as sent in opponent_moves) into place and attack/transfer orders.
func ParseMoves(line string) ([]PlaceOrder, []AttackTransferOrder, error) {
	line = strings.TrimSpace(line)
	if line == "" || line == NoMoves {
		return nil, nil, nil
	}
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))

	var places []PlaceOrder
	var attacks []AttackTransferOrder
	for i := 0; i < len(fields); {
		if i+1 >= len(fields) {
			return nil, nil, fmt.Errorf("truncated move at %q", fields[i])
		}
		player, kind := Player(fields[i]), fields[i+1]
		switch kind {
		case "place_armies":
			nums, err := atois(fields, i+2, 2)
			if err != nil {
				return nil, nil, fmt.Errorf("place_armies: %w", err)
			}
			places = append(places, PlaceOrder{Player: player, Territory: nums[0], Armies: nums[1]})
			i += 4
		case "attack/transfer":
			nums, err := atois(fields, i+2, 3)
			if err != nil {
				return nil, nil, fmt.Errorf("attack/transfer: %w", err)
			}
			attacks = append(attacks, AttackTransferOrder{Player: player, From: nums[0], To: nums[1], Armies: nums[2]})
			i += 5
		default:
			return nil, nil, fmt.Errorf("unknown move type %q", kind)
		}
	}
	return places, attacks, nil
}

func atois(fields []string, start, n int) ([]int, error) {
	if start+n > len(fields) {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(fields)-start)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(fields[start+i])
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", fields[start+i], err)
		}
		out[i] = v
	}
	return out, nil
}
