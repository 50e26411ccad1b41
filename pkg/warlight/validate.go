package warlight

import "fmt"

// ValidationError describes why an order is invalid.
type ValidationError struct {
	Order   fmt.Stringer
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order %s: %s", e.Order, e.Message)
}

// ValidatePlacements checks that every placement targets a territory p owns,
// carries a positive army count, and that the total stays within available.
func ValidatePlacements(orders []PlaceOrder, p Player, available int, gs *GameState) error {
	total := 0
	for _, o := range orders {
		if o.Player != p {
			return &ValidationError{o, fmt.Sprintf("order belongs to %s, not %s", o.Player, p)}
		}
		if o.Armies <= 0 {
			return &ValidationError{o, "army count must be positive"}
		}
		if owner := gs.OwnerOf(o.Territory); owner != p {
			return &ValidationError{o, fmt.Sprintf("territory %d is owned by %s", o.Territory, owner)}
		}
		total += o.Armies
		if total > available {
			return &ValidationError{o, fmt.Sprintf("placements exceed %d available armies", available)}
		}
	}
	return nil
}

// ValidateAttackTransfer checks an order against the current state: the
// source must belong to the ordering player, the destination must border it,
// and at least one army has to stay behind.
func ValidateAttackTransfer(o AttackTransferOrder, gs *GameState, m *Map) error {
	if m.Territories[o.From] == nil {
		return &ValidationError{o, fmt.Sprintf("source territory %d does not exist", o.From)}
	}
	if m.Territories[o.To] == nil {
		return &ValidationError{o, fmt.Sprintf("destination territory %d does not exist", o.To)}
	}
	if owner := gs.OwnerOf(o.From); owner != o.Player {
		return &ValidationError{o, fmt.Sprintf("source is owned by %s", owner)}
	}
	if !m.Adjacent(o.From, o.To) {
		return &ValidationError{o, "territories are not adjacent"}
	}
	if o.Armies <= 0 {
		return &ValidationError{o, "army count must be positive"}
	}
	if o.Armies >= gs.ArmiesOn(o.From) {
		return &ValidationError{o, fmt.Sprintf("cannot move %d of %d armies", o.Armies, gs.ArmiesOn(o.From))}
	}
	return nil
}
