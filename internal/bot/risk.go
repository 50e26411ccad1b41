package bot

import "github.com/CarloMagno/Warlight/pkg/warlight"

// IsSafe reports whether every neighbor of id is owned by player. A
// territory with no neighbors is safe.
func IsSafe(id int, player warlight.Player, gs *warlight.GameState, m *warlight.Map) bool {
	for _, n := range m.Neighbors(id) {
		if gs.OwnerOf(n) != player {
			return false
		}
	}
	return true
}

// IsThreatened reports whether at least one neighbor of id is owned by the
// opponent. Neutral and hidden neighbors never threaten.
func IsThreatened(id int, opponent warlight.Player, gs *warlight.GameState, m *warlight.Map) bool {
	for _, n := range m.Neighbors(id) {
		if gs.OwnerOf(n) == opponent {
			return true
		}
	}
	return false
}
