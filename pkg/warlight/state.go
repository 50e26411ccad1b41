package warlight

import "sort"

// Player identifies a participant by the name the host engine assigns.
type Player string

const (
	Neutral Player = "neutral"
	Unknown Player = "unknown" // territory hidden by fog of war
)

// GameState is the mutable part of a game: who owns each territory and how
// many armies stand on it. The map shape lives in Map.
type GameState struct {
	Round  int            `json:"round"`
	Owners map[int]Player `json:"owners"`
	Armies map[int]int    `json:"armies"`
}

// NewGameState returns a state where every territory of m is neutral with
// the given army count.
func NewGameState(m *Map, neutralArmies int) *GameState {
	gs := &GameState{
		Owners: make(map[int]Player, len(m.Territories)),
		Armies: make(map[int]int, len(m.Territories)),
	}
	for id := range m.Territories {
		gs.Owners[id] = Neutral
		gs.Armies[id] = neutralArmies
	}
	return gs
}

// OwnerOf returns the owner of a territory. Territories without a recorded
// owner read as Unknown.
func (gs *GameState) OwnerOf(id int) Player {
	p, ok := gs.Owners[id]
	if !ok {
		return Unknown
	}
	return p
}

// OwnedByPlayer reports whether id is owned by p.
func (gs *GameState) OwnedByPlayer(id int, p Player) bool {
	return gs.OwnerOf(id) == p
}

// ArmiesOn returns the army count on a territory (0 if unknown).
func (gs *GameState) ArmiesOn(id int) int {
	return gs.Armies[id]
}

// Set records the owner and army count of a territory.
func (gs *GameState) Set(id int, owner Player, armies int) {
	if gs.Owners == nil {
		gs.Owners = make(map[int]Player)
	}
	if gs.Armies == nil {
		gs.Armies = make(map[int]int)
	}
	gs.Owners[id] = owner
	gs.Armies[id] = armies
}

// OwnedBy returns the ids owned by p in ascending order.
func (gs *GameState) OwnedBy(p Player) []int {
	var ids []int
	for id, owner := range gs.Owners {
		if owner == p {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// OwnedCount returns the number of territories owned by p.
func (gs *GameState) OwnedCount(p Player) int {
	count := 0
	for _, owner := range gs.Owners {
		if owner == p {
			count++
		}
	}
	return count
}

// ArmyCount returns the total armies p has on the board.
func (gs *GameState) ArmyCount(p Player) int {
	total := 0
	for id, owner := range gs.Owners {
		if owner == p {
			total += gs.Armies[id]
		}
	}
	return total
}

// Clone returns a deep copy. Mutations to the clone do not affect gs.
func (gs *GameState) Clone() *GameState {
	c := &GameState{
		Round:  gs.Round,
		Owners: make(map[int]Player, len(gs.Owners)),
		Armies: make(map[int]int, len(gs.Armies)),
	}
	for k, v := range gs.Owners {
		c.Owners[k] = v
	}
	for k, v := range gs.Armies {
		c.Armies[k] = v
	}
	return c
}

// Income returns the armies p receives at the start of a round: the base
// amount plus the bonus of every super region p fully owns.
func Income(p Player, gs *GameState, m *Map) int {
	income := BaseIncome
	for _, sr := range m.SuperRegions {
		if len(sr.Territories) == 0 {
			continue
		}
		owned := true
		for _, id := range sr.Territories {
			if gs.OwnerOf(id) != p {
				owned = false
				break
			}
		}
		if owned {
			income += sr.Bonus
		}
	}
	return income
}

// VisibleState returns what p can see: its own territories and their
// neighbors keep owner and armies, everything else reads Unknown with 0
// armies.
func VisibleState(p Player, gs *GameState, m *Map) *GameState {
	vs := &GameState{
		Round:  gs.Round,
		Owners: make(map[int]Player, len(m.Territories)),
		Armies: make(map[int]int, len(m.Territories)),
	}
	for id := range m.Territories {
		vs.Owners[id] = Unknown
	}
	for _, id := range gs.OwnedBy(p) {
		vs.Owners[id] = p
		vs.Armies[id] = gs.ArmiesOn(id)
		for _, n := range m.Neighbors(id) {
			vs.Owners[n] = gs.OwnerOf(n)
			vs.Armies[n] = gs.ArmiesOn(n)
		}
	}
	return vs
}
