package warlight

import "sort"

// Territory is a single ownable region on the map. Its shape (super region
// and neighbors) is fixed once the map is built.
type Territory struct {
	ID          int
	SuperRegion int
	Neighbors   []int // adjacency in insertion order
}

// SuperRegion groups territories; owning all of them grants Bonus armies
// per round.
type SuperRegion struct {
	ID          int
	Bonus       int
	Territories []int
}

// Map holds the territory graph. Territories and super regions are
// addressed by stable integer id.
type Map struct {
	Territories  map[int]*Territory
	SuperRegions map[int]*SuperRegion
	Wastelands   []int
}

// NewMap returns an empty map ready for AddSuperRegion/AddTerritory/Connect.
func NewMap() *Map {
	return &Map{
		Territories:  make(map[int]*Territory),
		SuperRegions: make(map[int]*SuperRegion),
	}
}

// AddSuperRegion registers a super region. Re-adding an id updates its bonus.
func (m *Map) AddSuperRegion(id, bonus int) *SuperRegion {
	if sr, ok := m.SuperRegions[id]; ok {
		sr.Bonus = bonus
		return sr
	}
	sr := &SuperRegion{ID: id, Bonus: bonus}
	m.SuperRegions[id] = sr
	return sr
}

// AddTerritory registers a territory inside a super region, creating the
// super region with a zero bonus if it is not known yet.
func (m *Map) AddTerritory(id, superRegion int) *Territory {
	if t, ok := m.Territories[id]; ok {
		return t
	}
	sr, ok := m.SuperRegions[superRegion]
	if !ok {
		sr = m.AddSuperRegion(superRegion, 0)
	}
	t := &Territory{ID: id, SuperRegion: superRegion}
	m.Territories[id] = t
	sr.Territories = append(sr.Territories, id)
	return t
}

// Connect adds a symmetric adjacency between a and b. Unknown ids and
// duplicate edges are ignored.
func (m *Map) Connect(a, b int) {
	ta, tb := m.Territories[a], m.Territories[b]
	if ta == nil || tb == nil || a == b {
		return
	}
	if !containsID(ta.Neighbors, b) {
		ta.Neighbors = append(ta.Neighbors, b)
	}
	if !containsID(tb.Neighbors, a) {
		tb.Neighbors = append(tb.Neighbors, a)
	}
}

// Neighbors returns the adjacency list of a territory, or nil if unknown.
// Callers must not mutate the returned slice.
func (m *Map) Neighbors(id int) []int {
	t := m.Territories[id]
	if t == nil {
		return nil
	}
	return t.Neighbors
}

// Adjacent reports whether a and b share a border.
func (m *Map) Adjacent(a, b int) bool {
	return containsID(m.Neighbors(a), b)
}

// SuperRegionOf returns the super region id of a territory, or 0 if unknown.
func (m *Map) SuperRegionOf(id int) int {
	t := m.Territories[id]
	if t == nil {
		return 0
	}
	return t.SuperRegion
}

// TerritoryIDs returns all territory ids in ascending order.
func (m *Map) TerritoryIDs() []int {
	ids := make([]int, 0, len(m.Territories))
	for id := range m.Territories {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func containsID(ids []int, id int) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
