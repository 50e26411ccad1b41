package warlight

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SetupMapLines renders m as the setup_map lines a host sends at the start
// of a game. Each edge appears once, under its lower id.
func SetupMapLines(m *Map) []string {
	var srs []string
	srIDs := make([]int, 0, len(m.SuperRegions))
	for id := range m.SuperRegions {
		srIDs = append(srIDs, id)
	}
	sort.Ints(srIDs)
	for _, id := range srIDs {
		srs = append(srs, strconv.Itoa(id), strconv.Itoa(m.SuperRegions[id].Bonus))
	}

	var regions, neighbors []string
	for _, id := range m.TerritoryIDs() {
		t := m.Territories[id]
		regions = append(regions, strconv.Itoa(id), strconv.Itoa(t.SuperRegion))

		var higher []string
		for _, n := range t.Neighbors {
			if n > id {
				higher = append(higher, strconv.Itoa(n))
			}
		}
		if len(higher) > 0 {
			neighbors = append(neighbors, strconv.Itoa(id), strings.Join(higher, ","))
		}
	}

	lines := []string{
		"setup_map super_regions " + strings.Join(srs, " "),
		"setup_map regions " + strings.Join(regions, " "),
		"setup_map neighbors " + strings.Join(neighbors, " "),
	}
	if len(m.Wastelands) > 0 {
		w := make([]string, len(m.Wastelands))
		for i, id := range m.Wastelands {
			w[i] = strconv.Itoa(id)
		}
		lines = append(lines, "setup_map wastelands "+strings.Join(w, " "))
	}
	return lines
}

// UpdateMapLine renders the known territories of gs as an update_map line.
// Territories owned by Unknown are left out.
func UpdateMapLine(gs *GameState) string {
	ids := make([]int, 0, len(gs.Owners))
	for id, p := range gs.Owners {
		if p != Unknown {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	var b strings.Builder
	b.WriteString("update_map")
	for _, id := range ids {
		fmt.Fprintf(&b, " %d %s %d", id, gs.Owners[id], gs.Armies[id])
	}
	return b.String()
}

// ParseIDs parses a whitespace separated list of territory ids.
func ParseIDs(fields []string) ([]int, error) {
	return atois(fields, 0, len(fields))
}
