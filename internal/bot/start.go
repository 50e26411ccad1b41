package bot

import "github.com/CarloMagno/Warlight/pkg/warlight"

// PickStartingRegions chooses up to n territories from pickable. Territories
// in a preferred super region come first, in the order offered; the rest
// are filled with random distinct picks.
func PickStartingRegions(pickable []int, n int, preferred []int, m *warlight.Map) []int {
	if n <= 0 || len(pickable) == 0 {
		return nil
	}
	want := make(map[int]bool, len(preferred))
	for _, sr := range preferred {
		want[sr] = true
	}

	picks := make([]int, 0, n)
	taken := make(map[int]bool, n)
	for _, id := range pickable {
		if len(picks) == n {
			return picks
		}
		if want[m.SuperRegionOf(id)] && !taken[id] {
			picks = append(picks, id)
			taken[id] = true
		}
	}
	for _, i := range botPerm(len(pickable)) {
		if len(picks) == n {
			break
		}
		id := pickable[i]
		if !taken[id] {
			picks = append(picks, id)
			taken[id] = true
		}
	}
	return picks
}
