package warlight

import "sync"

// BaseIncome is the number of armies every player receives per round
// before super region bonuses.
const BaseIncome = 5

// Super region ids on the standard world map.
const (
	NorthAmerica = 1
	SouthAmerica = 2
	Europe       = 3
	Africa       = 4
	Asia         = 5
	Australia    = 6
)

var (
	stdMapOnce sync.Once
	stdMapInst *Map
)

// StandardMap returns the 42-territory world map used by the Warlight AI
// challenge. The map is built once and cached; callers must not mutate it.
func StandardMap() *Map {
	stdMapOnce.Do(func() {
		stdMapInst = buildStandardMap()
	})
	return stdMapInst
}

func buildStandardMap() *Map {
	m := NewMap()

	for _, sr := range []struct{ id, bonus int }{
		{NorthAmerica, 5}, {SouthAmerica, 2}, {Europe, 5},
		{Africa, 3}, {Asia, 7}, {Australia, 2},
	} {
		m.AddSuperRegion(sr.id, sr.bonus)
	}

	// territory id -> super region
	territories := []struct{ id, sr int }{
		// North America: Alaska, Northwest Territory, Greenland, Alberta,
		// Ontario, Quebec, Western US, Eastern US, Central America
		{1, NorthAmerica}, {2, NorthAmerica}, {3, NorthAmerica},
		{4, NorthAmerica}, {5, NorthAmerica}, {6, NorthAmerica},
		{7, NorthAmerica}, {8, NorthAmerica}, {9, NorthAmerica},
		// South America: Venezuela, Peru, Brazil, Argentina
		{10, SouthAmerica}, {11, SouthAmerica}, {12, SouthAmerica}, {13, SouthAmerica},
		// Europe: Iceland, Great Britain, Scandinavia, Ukraine,
		// Western Europe, Northern Europe, Southern Europe
		{14, Europe}, {15, Europe}, {16, Europe}, {17, Europe},
		{18, Europe}, {19, Europe}, {20, Europe},
		// Africa: North Africa, Egypt, East Africa, Congo, South Africa, Madagascar
		{21, Africa}, {22, Africa}, {23, Africa},
		{24, Africa}, {25, Africa}, {26, Africa},
		// Asia: Ural, Siberia, Yakutsk, Kamchatka, Irkutsk, Kazakhstan,
		// China, Mongolia, Japan, Middle East, India, Siam
		{27, Asia}, {28, Asia}, {29, Asia}, {30, Asia},
		{31, Asia}, {32, Asia}, {33, Asia}, {34, Asia},
		{35, Asia}, {36, Asia}, {37, Asia}, {38, Asia},
		// Australia: Indonesia, New Guinea, Western Australia, Eastern Australia
		{39, Australia}, {40, Australia}, {41, Australia}, {42, Australia},
	}
	for _, t := range territories {
		m.AddTerritory(t.id, t.sr)
	}

	edges := [][2]int{
		{1, 2}, {1, 4}, {1, 30},
		{2, 3}, {2, 4}, {2, 5},
		{3, 5}, {3, 6}, {3, 14},
		{4, 5}, {4, 7},
		{5, 6}, {5, 7}, {5, 8},
		{6, 8},
		{7, 8}, {7, 9},
		{8, 9},
		{9, 10},
		{10, 11}, {10, 12},
		{11, 12}, {11, 13},
		{12, 13}, {12, 21},
		{14, 15}, {14, 16},
		{15, 16}, {15, 18}, {15, 19},
		{16, 17}, {16, 19},
		{17, 19}, {17, 20}, {17, 27}, {17, 32}, {17, 36},
		{18, 19}, {18, 20}, {18, 21},
		{19, 20},
		{20, 21}, {20, 22}, {20, 36},
		{21, 22}, {21, 23}, {21, 24},
		{22, 23}, {22, 36},
		{23, 24}, {23, 25}, {23, 26}, {23, 36},
		{24, 25},
		{25, 26},
		{27, 28}, {27, 32}, {27, 33},
		{28, 29}, {28, 31}, {28, 33}, {28, 34},
		{29, 30}, {29, 31},
		{30, 31}, {30, 34}, {30, 35},
		{31, 34},
		{32, 33}, {32, 36}, {32, 37},
		{33, 34}, {33, 37}, {33, 38},
		{34, 35},
		{36, 37},
		{37, 38},
		{38, 39},
		{39, 40}, {39, 41},
		{40, 41}, {40, 42},
		{41, 42},
	}
	for _, e := range edges {
		m.Connect(e[0], e[1])
	}

	return m
}
