package bot

import "github.com/CarloMagno/Warlight/pkg/warlight"

const (
	me  warlight.Player = "player1"
	opp warlight.Player = "player2"
)

// testMap builds a single-super-region map from an edge list.
func testMap(edges ...[2]int) *warlight.Map {
	m := warlight.NewMap()
	m.AddSuperRegion(1, 1)
	for _, e := range edges {
		m.AddTerritory(e[0], 1)
		m.AddTerritory(e[1], 1)
		m.Connect(e[0], e[1])
	}
	return m
}

type holding struct {
	id     int
	owner  warlight.Player
	armies int
}

func testState(hs ...holding) *warlight.GameState {
	gs := &warlight.GameState{}
	for _, h := range hs {
		gs.Set(h.id, h.owner, h.armies)
	}
	return gs
}
