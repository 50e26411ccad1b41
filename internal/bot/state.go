package bot

import (
	"github.com/rs/zerolog"

	"github.com/CarloMagno/Warlight/pkg/warlight"
)

// State is the snapshot a strategy reads for one decision. Strategies must
// not mutate it.
type State struct {
	Me             warlight.Player
	Opponent       warlight.Player
	StartingArmies int
	Round          int
	Map            *warlight.Map
	GameState      *warlight.GameState

	// Log receives per-decision debug output. Nil discards it.
	Log *zerolog.Logger
}

func (st *State) logger() *zerolog.Logger {
	if st.Log == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return st.Log
}

// Owned returns the player's territories in ascending id order.
func (st *State) Owned() []int {
	return st.GameState.OwnedBy(st.Me)
}
