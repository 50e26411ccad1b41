package warlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnedByIsSorted(t *testing.T) {
	gs := &GameState{}
	gs.Set(9, "player1", 3)
	gs.Set(2, "player1", 1)
	gs.Set(5, "player2", 4)
	gs.Set(4, "player1", 2)

	assert.Equal(t, []int{2, 4, 9}, gs.OwnedBy("player1"))
	assert.Equal(t, 3, gs.OwnedCount("player1"))
	assert.Equal(t, 6, gs.ArmyCount("player1"))
	assert.Equal(t, Unknown, gs.OwnerOf(100))
}

func TestCloneIsDeep(t *testing.T) {
	gs := &GameState{Round: 3}
	gs.Set(1, "player1", 5)

	c := gs.Clone()
	c.Set(1, "player2", 9)

	assert.Equal(t, Player("player1"), gs.OwnerOf(1))
	assert.Equal(t, 5, gs.ArmiesOn(1))
	assert.Equal(t, 3, c.Round)
}

func TestIncomeCountsFullSuperRegions(t *testing.T) {
	m := StandardMap()
	gs := NewGameState(m, 2)
	for _, id := range m.SuperRegions[Australia].Territories {
		gs.Set(id, "player1", 1)
	}
	// One territory short of South America.
	gs.Set(10, "player1", 1)
	gs.Set(11, "player1", 1)
	gs.Set(12, "player1", 1)

	assert.Equal(t, BaseIncome+2, Income("player1", gs, m))
	assert.Equal(t, BaseIncome, Income("player2", gs, m))
}

func TestVisibleStateHidesDistantTerritories(t *testing.T) {
	m := StandardMap()
	gs := NewGameState(m, 2)
	gs.Set(42, "player1", 4)
	gs.Set(30, "player2", 7)

	vs := VisibleState("player1", gs, m)

	assert.Equal(t, Player("player1"), vs.OwnerOf(42))
	assert.Equal(t, 4, vs.ArmiesOn(42))
	assert.Equal(t, Neutral, vs.OwnerOf(41), "neighbor stays visible")
	assert.Equal(t, 2, vs.ArmiesOn(41))
	assert.Equal(t, Unknown, vs.OwnerOf(30))
	assert.Equal(t, 0, vs.ArmiesOn(30))
}
