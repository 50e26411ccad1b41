package bot

import (
	"fmt"
	"sort"

	"github.com/CarloMagno/Warlight/pkg/warlight"
)

// TroopAdvantage is a territory's units minus the units of its strongest
// neighbor the player does not own. Negative means outnumbered.
type TroopAdvantage struct {
	Territory    int
	Differential int
}

func (a TroopAdvantage) String() string {
	return fmt.Sprintf("%d:%+d", a.Territory, a.Differential)
}

// RankAdvantages computes the differential of each territory and returns
// them sorted ascending (most outnumbered first). Ties keep input order.
func RankAdvantages(ids []int, player warlight.Player, gs *warlight.GameState, m *warlight.Map) []TroopAdvantage {
	if len(ids) == 0 {
		return nil
	}
	ranked := make([]TroopAdvantage, 0, len(ids))
	for _, id := range ids {
		strongest := 0
		for _, n := range m.Neighbors(id) {
			if gs.OwnerOf(n) == player {
				continue
			}
			if a := gs.ArmiesOn(n); a > strongest {
				strongest = a
			}
		}
		ranked = append(ranked, TroopAdvantage{Territory: id, Differential: gs.ArmiesOn(id) - strongest})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Differential < ranked[j].Differential
	})
	return ranked
}
