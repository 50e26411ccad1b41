package bot

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/CarloMagno/Warlight/pkg/warlight"
)

// rule names the planner rule that produced an attack.
type rule string

const (
	ruleNone      rule = ""
	ruleCombo     rule = "combo"
	ruleDefense   rule = "defense"
	ruleExpansion rule = "expansion"
	ruleTransfer  rule = "transfer"
)

// Plan emits this turn's attack and transfer orders for the player's
// territories. Origins are visited in ascending id order and their
// neighbors in adjacency order. Each origin tracks the units still present
// after its own earlier orders; no order ever empties a territory.
func Plan(owned []int, player, opponent warlight.Player, gs *warlight.GameState, m *warlight.Map, p Params) []warlight.AttackTransferOrder {
	nop := zerolog.Nop()
	return plan(owned, player, opponent, gs, m, p, &nop)
}

func plan(owned []int, player, opponent warlight.Player, gs *warlight.GameState, m *warlight.Map, p Params, log *zerolog.Logger) []warlight.AttackTransferOrder {
	if len(owned) == 0 {
		return nil
	}
	origins := sortedCopy(owned)
	ownedCount := gs.OwnedCount(player)

	var orders []warlight.AttackTransferOrder
	for _, origin := range origins {
		if gs.OwnerOf(origin) != player {
			continue
		}
		neighbors := m.Neighbors(origin)
		if len(neighbors) == 0 {
			continue
		}
		present := gs.ArmiesOn(origin)
		threatened := IsThreatened(origin, opponent, gs, m)

		for _, target := range neighbors {
			if present <= p.GarrisonFloor {
				break
			}
			commit, r := p.attackSize(origin, target, present, threatened, player, opponent, gs, m)
			if commit > present-1 {
				commit = present - 1
			}
			if commit <= 0 {
				continue
			}
			orders = append(orders, warlight.AttackTransferOrder{Player: player, From: origin, To: target, Armies: commit})
			present -= commit
			log.Debug().Str("rule", string(r)).Int("from", origin).Int("to", target).
				Int("armies", commit).Int("left", present).Msg("attack")
		}

		if ownedCount < p.WorldDominanceLimit && IsSafe(origin, player, gs, m) {
			moves := redistribute(origin, present, player, gs, m)
			for _, o := range moves {
				log.Debug().Str("rule", string(ruleTransfer)).Int("from", o.From).Int("to", o.To).
					Int("armies", o.Armies).Msg("transfer")
			}
			orders = append(orders, moves...)
		}
	}
	return orders
}

// attackSize applies the attack rules in priority order and returns the
// units to commit from origin against target, with the rule that fired.
func (p Params) attackSize(origin, target, present int, threatened bool, player, opponent warlight.Player, gs *warlight.GameState, m *warlight.Map) (int, rule) {
	owner := gs.OwnerOf(target)
	units := gs.ArmiesOn(target)

	if owner == opponent && p.comboChance(origin, target, present, player, gs, m) {
		return int(float64(present) * p.ComboAttackRate), ruleCombo
	}
	if owner == opponent && threatened {
		required := p.requiredArmies(units)
		if present > required {
			return required, ruleDefense
		}
		return 0, ruleNone
	}
	if owner != player && !threatened && present > p.GarrisonFloor &&
		float64(units) < p.SuperiorityRate*float64(present) {
		return int(float64(present) * p.ExpansionRate), ruleExpansion
	}
	return 0, ruleNone
}

// comboChance reports whether another owned territory adjacent to target can
// join origin in a pincer attack. Both sides must cover the target on their
// own: origin with its present units, the partner with the units the state
// shows.
func (p Params) comboChance(origin, target, present int, player warlight.Player, gs *warlight.GameState, m *warlight.Map) bool {
	if present <= p.ComboMinTroops {
		return false
	}
	units := float64(gs.ArmiesOn(target))
	if units > p.ComboCoverRate*float64(present) {
		return false
	}
	for _, partner := range m.Neighbors(target) {
		if partner == origin || gs.OwnerOf(partner) != player {
			continue
		}
		armies := gs.ArmiesOn(partner)
		if armies > p.ComboMinTroops && units <= p.ComboCoverRate*float64(armies) {
			return true
		}
	}
	return false
}

// requiredArmies is the strike size that wins against target units with
// the configured success rate. At least one army is always required.
func (p Params) requiredArmies(target int) int {
	if p.SuccessRate >= 1 {
		return math.MaxInt
	}
	n := int(math.Ceil(float64(target) / (1 - p.SuccessRate)))
	if n < 1 {
		n = 1
	}
	return n
}

// redistribute moves the spare units of a safe origin toward owned
// neighbors that border someone else, or evenly to all neighbors when none
// do.
func redistribute(origin, present int, player warlight.Player, gs *warlight.GameState, m *warlight.Map) []warlight.AttackTransferOrder {
	spare := present - 1
	if spare <= 0 {
		return nil
	}
	neighbors := m.Neighbors(origin)
	var frontier []int
	for _, n := range neighbors {
		if gs.OwnerOf(n) == player && !IsSafe(n, player, gs, m) {
			frontier = append(frontier, n)
		}
	}
	dest := frontier
	if len(dest) == 0 {
		dest = neighbors
	}
	if len(dest) == 0 {
		return nil
	}
	chunk := spare / len(dest)
	if chunk <= 0 {
		return nil
	}
	orders := make([]warlight.AttackTransferOrder, 0, len(dest))
	for _, to := range dest {
		orders = append(orders, warlight.AttackTransferOrder{Player: player, From: origin, To: to, Armies: chunk})
	}
	return orders
}

func sortedCopy(ids []int) []int {
	out := append([]int(nil), ids...)
	sort.Ints(out)
	return out
}
