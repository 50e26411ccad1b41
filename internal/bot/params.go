package bot

import "github.com/CarloMagno/Warlight/internal/config"

// Params tunes the attack/transfer planner and starting picks.
type Params struct {
	// ComboMinTroops is the strict lower bound on units for both partners
	// of a pincer attack.
	ComboMinTroops int
	// ComboCoverRate bounds the target: target units must be at most this
	// fraction of the partner's units.
	ComboCoverRate float64
	// ComboAttackRate is the fraction of present units a combo commits.
	ComboAttackRate float64
	// SuccessRate drives the defensive strike size:
	// required = ceil(target / (1 - SuccessRate)).
	SuccessRate float64
	// SuperiorityRate gates expansion: target < SuperiorityRate * present.
	SuperiorityRate float64
	// ExpansionRate is the fraction of present units an expansion commits.
	ExpansionRate float64
	// GarrisonFloor is the unit count at or below which an origin stops
	// attacking.
	GarrisonFloor int
	// WorldDominanceLimit disables redistribution once the player owns at
	// least this many territories.
	WorldDominanceLimit int
	// PreferredSuperRegions are picked first at the start of a game.
	PreferredSuperRegions []int
}

// DefaultParams returns the tuning the bot ships with.
func DefaultParams() Params {
	return Params{
		ComboMinTroops:        12,
		ComboCoverRate:        0.85,
		ComboAttackRate:       0.85,
		SuccessRate:           0.7,
		SuperiorityRate:       0.6,
		ExpansionRate:         0.8,
		GarrisonFloor:         2,
		WorldDominanceLimit:   30,
		PreferredSuperRegions: []int{2, 6},
	}
}

// ParamsFromConfig maps the planner section of the configuration onto Params.
func ParamsFromConfig(c config.PlannerConfig) Params {
	return Params{
		ComboMinTroops:        c.ComboMinTroops,
		ComboCoverRate:        c.ComboCoverRate,
		ComboAttackRate:       c.ComboAttackRate,
		SuccessRate:           c.SuccessRate,
		SuperiorityRate:       c.SuperiorityRate,
		ExpansionRate:         c.ExpansionRate,
		GarrisonFloor:         c.GarrisonFloor,
		WorldDominanceLimit:   c.WorldDominanceLimit,
		PreferredSuperRegions: append([]int(nil), c.PreferredSuperRegions...),
	}
}
