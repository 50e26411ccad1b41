package warlight

import "math/rand"

// Combat odds of the Warlight luck model: every attacking army destroys a
// defender with AttackerKillRate, every defending army destroys an attacker
// with DefenderKillRate.
const (
	AttackerKillRate = 0.6
	DefenderKillRate = 0.7
)

// Outcome is the result of a single attack/transfer after resolution.
type Outcome string

const (
	OutcomeTransferred Outcome = "transferred"
	OutcomeCaptured    Outcome = "captured"
	OutcomeRepelled    Outcome = "repelled"
	OutcomeSkipped     Outcome = "skipped"
)

// ResolvedOrder pairs an order with what happened to it.
type ResolvedOrder struct {
	Order          AttackTransferOrder `json:"order"`
	Outcome        Outcome             `json:"outcome"`
	AttackerLosses int                 `json:"attackerLosses"`
	DefenderLosses int                 `json:"defenderLosses"`
}

// Resolver applies orders to a game state. It is not safe for concurrent
// use because it owns its random source.
type Resolver struct {
	rng *rand.Rand
}

// NewResolver creates a resolver drawing combat luck from rng.
func NewResolver(rng *rand.Rand) *Resolver {
	return &Resolver{rng: rng}
}

// ApplyPlacements deploys armies. Placements on territories the player no
// longer owns are dropped.
func (r *Resolver) ApplyPlacements(orders []PlaceOrder, gs *GameState) {
	for _, o := range orders {
		if o.Armies <= 0 || gs.OwnerOf(o.Territory) != o.Player {
			continue
		}
		gs.Armies[o.Territory] += o.Armies
	}
}

// ResolveAttackTransfers executes orders in sequence. The army count of each
// order is capped to what is left on the source minus one; orders whose
// source changed hands or is empty are skipped.
func (r *Resolver) ResolveAttackTransfers(orders []AttackTransferOrder, gs *GameState, m *Map) []ResolvedOrder {
	results := make([]ResolvedOrder, 0, len(orders))
	for _, o := range orders {
		results = append(results, r.resolveOne(o, gs, m))
	}
	return results
}

func (r *Resolver) resolveOne(o AttackTransferOrder, gs *GameState, m *Map) ResolvedOrder {
	res := ResolvedOrder{Order: o, Outcome: OutcomeSkipped}
	if gs.OwnerOf(o.From) != o.Player || !m.Adjacent(o.From, o.To) {
		return res
	}
	armies := o.Armies
	if avail := gs.ArmiesOn(o.From) - 1; armies > avail {
		armies = avail
	}
	if armies <= 0 {
		return res
	}

	if gs.OwnerOf(o.To) == o.Player {
		gs.Armies[o.From] -= armies
		gs.Armies[o.To] += armies
		res.Outcome = OutcomeTransferred
		return res
	}

	defenders := gs.ArmiesOn(o.To)
	defLoss := r.kills(armies, AttackerKillRate)
	if defLoss > defenders {
		defLoss = defenders
	}
	attLoss := r.kills(defenders, DefenderKillRate)
	if attLoss > armies {
		attLoss = armies
	}
	res.AttackerLosses, res.DefenderLosses = attLoss, defLoss

	survivors := armies - attLoss
	if defLoss == defenders && survivors > 0 {
		gs.Armies[o.From] -= armies
		gs.Set(o.To, o.Player, survivors)
		res.Outcome = OutcomeCaptured
		return res
	}
	gs.Armies[o.From] -= attLoss
	gs.Armies[o.To] = defenders - defLoss
	res.Outcome = OutcomeRepelled
	return res
}

// kills draws a binomial(n, p) sample.
func (r *Resolver) kills(n int, p float64) int {
	k := 0
	for i := 0; i < n; i++ {
		if r.rng.Float64() < p {
			k++
		}
	}
	return k
}
