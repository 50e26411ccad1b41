package bot

import "github.com/CarloMagno/Warlight/pkg/warlight"

// Allocate splits total new armies over ranked territories (as returned by
// RankAdvantages). When some territories are outnumbered, only they share
// the pool, in proportion to their deficit. Otherwise every territory gets
// a share in proportion to its differential. Whatever integer truncation
// leaves over goes to ranked[0]. The returned orders sum to total.
func Allocate(ranked []TroopAdvantage, total int, player warlight.Player) []warlight.PlaceOrder {
	if len(ranked) == 0 || total <= 0 {
		return nil
	}

	pool := ranked
	for i, a := range ranked {
		if a.Differential >= 0 {
			pool = ranked[:i]
			break
		}
	}
	if len(pool) == 0 {
		pool = ranked
	}
	sum := 0
	for _, a := range pool {
		sum += a.Differential
	}

	var orders []warlight.PlaceOrder
	left := total
	if sum != 0 {
		for _, a := range pool {
			share := total * a.Differential / sum
			if share <= 0 || share > left {
				continue
			}
			orders = append(orders, warlight.PlaceOrder{Player: player, Territory: a.Territory, Armies: share})
			left -= share
		}
	}
	if left > 0 {
		orders = addPlacement(orders, player, ranked[0].Territory, left)
	}
	return orders
}

// addPlacement merges armies into an existing order for territory, or
// appends a new one.
func addPlacement(orders []warlight.PlaceOrder, player warlight.Player, territory, armies int) []warlight.PlaceOrder {
	for i := range orders {
		if orders[i].Territory == territory {
			orders[i].Armies += armies
			return orders
		}
	}
	return append(orders, warlight.PlaceOrder{Player: player, Territory: territory, Armies: armies})
}
