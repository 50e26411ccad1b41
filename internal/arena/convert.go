package arena

import (
	"sort"

	"github.com/CarloMagno/Warlight/internal/model"
	"github.com/CarloMagno/Warlight/pkg/warlight"
)

// Model conversion helpers

func ordersToModel(places [2][]warlight.PlaceOrder, resolved []warlight.ResolvedOrder) []model.Order {
	var orders []model.Order
	for _, list := range places {
		for _, o := range list {
			orders = append(orders, model.Order{
				Player: string(o.Player),
				Kind:   model.OrderPlace,
				To:     o.Territory,
				Armies: o.Armies,
			})
		}
	}
	for _, r := range resolved {
		orders = append(orders, model.Order{
			Player:  string(r.Order.Player),
			Kind:    model.OrderAttackTransfer,
			From:    r.Order.From,
			To:      r.Order.To,
			Armies:  r.Order.Armies,
			Outcome: string(r.Outcome),
		})
	}
	return orders
}

func ordersByPlayer(orders []model.Order) map[string][]model.Order {
	out := make(map[string][]model.Order)
	for _, o := range orders {
		out[o.Player] = append(out[o.Player], o)
	}
	return out
}

func sortedSuperRegions(m *warlight.Map) []int {
	ids := make([]int, 0, len(m.SuperRegions))
	for id := range m.SuperRegions {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
