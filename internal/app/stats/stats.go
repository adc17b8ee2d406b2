package stats

import "github.com/YelzhanWeb/mamantilie/internal/domain"

// Compute summarises orders. The most popular item is the food type with the largest
// total quantity; on a tie the food type that first appears in orders wins.
// With no orders it reports domain.NoPopularItem with quantity 0.
func Compute(orders []*domain.Order) domain.Stats {
	st := domain.Stats{
		TotalOrders:     len(orders),
		MostPopularItem: domain.PopularItem{Name: domain.NoPopularItem},
	}

	quantities := make(map[string]int)
	var firstSeen []string

	for _, o := range orders {
		if o.Completed {
			st.CompletedOrders++
		}
		st.TotalRevenue += o.Price

		if _, ok := quantities[o.FoodType]; !ok {
			firstSeen = append(firstSeen, o.FoodType)
		}
		quantities[o.FoodType] += o.Quantity
	}

	for i, food := range firstSeen {
		if i == 0 || quantities[food] > st.MostPopularItem.Quantity {
			st.MostPopularItem = domain.PopularItem{Name: food, Quantity: quantities[food]}
		}
	}

	return st
}
