package domain

// NoPopularItem is reported when there are no orders to rank.
const NoPopularItem = "None"

// PopularItem is the dish with the largest ordered quantity.
type PopularItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Stats summarises the current order collection.
type Stats struct {
	TotalOrders     int         `json:"total_orders"`
	CompletedOrders int         `json:"completed_orders"`
	TotalRevenue    int         `json:"total_revenue"`
	MostPopularItem PopularItem `json:"most_popular_item"`
}
