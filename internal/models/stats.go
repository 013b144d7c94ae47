package models

// Summary aggregates order counts and revenue, overall and for the current
// local calendar day.
type Summary struct {
	TotalOrders   int     `json:"total_orders"`
	PendingOrders int     `json:"pending_orders"`
	TodayOrders   int     `json:"today_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
	TodayRevenue  float64 `json:"today_revenue"`
}

// ItemStat is the popularity entry for one menu item number across all
// order lines.
type ItemStat struct {
	Number  int     `json:"number"`
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}
