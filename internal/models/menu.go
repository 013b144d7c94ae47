package models

// MenuItem is one orderable dish in the catalog. Immutable once loaded.
type MenuItem struct {
	Number      int     `json:"number"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	PrepMinutes int     `json:"prep_minutes"`
}

// CartLine is a denormalized snapshot of a MenuItem copied into a cart at
// add-time, so later menu edits never change an in-flight order.
type CartLine struct {
	Number      int     `json:"number"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	PrepMinutes int     `json:"prep_minutes"`
}

// NewCartLine snapshots a menu item into a cart line.
func NewCartLine(item MenuItem) CartLine {
	return CartLine{
		Number:      item.Number,
		Name:        item.Name,
		Price:       item.Price,
		PrepMinutes: item.PrepMinutes,
	}
}

// LinesTotal sums the prices of the given lines.
func LinesTotal(lines []CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Price
	}
	return total
}

// EstimatedMinutes returns the prep time of the slowest line. The slowest
// dish gates the whole order, it is a max and not a sum.
func EstimatedMinutes(lines []CartLine) int {
	max := 0
	for _, line := range lines {
		if line.PrepMinutes > max {
			max = line.PrepMinutes
		}
	}
	return max
}
