package stats

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/models"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/services/orders"
)

// Aggregator derives summary and popularity statistics from the order
// store on demand. Nothing is cached between calls, so results always
// reflect the store's current contents.
type Aggregator struct {
	store orders.Store

	// now is swappable in tests that pin "today".
	now func() time.Time
}

// New creates an aggregator over the given store.
func New(store orders.Store) *Aggregator {
	return &Aggregator{
		store: store,
		now:   time.Now,
	}
}

// Summary computes order counts and revenue, overall and for the current
// local calendar day.
func (a *Aggregator) Summary(ctx context.Context) (models.Summary, error) {
	all, err := a.store.ListAll(ctx)
	if err != nil {
		return models.Summary{}, fmt.Errorf("failed to list orders: %w", err)
	}

	now := a.now()
	var summary models.Summary
	for _, order := range all {
		summary.TotalOrders++
		summary.TotalRevenue += order.Total

		if order.Status == models.StatusPending {
			summary.PendingOrders++
		}

		if sameLocalDay(order.CreatedAt, now) {
			summary.TodayOrders++
			summary.TodayRevenue += order.Total
		}
	}

	return summary, nil
}

// Popularity accumulates occurrence count and revenue per item number over
// every line of every order. The item name is carried from the last line
// that contributed. Results are ordered by count descending; ties keep
// first-encounter order for determinism.
func (a *Aggregator) Popularity(ctx context.Context) ([]models.ItemStat, error) {
	all, err := a.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	byNumber := make(map[int]*models.ItemStat)
	firstSeen := make(map[int]int)

	for _, order := range all {
		for _, line := range order.Lines {
			stat, ok := byNumber[line.Number]
			if !ok {
				stat = &models.ItemStat{Number: line.Number}
				byNumber[line.Number] = stat
				firstSeen[line.Number] = len(firstSeen)
			}
			stat.Name = line.Name
			stat.Count++
			stat.Revenue += line.Price
		}
	}

	result := make([]models.ItemStat, 0, len(byNumber))
	for _, stat := range byNumber {
		result = append(result, *stat)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return firstSeen[result[i].Number] < firstSeen[result[j].Number]
	})

	return result, nil
}

// ExportCSV writes every order as flattened order-line rows, one row per
// cart line.
func (a *Aggregator) ExportCSV(ctx context.Context, w io.Writer) error {
	all, err := a.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}

	writer := csv.NewWriter(w)
	header := []string{
		"order_id", "customer_id", "item_number", "item_name", "item_price",
		"order_total", "status", "created_at", "estimated_minutes",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, order := range all {
		for _, line := range order.Lines {
			record := []string{
				strconv.FormatInt(order.ID, 10),
				order.CustomerID,
				strconv.Itoa(line.Number),
				line.Name,
				strconv.FormatFloat(line.Price, 'f', 2, 64),
				strconv.FormatFloat(order.Total, 'f', 2, 64),
				string(order.Status),
				order.CreatedAt.Format(time.RFC3339),
				strconv.Itoa(order.EstimatedMinutes),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write export row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func sameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
