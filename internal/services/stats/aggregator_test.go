package stats

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/models"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/services/orders"
)

// fixedStore serves a fixed order list so tests fully control timestamps.
type fixedStore struct {
	orders.Store
	all []models.Order
}

func (s *fixedStore) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.all, nil
}

var statsNow = time.Date(2026, 8, 31, 18, 0, 0, 0, time.Local)

func newTestAggregator(all []models.Order) *Aggregator {
	a := New(&fixedStore{all: all})
	a.now = func() time.Time { return statsNow }
	return a
}

func TestSummary(t *testing.T) {
	burger := models.CartLine{Number: 1, Name: "X-Burger", Price: 25.90, PrepMinutes: 15}
	soda := models.CartLine{Number: 15, Name: "Refrigerante", Price: 6.50, PrepMinutes: 2}

	a := newTestAggregator([]models.Order{
		{ID: 1, Lines: []models.CartLine{burger}, Total: 25.90, Status: models.StatusPending, CreatedAt: statsNow.Add(-2 * time.Hour)},
		{ID: 2, Lines: []models.CartLine{burger, soda}, Total: 32.40, Status: models.StatusCompleted, CreatedAt: statsNow.Add(-1 * time.Hour)},
		{ID: 3, Lines: []models.CartLine{soda}, Total: 6.50, Status: models.StatusPending, CreatedAt: statsNow.AddDate(0, 0, -3)},
	})

	summary, err := a.Summary(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, summary.TotalOrders)
	require.Equal(t, 2, summary.PendingOrders)
	require.Equal(t, 2, summary.TodayOrders)
	require.InDelta(t, 64.80, summary.TotalRevenue, 0.001)
	require.InDelta(t, 58.30, summary.TodayRevenue, 0.001)
}

func TestSummary_Empty(t *testing.T) {
	a := newTestAggregator(nil)

	summary, err := a.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.Summary{}, summary)
}

func TestPopularity(t *testing.T) {
	burger := models.CartLine{Number: 1, Name: "X-Burger", Price: 25.90, PrepMinutes: 15}
	bacon := models.CartLine{Number: 3, Name: "X-Bacon", Price: 32.00, PrepMinutes: 18}
	soda := models.CartLine{Number: 15, Name: "Refrigerante", Price: 6.50, PrepMinutes: 2}

	a := newTestAggregator([]models.Order{
		{ID: 1, Lines: []models.CartLine{burger, soda}, CreatedAt: statsNow},
		{ID: 2, Lines: []models.CartLine{soda, soda}, CreatedAt: statsNow},
		{ID: 3, Lines: []models.CartLine{bacon}, CreatedAt: statsNow},
	})

	stats, err := a.Popularity(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 3)

	require.Equal(t, 15, stats[0].Number)
	require.Equal(t, 3, stats[0].Count)
	require.InDelta(t, 19.50, stats[0].Revenue, 0.001)

	// Burger and bacon tie at one each; first encounter wins.
	require.Equal(t, 1, stats[1].Number)
	require.Equal(t, 3, stats[2].Number)
}

func TestPopularity_DuplicateLinesCountSeparately(t *testing.T) {
	burger := models.CartLine{Number: 1, Name: "X-Burger", Price: 25.90, PrepMinutes: 15}

	a := newTestAggregator([]models.Order{
		{ID: 1, Lines: []models.CartLine{burger, burger}, CreatedAt: statsNow},
	})

	stats, err := a.Popularity(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.Equal(t, 2, stats[0].Count)
	require.InDelta(t, 51.80, stats[0].Revenue, 0.001)
}

func TestExportCSV(t *testing.T) {
	burger := models.CartLine{Number: 1, Name: "X-Burger", Price: 25.90, PrepMinutes: 15}
	soda := models.CartLine{Number: 15, Name: "Refrigerante", Price: 6.50, PrepMinutes: 2}

	a := newTestAggregator([]models.Order{
		{
			ID:               7,
			CustomerID:       "5511999990000",
			Lines:            []models.CartLine{burger, soda},
			Total:            32.40,
			EstimatedMinutes: 15,
			Status:           models.StatusPending,
			CreatedAt:        statsNow,
		},
	})

	var buf bytes.Buffer
	require.NoError(t, a.ExportCSV(context.Background(), &buf))

	rows := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, rows, 3)
	require.Equal(t, "order_id,customer_id,item_number,item_name,item_price,order_total,status,created_at,estimated_minutes", rows[0])
	require.Contains(t, rows[1], "7,5511999990000,1,X-Burger,25.90,32.40,pending,")
	require.Contains(t, rows[2], "7,5511999990000,15,Refrigerante,6.50,32.40,pending,")
}
