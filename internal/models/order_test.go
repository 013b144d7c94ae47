package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"pending", "preparing", "completed", "cancelled"} {
		status, err := ParseStatus(raw)
		require.NoError(t, err)
		require.Equal(t, OrderStatus(raw), status)
	}

	for _, raw := range []string{"", "shipped", "Pending", "PENDING"} {
		_, err := ParseStatus(raw)
		require.Error(t, err)
	}
}

func TestEstimatedMinutes_SlowestLineGates(t *testing.T) {
	lines := []CartLine{
		{Number: 1, PrepMinutes: 15},
		{Number: 3, PrepMinutes: 18},
		{Number: 15, PrepMinutes: 2},
	}
	require.Equal(t, 18, EstimatedMinutes(lines))
	require.Equal(t, 0, EstimatedMinutes(nil))
}

func TestLinesTotal(t *testing.T) {
	lines := []CartLine{
		{Price: 25.90},
		{Price: 32.00},
		{Price: 6.50},
	}
	require.InDelta(t, 64.40, LinesTotal(lines), 0.001)
	require.Zero(t, LinesTotal(nil))
}

func TestOrderClone_Independent(t *testing.T) {
	order := Order{
		ID:    1,
		Lines: []CartLine{{Number: 1, Name: "X-Burger"}},
	}

	clone := order.Clone()
	clone.Lines[0].Name = "mutated"

	require.Equal(t, "X-Burger", order.Lines[0].Name)
}
