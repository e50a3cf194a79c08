package commands_test

import (
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/agent"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/restaurant"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testOrder(t *testing.T, method order.PaymentMethod) *order.Order {
	t.Helper()

	item, err := order.NewItem(kernel.NewUUID(), "Margherita", 2, dec("250"), nil)
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		[]order.Item{item},
		"12 Abay Ave",
		"+77011234567",
		method,
		dec("40"),
		dec("5"),
		decimal.Zero,
		time.Now(),
	)
	require.NoError(t, err)
	return o
}

// driveTo walks the order forward along the legal chain until it reaches the
// target status. Stages the order has already passed are skipped, so it works
// from any starting point, including an order that AssignAgent auto-confirmed.
func driveTo(t *testing.T, o *order.Order, target order.Status) {
	t.Helper()

	chain := []order.Status{
		order.StatusConfirmed,
		order.StatusPreparing,
		order.StatusOutForDelivery,
		order.StatusDelivered,
	}
	for _, next := range chain {
		if o.Status() == target {
			return
		}
		if next <= o.Status() {
			continue
		}
		require.NoError(t, o.TransitionTo(next, order.ActorRestaurant, "", time.Now()))
	}
	require.Equal(t, target, o.Status())
}

func testIdleAgent(t *testing.T) *agent.Agent {
	t.Helper()

	a, err := agent.NewAgent(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	require.NoError(t, a.GoOnline())
	return a
}

func testRestaurant(t *testing.T) *restaurant.Restaurant {
	t.Helper()

	location, err := kernel.NewGeoPoint(43.238949, 76.889709)
	require.NoError(t, err)

	r, err := restaurant.NewRestaurant(
		kernel.NewUUID(),
		"Qazaq Gourmet",
		location,
		dec("40"),
		dec("200"),
		dec("5"),
		45,
	)
	require.NoError(t, err)
	return r
}
