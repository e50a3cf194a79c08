package order_test

import (
	"testing"

	"fooddelivery/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	cases := []struct {
		status   order.Status
		expected string
	}{
		{order.StatusPending, "pending"},
		{order.StatusConfirmed, "confirmed"},
		{order.StatusPreparing, "preparing"},
		{order.StatusOutForDelivery, "out-for-delivery"},
		{order.StatusDelivered, "delivered"},
		{order.StatusCancelled, "cancelled"},
		{order.StatusUnknown, "unknown"},
		{order.Status(42), "unknown"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, tc.status.String())
	}
}

func TestStatusFromString(t *testing.T) {
	t.Run("parses_valid_statuses", func(t *testing.T) {
		status, err := order.StatusFromString("out-for-delivery")

		require.NoError(t, err)
		assert.Equal(t, order.StatusOutForDelivery, status)
	})

	t.Run("rejects_unknown_strings", func(t *testing.T) {
		_, err := order.StatusFromString("shipped")
		require.Error(t, err)

		_, err = order.StatusFromString("unknown")
		require.Error(t, err)
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.StatusDelivered.IsTerminal())
	assert.True(t, order.StatusCancelled.IsTerminal())
	assert.False(t, order.StatusPending.IsTerminal())
	assert.False(t, order.StatusOutForDelivery.IsTerminal())
}

func TestStatus_CanTransitionTo(t *testing.T) {
	t.Run("legal_forward_edges", func(t *testing.T) {
		edges := []struct {
			from, to order.Status
		}{
			{order.StatusPending, order.StatusConfirmed},
			{order.StatusConfirmed, order.StatusPreparing},
			{order.StatusPreparing, order.StatusOutForDelivery},
			{order.StatusOutForDelivery, order.StatusDelivered},
		}

		for _, edge := range edges {
			require.NoError(t, edge.from.CanTransitionTo(edge.to, order.ActorRestaurant),
				"%s -> %s should be legal", edge.from, edge.to)
		}
	})

	t.Run("cancellation_from_early_stages_by_anyone", func(t *testing.T) {
		require.NoError(t, order.StatusPending.CanTransitionTo(order.StatusCancelled, order.ActorUser))
		require.NoError(t, order.StatusConfirmed.CanTransitionTo(order.StatusCancelled, order.ActorRestaurant))
	})

	t.Run("late_cancellation_requires_admin", func(t *testing.T) {
		err := order.StatusPreparing.CanTransitionTo(order.StatusCancelled, order.ActorUser)
		require.Error(t, err)

		require.NoError(t, order.StatusPreparing.CanTransitionTo(order.StatusCancelled, order.ActorAdmin))
		require.NoError(t, order.StatusOutForDelivery.CanTransitionTo(order.StatusCancelled, order.ActorAdmin))
	})

	t.Run("illegal_edges_are_rejected", func(t *testing.T) {
		cases := []struct {
			from, to order.Status
		}{
			{order.StatusPending, order.StatusPreparing},
			{order.StatusPending, order.StatusDelivered},
			{order.StatusConfirmed, order.StatusOutForDelivery},
			{order.StatusDelivered, order.StatusPreparing},
			{order.StatusOutForDelivery, order.StatusConfirmed},
		}

		for _, tc := range cases {
			err := tc.from.CanTransitionTo(tc.to, order.ActorRestaurant)

			require.Error(t, err, "%s -> %s should be illegal", tc.from, tc.to)
			var invalid *order.InvalidTransitionError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.from, invalid.From)
			assert.Equal(t, tc.to, invalid.To)
		}
	})

	t.Run("no_transition_out_of_terminal_even_for_admin", func(t *testing.T) {
		require.Error(t, order.StatusDelivered.CanTransitionTo(order.StatusCancelled, order.ActorAdmin))
		require.Error(t, order.StatusCancelled.CanTransitionTo(order.StatusConfirmed, order.ActorAdmin))
	})
}
