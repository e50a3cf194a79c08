package commands_test

import (
	"testing"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/agent"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateOrderStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	target := testOrder(t, order.PaymentMethodCash)
	driveTo(t, target, order.StatusConfirmed)

	cmd, err := commands.NewUpdateOrderStatusCommand(
		target.ID(), order.StatusPreparing, order.ActorRestaurant, "kitchen started")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, target.ID()).Return(target, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := &capturingPublisher{}
	notifier := &nopNotifier{}
	handler := commands.NewUpdateOrderStatusCommandHandler(factory, publisher, notifier)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StatusPreparing, target.Status())
	assert.Equal(t, "kitchen started", target.History()[len(target.History())-1].Note)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, ports.TrackingOrderStatusUpdated, publisher.events[0].Kind)
	assert.Equal(t, "preparing", publisher.events[0].Status)
	assert.Len(t, notifier.messages, 1)

	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_DeliveredCreditsAgent(t *testing.T) {
	ctx := t.Context()

	target := testOrder(t, order.PaymentMethodCash)
	courier := testIdleAgent(t)
	require.NoError(t, courier.Take(target.ID()))
	require.NoError(t, target.AssignAgent(courier.ID(), target.History()[0].At))
	driveTo(t, target, order.StatusOutForDelivery)

	cmd, err := commands.NewUpdateOrderStatusCommand(
		target.ID(), order.StatusDelivered, order.ActorCourier, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, target.ID()).Return(target, nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		agentRepo.On("Get", ctx, courier.ID()).Return(courier, nil).Once(),
		agentRepo.On("Update", ctx, mock.AnythingOfType("*agent.Agent")).Return(nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateOrderStatusCommandHandler(
		factory, &capturingPublisher{}, &nopNotifier{})
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, target.Status())
	require.NotNil(t, target.Delivery().DeliveredAt())

	// Delivery fee 40, courier share 70%.
	assert.True(t, courier.Earnings().Equal(dec("28")), "earnings = %s", courier.Earnings())
	assert.Equal(t, 1, courier.CompletedDeliveries())
	assert.Equal(t, agent.StateOnlineIdle, courier.State())

	uow.AssertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_IllegalTransition(t *testing.T) {
	ctx := t.Context()

	target := testOrder(t, order.PaymentMethodCash)
	driveTo(t, target, order.StatusDelivered)

	cmd, err := commands.NewUpdateOrderStatusCommand(
		target.ID(), order.StatusPreparing, order.ActorRestaurant, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, target.ID()).Return(target, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := &capturingPublisher{}
	handler := commands.NewUpdateOrderStatusCommandHandler(factory, publisher, &nopNotifier{})
	err = handler.Handle(ctx, cmd)

	var invalid *order.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, publisher.events)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
