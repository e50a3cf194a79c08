package commands_test

import (
	"testing"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReportCourierLocationCommandHandler_Handle_WithActiveOrder(t *testing.T) {
	ctx := t.Context()

	tracked := testOrder(t, order.PaymentMethodCash)
	courier := testIdleAgent(t)
	require.NoError(t, courier.Take(tracked.ID()))
	require.NoError(t, tracked.AssignAgent(courier.ID(), tracked.History()[0].At))

	cmd, err := commands.NewReportCourierLocationCommand(courier.ID(), 43.25, 76.95)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		agentRepo.On("Get", ctx, courier.ID()).Return(courier, nil).Once(),
		agentRepo.On("Update", ctx, mock.AnythingOfType("*agent.Agent")).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, tracked.ID()).Return(tracked, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := &capturingPublisher{}
	handler := commands.NewReportCourierLocationCommandHandler(factory, publisher)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)

	require.NotNil(t, tracked.Delivery().CurrentLocation())
	assert.InDelta(t, 43.25, tracked.Delivery().CurrentLocation().Lat(), 1e-9)
	require.NotNil(t, courier.LastLocation())

	require.Len(t, publisher.events, 1)
	assert.Equal(t, ports.TrackingLocationUpdated, publisher.events[0].Kind)
	assert.True(t, publisher.events[0].OrderID.IsEqual(tracked.ID()))

	uow.AssertExpectations(t)
}

func TestReportCourierLocationCommandHandler_Handle_WithoutActiveOrder(t *testing.T) {
	ctx := t.Context()

	courier := testIdleAgent(t)
	cmd, err := commands.NewReportCourierLocationCommand(courier.ID(), 43.25, 76.95)
	require.NoError(t, err)

	agentRepo := new(MockAgentRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		agentRepo.On("Get", ctx, courier.ID()).Return(courier, nil).Once(),
		agentRepo.On("Update", ctx, mock.AnythingOfType("*agent.Agent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := &capturingPublisher{}
	handler := commands.NewReportCourierLocationCommandHandler(factory, publisher)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, courier.LastLocation())
	assert.Empty(t, publisher.events, "pings without an active order are not broadcast")
	uow.AssertExpectations(t)
}

func TestNewReportCourierLocationCommand_InvalidCoordinates(t *testing.T) {
	courier := testIdleAgent(t)

	_, err := commands.NewReportCourierLocationCommand(courier.ID(), 91, 0)
	require.Error(t, err)

	_, err = commands.NewReportCourierLocationCommand(courier.ID(), 0, -181)
	require.Error(t, err)
}
