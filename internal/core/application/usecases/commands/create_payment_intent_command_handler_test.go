package commands_test

import (
	"errors"
	"testing"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intentGateways(gateway ports.PaymentGateway) map[order.PaymentMethod]ports.PaymentGateway {
	return map[order.PaymentMethod]ports.PaymentGateway{
		order.PaymentMethodCard:   gateway,
		order.PaymentMethodWallet: gateway,
	}
}

func TestCreatePaymentIntentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	target := testOrder(t, order.PaymentMethodCard)
	cmd, err := commands.NewCreatePaymentIntentCommand(target.ID())
	require.NoError(t, err)

	gateway := new(MockPaymentGateway)
	gateway.On("CreateIntent", ctx, target.ID(), target.Pricing().Total()).
		Return("pi_123", nil).Once()

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

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreatePaymentIntentCommandHandler(factory, intentGateways(gateway))
	intentID, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "pi_123", intentID)
	assert.Equal(t, order.PaymentStatusProcessing, target.Payment().Status())
	assert.Equal(t, "pi_123", target.Payment().IntentID())

	gateway.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreatePaymentIntentCommandHandler_Handle_IdempotentWhileProcessing(t *testing.T) {
	ctx := t.Context()

	target := testOrder(t, order.PaymentMethodCard)
	require.NoError(t, target.BeginPayment("pi_123"))

	cmd, err := commands.NewCreatePaymentIntentCommand(target.ID())
	require.NoError(t, err)

	gateway := new(MockPaymentGateway)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, target.ID()).Return(target, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreatePaymentIntentCommandHandler(factory, intentGateways(gateway))
	intentID, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "pi_123", intentID)
	gateway.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePaymentIntentCommandHandler_Handle_CashOrder(t *testing.T) {
	ctx := t.Context()

	target := testOrder(t, order.PaymentMethodCash)
	cmd, err := commands.NewCreatePaymentIntentCommand(target.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, target.ID()).Return(target, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreatePaymentIntentCommandHandler(
		factory, intentGateways(new(MockPaymentGateway)))
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrNoGatewayForCash)
}

func TestCreatePaymentIntentCommandHandler_Handle_GatewayFailureLeavesPending(t *testing.T) {
	ctx := t.Context()

	target := testOrder(t, order.PaymentMethodWallet)
	cmd, err := commands.NewCreatePaymentIntentCommand(target.ID())
	require.NoError(t, err)

	gateway := new(MockPaymentGateway)
	gateway.On("CreateIntent", ctx, target.ID(), target.Pricing().Total()).
		Return("", errors.New("provider unreachable")).Once()

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, target.ID()).Return(target, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreatePaymentIntentCommandHandler(factory, intentGateways(gateway))
	_, err = handler.Handle(ctx, cmd)

	require.EqualError(t, err, "provider unreachable")
	assert.Equal(t, order.PaymentStatusPending, target.Payment().Status())
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
