package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/postgres/orderrepo"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type mockAggregateTracker struct{}

func (m *mockAggregateTracker) TrackAggregate(_ kernel.UUID, _ any) {}

type OrderRepositoryTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}, &orderrepo.OrderHistoryDTO{})
	suite.Require().NoError(err)

	suite.repo = orderrepo.NewGormOrderRepository(db, &mockAggregateTracker{})
}

func (suite *OrderRepositoryTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *OrderRepositoryTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items, order_history CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *OrderRepositoryTestSuite) newOrder(method order.PaymentMethod) *order.Order {
	item, err := order.NewItem(
		kernel.NewUUID(),
		"Margherita",
		2,
		decimal.NewFromInt(250),
		[]order.Customization{{Name: "extra cheese", Price: decimal.NewFromInt(50)}},
	)
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		[]order.Item{item},
		"12 Abay Ave",
		"+77011234567",
		method,
		decimal.NewFromInt(40),
		decimal.NewFromInt(5),
		decimal.Zero,
		time.Now().UTC().Truncate(time.Millisecond),
	)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	o := suite.newOrder(order.PaymentMethodCard)

	err := suite.repo.Add(ctx, o)
	suite.Require().NoError(err)

	loaded, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.True(loaded.ID().IsEqual(o.ID()))
	suite.True(loaded.UserID().IsEqual(o.UserID()))
	suite.True(loaded.RestaurantID().IsEqual(o.RestaurantID()))
	suite.Equal(order.StatusPending, loaded.Status())
	suite.Equal("12 Abay Ave", loaded.Address())
	suite.Equal("+77011234567", loaded.Phone())
	suite.Equal(1, loaded.Version())

	suite.Require().Len(loaded.Items(), 1)
	item := loaded.Items()[0]
	suite.Equal("Margherita", item.Name())
	suite.Equal(2, item.Quantity())
	suite.True(item.UnitPrice().Equal(decimal.NewFromInt(250)))
	suite.Require().Len(item.Customizations(), 1)
	suite.Equal("extra cheese", item.Customizations()[0].Name)
	suite.True(item.Customizations()[0].Price.Equal(decimal.NewFromInt(50)))

	// subtotal (250+50)*2 = 600, tax 5% = 30, fee 40
	suite.True(loaded.Pricing().Subtotal().Equal(decimal.NewFromInt(600)))
	suite.True(loaded.Pricing().Total().Equal(decimal.NewFromInt(670)))

	suite.Require().Len(loaded.History(), 1)
	suite.Equal(order.StatusPending, loaded.History()[0].Status)
	suite.Equal("order placed", loaded.History()[0].Note)

	suite.Equal(order.PaymentMethodCard, loaded.Payment().Method())
	suite.Equal(order.PaymentStatusPending, loaded.Payment().Status())
}

func (suite *OrderRepositoryTestSuite) TestGet_NotFound() {
	_, err := suite.repo.Get(context.Background(), kernel.NewUUID())

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryTestSuite) TestUpdate_PersistsTransitionAndHistory() {
	ctx := context.Background()
	o := suite.newOrder(order.PaymentMethodCash)
	suite.Require().NoError(suite.repo.Add(ctx, o))

	loaded, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)

	err = loaded.TransitionTo(order.StatusConfirmed, order.ActorRestaurant, "accepted", time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Update(ctx, loaded))

	reloaded, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusConfirmed, reloaded.Status())
	suite.Equal(2, reloaded.Version())
	suite.Require().Len(reloaded.History(), 2)
	suite.Equal(order.StatusConfirmed, reloaded.History()[1].Status)
}

func (suite *OrderRepositoryTestSuite) TestUpdate_StaleVersionFails() {
	ctx := context.Background()
	o := suite.newOrder(order.PaymentMethodCash)
	suite.Require().NoError(suite.repo.Add(ctx, o))

	first, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	second, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)

	err = first.TransitionTo(order.StatusConfirmed, order.ActorRestaurant, "", time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Update(ctx, first))

	err = second.Cancel(order.ActorUser, "changed my mind", time.Now().UTC())
	suite.Require().NoError(err)
	err = suite.repo.Update(ctx, second)

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrVersionIsInvalid)
}

func (suite *OrderRepositoryTestSuite) TestUpdate_RetriedWriteDoesNotDuplicateHistory() {
	ctx := context.Background()
	o := suite.newOrder(order.PaymentMethodCash)
	suite.Require().NoError(suite.repo.Add(ctx, o))

	loaded, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	err = loaded.TransitionTo(order.StatusConfirmed, order.ActorRestaurant, "", time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Update(ctx, loaded))

	// A second writer that lost the race retries from a fresh read; the
	// history rows it appends already exist and must be ignored.
	reloaded, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	err = reloaded.TransitionTo(order.StatusPreparing, order.ActorRestaurant, "", time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Update(ctx, reloaded))

	final, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Len(final.History(), 3)
}

func (suite *OrderRepositoryTestSuite) TestGetByPaymentIntent() {
	ctx := context.Background()
	o := suite.newOrder(order.PaymentMethodCard)
	suite.Require().NoError(o.BeginPayment("pi_test_123"))
	suite.Require().NoError(suite.repo.Add(ctx, o))

	loaded, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal("pi_test_123", loaded.Payment().IntentID())

	byIntent, err := suite.repo.GetByPaymentIntent(ctx, "pi_test_123")
	suite.Require().NoError(err)
	suite.True(byIntent.ID().IsEqual(o.ID()))

	_, err = suite.repo.GetByPaymentIntent(ctx, "pi_unknown")
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryTestSuite) TestGetFirstPendingUnassigned_PicksOldest() {
	ctx := context.Background()

	newer := suite.newOrder(order.PaymentMethodCash)
	suite.Require().NoError(suite.repo.Add(ctx, newer))

	older := suite.newOrderPlacedAt(time.Now().UTC().Add(-time.Hour))
	suite.Require().NoError(suite.repo.Add(ctx, older))

	assigned := suite.newOrder(order.PaymentMethodCash)
	suite.Require().NoError(assigned.AssignAgent(kernel.NewUUID(), time.Now().UTC()))
	suite.Require().NoError(suite.repo.Add(ctx, assigned))

	found, err := suite.repo.GetFirstPendingUnassigned(ctx)
	suite.Require().NoError(err)
	suite.True(found.ID().IsEqual(older.ID()))
}

func (suite *OrderRepositoryTestSuite) TestGetFirstPendingUnassigned_NoneLeft() {
	_, err := suite.repo.GetFirstPendingUnassigned(context.Background())

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryTestSuite) TestGetRatedOveralls() {
	ctx := context.Background()
	restaurantID := kernel.NewUUID()

	rated := suite.newDeliveredOrderFor(restaurantID)
	suite.Require().NoError(rated.Rate(4, 5, "good", time.Now().UTC()))
	suite.Require().NoError(suite.repo.Add(ctx, rated))

	unrated := suite.newDeliveredOrderFor(restaurantID)
	suite.Require().NoError(suite.repo.Add(ctx, unrated))

	otherRestaurant := suite.newDeliveredOrderFor(kernel.NewUUID())
	suite.Require().NoError(otherRestaurant.Rate(1, 1, "", time.Now().UTC()))
	suite.Require().NoError(suite.repo.Add(ctx, otherRestaurant))

	overalls, err := suite.repo.GetRatedOveralls(ctx, restaurantID)
	suite.Require().NoError(err)
	suite.Require().Len(overalls, 1)
	suite.True(overalls[0].Equal(decimal.RequireFromString("4.5")))
}

func (suite *OrderRepositoryTestSuite) newOrderPlacedAt(placedAt time.Time) *order.Order {
	item, err := order.NewItem(kernel.NewUUID(), "Lagman", 1, decimal.NewFromInt(180), nil)
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		[]order.Item{item},
		"3 Dostyk St",
		"+77029876543",
		order.PaymentMethodCash,
		decimal.NewFromInt(40),
		decimal.NewFromInt(5),
		decimal.Zero,
		placedAt,
	)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryTestSuite) newDeliveredOrderFor(restaurantID kernel.UUID) *order.Order {
	item, err := order.NewItem(kernel.NewUUID(), "Beshbarmak", 1, decimal.NewFromInt(300), nil)
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		restaurantID,
		[]order.Item{item},
		"3 Dostyk St",
		"+77029876543",
		order.PaymentMethodCash,
		decimal.NewFromInt(40),
		decimal.NewFromInt(5),
		decimal.Zero,
		time.Now().UTC(),
	)
	suite.Require().NoError(err)

	now := time.Now().UTC()
	suite.Require().NoError(o.AssignAgent(kernel.NewUUID(), now))
	suite.Require().NoError(o.TransitionTo(order.StatusPreparing, order.ActorRestaurant, "", now))
	suite.Require().NoError(o.TransitionTo(order.StatusOutForDelivery, order.ActorCourier, "", now))
	suite.Require().NoError(o.TransitionTo(order.StatusDelivered, order.ActorCourier, "", now))
	return o
}

func TestOrderRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryTestSuite))
}
