package queries_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/postgres/orderrepo"
	"fooddelivery/internal/core/application/usecases/queries"
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

type QueryHandlersTestSuite struct {
	suite.Suite
	container      *postgres.PostgresContainer
	db             *gorm.DB
	orderRepo      *orderrepo.GormOrderRepository
	getOrder       queries.GetOrderQueryHandler
	getActive      queries.GetActiveOrdersQueryHandler
}

func (suite *QueryHandlersTestSuite) SetupSuite() {
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

	suite.orderRepo = orderrepo.NewGormOrderRepository(db, &mockAggregateTracker{})
	suite.getOrder = queries.NewGetOrderQueryHandler(db)
	suite.getActive = queries.NewGetActiveOrdersQueryHandler(db)
}

func (suite *QueryHandlersTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *QueryHandlersTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items, order_history CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *QueryHandlersTestSuite) placeOrder(placedAt time.Time) *order.Order {
	item, err := order.NewItem(
		kernel.NewUUID(),
		"Margherita",
		2,
		decimal.NewFromInt(250),
		nil,
	)
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		[]order.Item{item},
		"12 Abay Ave",
		"+77011234567",
		order.PaymentMethodCard,
		decimal.NewFromInt(40),
		decimal.NewFromInt(5),
		decimal.Zero,
		placedAt,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), o))
	return o
}

func (suite *QueryHandlersTestSuite) TestGetOrder_FullReadModel() {
	o := suite.placeOrder(time.Now().UTC())

	query, err := queries.NewGetOrderQuery(o.ID())
	suite.Require().NoError(err)

	view, err := suite.getOrder.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.True(view.ID.IsEqual(o.ID()))
	suite.True(view.UserID.IsEqual(o.UserID()))
	suite.Equal("pending", view.Status)
	suite.Equal("12 Abay Ave", view.Address)
	suite.Equal("card", view.PaymentMethod)
	suite.Equal("pending", view.PaymentStatus)
	suite.Nil(view.AgentID)
	suite.Nil(view.CurrentLocation)
	suite.Nil(view.RatingOverall)

	// 500 subtotal + 40 fee + 25 tax
	suite.True(view.Subtotal.Equal(decimal.NewFromInt(500)))
	suite.True(view.Total.Equal(decimal.NewFromInt(565)))

	suite.Require().Len(view.Items, 1)
	suite.Equal("Margherita", view.Items[0].Name)
	suite.Equal(2, view.Items[0].Quantity)

	suite.Require().Len(view.History, 1)
	suite.Equal("pending", view.History[0].Status)
	suite.Equal("order placed", view.History[0].Note)
}

func (suite *QueryHandlersTestSuite) TestGetOrder_NotFound() {
	query, err := queries.NewGetOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.getOrder.Handle(context.Background(), query)

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueryHandlersTestSuite) TestGetActiveOrders_ExcludesTerminalAndSortsByPlacement() {
	now := time.Now().UTC()

	second := suite.placeOrder(now)
	first := suite.placeOrder(now.Add(-time.Hour))

	cancelled := suite.placeOrder(now.Add(-2 * time.Hour))
	loaded, err := suite.orderRepo.Get(context.Background(), cancelled.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Cancel(order.ActorUser, "changed my mind", now))
	suite.Require().NoError(suite.orderRepo.Update(context.Background(), loaded))

	result, err := suite.getActive.Handle(context.Background(), queries.NewGetActiveOrdersQuery())
	suite.Require().NoError(err)

	suite.Require().Len(result, 2)
	suite.True(result[0].ID.IsEqual(first.ID()))
	suite.True(result[1].ID.IsEqual(second.ID()))
	suite.Equal("pending", result[0].Status)
	suite.Nil(result[0].AgentID)
}

func (suite *QueryHandlersTestSuite) TestGetActiveOrders_EmptyDatabase() {
	result, err := suite.getActive.Handle(context.Background(), queries.NewGetActiveOrdersQuery())

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func TestQueryHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(QueryHandlersTestSuite))
}
