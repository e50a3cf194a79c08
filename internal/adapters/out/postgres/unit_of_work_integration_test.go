package postgres_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/postgres/agentrepo"
	"fooddelivery/internal/adapters/out/postgres/orderrepo"
	"fooddelivery/internal/adapters/out/postgres/restaurantrepo"
	"fooddelivery/internal/core/domain/model/agent"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/restaurant"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tc_postgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type UnitOfWorkTestSuite struct {
	suite.Suite
	container *tc_postgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tc_postgres.Run(ctx,
		"postgres:15-alpine",
		tc_postgres.WithDatabase("testdb"),
		tc_postgres.WithUsername("testuser"),
		tc_postgres.WithPassword("testpass"),
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

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.OrderHistoryDTO{},
		&agentrepo.AgentDTO{},
		&restaurantrepo.RestaurantDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items, order_history, agents, restaurants CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkTestSuite) newOrder() *order.Order {
	item, err := order.NewItem(kernel.NewUUID(), "Plov", 1, decimal.NewFromInt(300), nil)
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		[]order.Item{item},
		"5 Respublika Ave",
		"+77051112233",
		order.PaymentMethodCash,
		decimal.NewFromInt(40),
		decimal.NewFromInt(5),
		decimal.Zero,
		time.Now().UTC(),
	)
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkTestSuite) newIdleAgent() *agent.Agent {
	a, err := agent.NewAgent(kernel.NewUUID(), kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Require().NoError(a.GoOnline())
	return a
}

func (suite *UnitOfWorkTestSuite) TestCommit_BindsAgentAndOrderAtomically() {
	ctx := context.Background()
	o := suite.newOrder()
	a := suite.newIdleAgent()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(a.Take(o.ID()))
	suite.Require().NoError(o.AssignAgent(a.ID(), time.Now().UTC()))

	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.AgentRepository().Add(ctx, a))
	suite.Require().NoError(uow.Commit(ctx))

	verifier := suite.factory.Create()
	loadedOrder, err := verifier.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusConfirmed, loadedOrder.Status())
	suite.Require().NotNil(loadedOrder.Delivery().AgentID())
	suite.True(loadedOrder.Delivery().AgentID().IsEqual(a.ID()))

	loadedAgent, err := verifier.AgentRepository().Get(ctx, a.ID())
	suite.Require().NoError(err)
	suite.Equal(agent.StateOnlineBusy, loadedAgent.State())
	suite.Require().NotNil(loadedAgent.ActiveOrder())
	suite.True(loadedAgent.ActiveOrder().IsEqual(o.ID()))
}

func (suite *UnitOfWorkTestSuite) TestRollback_DiscardsAllWrites() {
	ctx := context.Background()
	o := suite.newOrder()
	a := suite.newIdleAgent()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.AgentRepository().Add(ctx, a))
	suite.Require().NoError(uow.Rollback(ctx))

	verifier := suite.factory.Create()
	_, err := verifier.OrderRepository().Get(ctx, o.ID())
	suite.Require().Error(err)
	_, err = verifier.AgentRepository().Get(ctx, a.ID())
	suite.Require().Error(err)
}

func (suite *UnitOfWorkTestSuite) TestRestaurantRepository_RoundTrip() {
	ctx := context.Background()

	location, err := kernel.NewGeoPoint(51.128207, 71.430411)
	suite.Require().NoError(err)
	r, err := restaurant.NewRestaurant(
		kernel.NewUUID(),
		"Qazaq Gourmet",
		location,
		decimal.NewFromInt(40),
		decimal.NewFromInt(200),
		decimal.NewFromInt(5),
		45,
	)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.RestaurantRepository().Add(ctx, r))
	suite.Require().NoError(uow.Commit(ctx))

	loaded, err := suite.factory.Create().RestaurantRepository().Get(ctx, r.ID())
	suite.Require().NoError(err)
	suite.Equal("Qazaq Gourmet", loaded.Name())
	suite.True(loaded.MinOrderAmount().Equal(decimal.NewFromInt(200)))
	suite.Equal(0, loaded.RatingCount())
	suite.Equal(1, loaded.Version())
}

func (suite *UnitOfWorkTestSuite) TestBegin_IsIdempotent() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkTestSuite) TestCommit_WithoutBeginFails() {
	uow := suite.factory.Create()

	err := uow.Commit(context.Background())

	suite.Require().Error(err)
	suite.ErrorIs(err, gorm.ErrInvalidTransaction)
}

func TestUnitOfWorkTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkTestSuite))
}
