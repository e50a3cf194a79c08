package cmd

import (
	"log/slog"

	inhttp "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/out/broadcast"
	"fooddelivery/internal/adapters/out/catalog"
	"fooddelivery/internal/adapters/out/notify"
	"fooddelivery/internal/adapters/out/payment"
	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB           *gorm.DB
	uowFactory       postgres.GormUnitOfWorkFactory
	broadcaster      *broadcast.Broadcaster
	notifier         *notify.SlogNotifier
	catalog          *catalog.StaticCatalog
	methodGateways   map[order.PaymentMethod]ports.PaymentGateway
	providerGateways map[string]ports.PaymentGateway
	dispatchSpec     string
	logger           *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	cardGateway := payment.NewHMACGateway(configs.CardGatewayURL, configs.CardGatewaySecret)
	walletGateway := payment.NewSignedEventGateway(configs.WalletGatewayURL, configs.WalletGatewaySecret)

	return CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		broadcaster: broadcast.NewBroadcaster(),
		notifier:    notify.NewSlogNotifier(logger),
		catalog:     catalog.NewStaticCatalog(),
		methodGateways: map[order.PaymentMethod]ports.PaymentGateway{
			order.PaymentMethodCard:   cardGateway,
			order.PaymentMethodWallet: walletGateway,
		},
		providerGateways: map[string]ports.PaymentGateway{
			order.PaymentMethodCard.String():   cardGateway,
			order.PaymentMethodWallet.String(): walletGateway,
		},
		dispatchSpec: configs.DispatchCronSpec,
		logger:       logger,
	}
}

func (c *CompositionRoot) Broadcaster() *broadcast.Broadcaster {
	return c.broadcaster
}

func (c *CompositionRoot) Catalog() *catalog.StaticCatalog {
	return c.catalog
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	var f commands.OrderRestaurantUoWFactory = FuncOrderRestaurantUoWFactory(func() commands.OrderRestaurantUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(f, c.catalog, c.notifier)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderStatusCommandHandler(f, c.broadcaster, c.notifier)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignCourierCommandHandler(f, c.broadcaster)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.broadcaster, c.notifier)
}

func (c *CompositionRoot) CreateSubmitRatingCommandHandler() commands.SubmitRatingCommandHandler {
	var f commands.OrderRestaurantUoWFactory = FuncOrderRestaurantUoWFactory(func() commands.OrderRestaurantUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSubmitRatingCommandHandler(f)
}

func (c *CompositionRoot) CreateCreatePaymentIntentCommandHandler() commands.CreatePaymentIntentCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreatePaymentIntentCommandHandler(f, c.methodGateways)
}

func (c *CompositionRoot) CreateApplyPaymentCallbackCommandHandler() commands.ApplyPaymentCallbackCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyPaymentCallbackCommandHandler(f, c.providerGateways, c.notifier)
}

func (c *CompositionRoot) CreateRefundPaymentCommandHandler() commands.RefundPaymentCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRefundPaymentCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateReportCourierLocationCommandHandler() commands.ReportCourierLocationCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewReportCourierLocationCommandHandler(f, c.broadcaster)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateAssignCourierCommandHandler(), c.dispatchSpec, c.logger)
}

func (c *CompositionRoot) CreateServer() *inhttp.Server {
	return inhttp.NewServer(
		c.CreatePlaceOrderCommandHandler(),
		c.CreateUpdateOrderStatusCommandHandler(),
		c.CreateAssignCourierCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateSubmitRatingCommandHandler(),
		c.CreateCreatePaymentIntentCommandHandler(),
		c.CreateApplyPaymentCallbackCommandHandler(),
		c.CreateRefundPaymentCommandHandler(),
		c.CreateReportCourierLocationCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetActiveOrdersQueryHandler(),
		c.broadcaster,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOrderRestaurantUoWFactory func() commands.OrderRestaurantUoW

func (f FuncOrderRestaurantUoWFactory) Create() commands.OrderRestaurantUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
