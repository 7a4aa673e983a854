package cmd

import (
	"log/slog"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/in/ws"
	"dispatch/internal/adapters/out/channels"
	"dispatch/internal/adapters/out/geo"
	"dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/notificationrepo"
	"dispatch/internal/adapters/out/postgres/userrepo"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/events"
	"dispatch/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger
	bus        *events.Bus
	hub        *ws.Hub
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		bus:        events.NewBus(logger),
		hub:        ws.NewHub(logger),
	}
}

// Bus is the in-process event bus every committed domain event goes through.
func (c *CompositionRoot) Bus() *events.Bus {
	return c.bus
}

// Hub is the websocket fan-out registry for realtime tracking.
func (c *CompositionRoot) Hub() *ws.Hub {
	return c.hub
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(f, c.bus)
}

func (c *CompositionRoot) CreateCreateAssignmentCommandHandler() commands.CreateAssignmentCommandHandler {
	var f commands.AssignmentUoWFactory = FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateAssignmentCommandHandler(f, c.createCandidateRanker(), c.config.AssignmentPolicy(), c.bus)
}

func (c *CompositionRoot) CreateRespondToOfferCommandHandler() commands.RespondToOfferCommandHandler {
	var f commands.AssignmentUoWFactory = FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRespondToOfferCommandHandler(f, c.createCandidateRanker(), c.bus)
}

func (c *CompositionRoot) CreateUpdateRiderLocationCommandHandler() commands.UpdateRiderLocationCommandHandler {
	var f commands.AssignmentUoWFactory = FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateRiderLocationCommandHandler(
		f, geo.NewHaversineDistance(), c.config.ArrivingThreshold(), c.bus)
}

func (c *CompositionRoot) CreateExpireOffersCommandHandler() commands.ExpireOffersCommandHandler {
	var f commands.AssignmentUoWFactory = FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewExpireOffersCommandHandler(f, c.createCandidateRanker(), c.bus, c.logger)
}

func (c *CompositionRoot) CreateCancelAssignmentCommandHandler() commands.CancelAssignmentCommandHandler {
	var f commands.AssignmentUoWFactory = FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelAssignmentCommandHandler(f)
}

func (c *CompositionRoot) CreateNotifyOrderEventCommandHandler() commands.NotifyOrderEventCommandHandler {
	store := notificationrepo.NewGormNotificationRepository(c.gormDB)
	users := userrepo.NewGormUserRepository(c.gormDB)
	return commands.NewNotifyOrderEventCommandHandler(store, users, store, c.createChannelProviders(), c.logger)
}

func (c *CompositionRoot) CreateBroadcastNotificationCommandHandler() commands.BroadcastNotificationCommandHandler {
	store := notificationrepo.NewGormNotificationRepository(c.gormDB)
	users := userrepo.NewGormUserRepository(c.gormDB)
	return commands.NewBroadcastNotificationCommandHandler(
		store, users, store, c.createChannelProviders(), c.config.BroadcastConcurrency(), c.logger)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAssignmentStatusQueryHandler() queries.GetAssignmentStatusQueryHandler {
	return queries.NewGetAssignmentStatusQueryHandler(c.gormDB)
}

// CreateEventReactor wires the bus reactions: matching opens and closes with
// the order lifecycle, customers get notified, tracking screens get frames.
func (c *CompositionRoot) CreateEventReactor() *events.Reactor {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return events.NewReactor(
		c.CreateCreateAssignmentCommandHandler(),
		c.CreateCancelAssignmentCommandHandler(),
		c.CreateNotifyOrderEventCommandHandler(),
		f,
		c.hub,
		c.logger,
	)
}

func (c *CompositionRoot) CreateKafkaPublisher() (*kafka.Publisher, error) {
	return kafka.NewPublisher([]string{c.config.KafkaHost}, c.config.KafkaOrderEventsTopic, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateExpireOffersCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateTransitionOrderCommandHandler(),
		c.CreateRespondToOfferCommandHandler(),
		c.CreateUpdateRiderLocationCommandHandler(),
		c.CreateBroadcastNotificationCommandHandler(),
		c.CreateGetOrderHistoryQueryHandler(),
		c.CreateGetAssignmentStatusQueryHandler(),
	)
}

func (c *CompositionRoot) CreateWSHandler() *ws.Handler {
	return ws.NewHandler(c.hub, c.logger)
}

func (c *CompositionRoot) createCandidateRanker() services.CandidateRanker {
	return services.NewCandidateRanker(geo.NewHaversineDistance())
}

func (c *CompositionRoot) createChannelProviders() []ports.ChannelProvider {
	return []ports.ChannelProvider{
		channels.NewEmailProvider(c.config.EmailGatewayURL),
		channels.NewSMSProvider(c.config.SMSGatewayURL),
		channels.NewPushProvider(c.config.PushGatewayURL),
	}
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncAssignmentUoWFactory func() commands.AssignmentUoW

func (f FuncAssignmentUoWFactory) Create() commands.AssignmentUoW {
	return f()
}
