package cmd

import (
	"log/slog"

	"roadside/internal/adapters/out/postgres"
	"roadside/internal/core/application/usecases/commands"
	"roadside/internal/core/application/usecases/queries"
	"roadside/internal/core/ports"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into command and query handlers. It is the
// only place that knows concrete implementations.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	notifier   ports.NotificationGateway
	logger     *slog.Logger
}

// NewCompositionRoot creates the composition root over the shared database
// connection and the push gateway.
func NewCompositionRoot(
	_ Config, gormDB *gorm.DB, notifier ports.NotificationGateway, logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		notifier:   notifier,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateJobCommandHandler() commands.CreateJobCommandHandler {
	var f commands.JobUoWFactory = FuncJobUoWFactory(func() commands.JobUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateJobCommandHandler(f)
}

func (c *CompositionRoot) CreateConfirmBookingFeeCommandHandler() commands.ConfirmBookingFeeCommandHandler {
	var f commands.JobUoWFactory = FuncJobUoWFactory(func() commands.JobUoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmBookingFeeCommandHandler(f)
}

func (c *CompositionRoot) CreateBroadcastJobCommandHandler() commands.BroadcastJobCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewBroadcastJobCommandHandler(f, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateAcceptJobOfferCommandHandler() commands.AcceptJobOfferCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptJobOfferCommandHandler(f)
}

func (c *CompositionRoot) CreateDeclineJobOfferCommandHandler() commands.DeclineJobOfferCommandHandler {
	var f commands.JobUoWFactory = FuncJobUoWFactory(func() commands.JobUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDeclineJobOfferCommandHandler(f)
}

func (c *CompositionRoot) CreateRegisterProviderCommandHandler() commands.RegisterProviderCommandHandler {
	var f commands.ProviderUoWFactory = FuncProviderUoWFactory(func() commands.ProviderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterProviderCommandHandler(f)
}

func (c *CompositionRoot) CreateJobUoWFactory() commands.JobUoWFactory {
	return FuncJobUoWFactory(func() commands.JobUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateGetActiveJobsQueryHandler() queries.GetActiveJobsQueryHandler {
	return queries.NewGetActiveJobsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOnlineProvidersQueryHandler() queries.GetOnlineProvidersQueryHandler {
	return queries.NewGetOnlineProvidersQueryHandler(c.gormDB)
}

type FuncJobUoWFactory func() commands.JobUoW

func (f FuncJobUoWFactory) Create() commands.JobUoW {
	return f()
}

type FuncProviderUoWFactory func() commands.ProviderUoW

func (f FuncProviderUoWFactory) Create() commands.ProviderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
