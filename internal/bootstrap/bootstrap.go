// Package bootstrap wires configuration, storage, services and controllers
// into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/sevasetu/sevasetu/internal/app/controllers"
	"github.com/sevasetu/sevasetu/internal/app/migrations"
	"github.com/sevasetu/sevasetu/internal/app/repositories"
	"github.com/sevasetu/sevasetu/internal/app/routes"
	"github.com/sevasetu/sevasetu/internal/app/services"
	"github.com/sevasetu/sevasetu/internal/config"
	"github.com/sevasetu/sevasetu/internal/db"
	"github.com/sevasetu/sevasetu/internal/middleware"
	"github.com/sevasetu/sevasetu/internal/pkg/auth"
	"github.com/sevasetu/sevasetu/internal/pkg/cache"
	"github.com/sevasetu/sevasetu/internal/pkg/certificate"
	"github.com/sevasetu/sevasetu/internal/pkg/email"
	"github.com/sevasetu/sevasetu/internal/pkg/helpers"
	"github.com/sevasetu/sevasetu/internal/pkg/logger"
	"github.com/sevasetu/sevasetu/internal/pkg/outbox"
	"github.com/sevasetu/sevasetu/internal/seed"
)

// membershipIDPrefix is the first segment of every issued membership id
const membershipIDPrefix = "SEVA"

// App holds every long-lived component of the application
type App struct {
	Config      *config.Config
	DB          *db.PostgresDB
	Cache       *cache.Cache
	Repos       *repositories.Repositories
	JWTService  *auth.JWTService
	Worker      *outbox.Worker
	Controllers routes.Controllers
}

// New builds the application graph from configuration
func New(ctx context.Context, cfg *config.Config, migrationsDir string) (*App, error) {
	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format != "json",
	})
	middleware.SetDebugMode(!cfg.IsProduction())

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	migrator := migrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	repos := repositories.NewRepositories(database.Pool)

	if err := seed.Run(ctx, repos); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	var statsCache *cache.Cache
	if cfg.Redis.Enabled {
		statsCache, err = cache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			// The cache is an optimization; the service runs without it.
			logger.Warn().Err(err).Msg("Redis unavailable, running without stats cache")
			statsCache = nil
		}
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	generator := certificate.NewPDFGenerator(cfg.Organization.Name)
	dispatcher := email.NewSMTPDispatcher(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		OrgName:   cfg.Organization.Name,
	}, logger.WithComponent("email"))

	membershipSvc := services.NewMembershipService(repos.Member, repos.Outbox, generator, membershipIDPrefix)
	donationSvc := services.NewDonationService(repos.Donation, repos.Outbox, generator, statsCache,
		helpers.ParseDuration(cfg.Redis.StatsTTL, time.Minute))
	contactSvc := services.NewContactService(repos.Contact, repos.Outbox)
	chatSvc := services.NewChatService(repos.Chat)
	authSvc := services.NewAuthService(repos.User, repos.Token, repos.Member, jwtService)
	eventSvc := services.NewEventService(repos.Event)
	taskSvc := services.NewTaskService(repos.Outbox)
	notifySvc := services.NewNotificationService(repos.Member, repos.Donation, repos.Contact,
		dispatcher, generator, cfg.Organization.Name)

	worker := outbox.NewWorker(repos.Outbox, outbox.Config{
		PollInterval: helpers.ParseDuration(cfg.Outbox.PollInterval, 15*time.Second),
		BatchSize:    cfg.Outbox.BatchSize,
		MaxAttempts:  cfg.Outbox.MaxAttempts,
	})
	notifySvc.RegisterHandlers(worker)

	return &App{
		Config:     cfg,
		DB:         database,
		Cache:      statsCache,
		Repos:      repos,
		JWTService: jwtService,
		Worker:     worker,
		Controllers: routes.Controllers{
			Health:     controllers.NewHealthController(database.Pool),
			Auth:       controllers.NewAuthController(authSvc),
			Membership: controllers.NewMembershipController(membershipSvc, authSvc),
			Donation:   controllers.NewDonationController(donationSvc),
			Contact:    controllers.NewContactController(contactSvc),
			Chat:       controllers.NewChatController(chatSvc),
			Event:      controllers.NewEventController(eventSvc),
			Task:       controllers.NewTaskController(taskSvc),
		},
	}, nil
}

// Close releases every long-lived resource
func (a *App) Close() {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			logger.Warn().Err(err).Msg("Error closing cache connection")
		}
	}
	a.DB.Close()
}
