package cmd

import (
	"context"
	"fmt"
	"time"

	"luckydraw/api"
	"luckydraw/bot"
	"luckydraw/config"
	"luckydraw/database"
	"luckydraw/events"
	"luckydraw/i18n"
	"luckydraw/infrastructure"
	"luckydraw/infrastructure/observability"
	"luckydraw/random"
	"luckydraw/repository"
	"luckydraw/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)

	log.WithField("environment", cfg.Environment).Info("Starting luckydraw...")

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	if err := database.MigrateUp(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	metricsProvider := observability.NewMetricsProvider(cfg)
	if err := metricsProvider.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	natsClient, err := attachMessageBus(ctx, cfg, eventBus, metricsProvider)
	if err != nil {
		return err
	}

	var announcer *bot.Bot
	if cfg.DiscordToken != "" {
		log.Info("Initializing Discord announcer...")
		announcer, err = bot.New(bot.Config{Token: cfg.DiscordToken, ChannelID: cfg.DiscordChannelID}, eventBus)
		if err != nil {
			return fmt.Errorf("failed to initialize Discord announcer: %w", err)
		}
	}

	services := NewServices(cfg, uowFactory, metricsProvider)
	server := api.NewServer(cfg, services, i18n.NewTranslator(cfg.DefaultLocale))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down...")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down HTTP server")
	}

	// Let handlers of the last committed transactions finish before closing their outputs
	eventBus.Wait()

	if announcer != nil {
		if err := announcer.Close(); err != nil {
			log.WithError(err).Error("Error closing Discord announcer")
		}
	}
	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}
	if err := metricsProvider.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down metrics provider")
	}

	log.Info("Shutdown completed")
	return nil
}

// NewServices builds every application service over one unit of work factory
func NewServices(cfg *config.Config, uowFactory service.UnitOfWorkFactory, metrics service.DrawMetrics) api.Services {
	return api.Services{
		Events:  service.NewEventService(uowFactory),
		Prizes:  service.NewPrizeService(uowFactory),
		CheckIn: service.NewCheckInService(uowFactory),
		Draw:    service.NewDrawService(uowFactory, random.NewSecureSelector(), metrics, cfg.DrawMaxAttempts),
		Ledger:  service.NewLedgerService(uowFactory),
	}
}

// attachMessageBus forwards domain events to NATS when a server is configured.
// The returned client is nil when publishing is disabled.
func attachMessageBus(ctx context.Context, cfg *config.Config, eventBus *events.Bus, metrics infrastructure.PublishMetrics) (*infrastructure.NATSClient, error) {
	mapper := infrastructure.NewEventSubjectMapper(cfg.NATSSubjectPrefix)

	if cfg.NATSURL == "" {
		log.Info("NATS_URL not set, domain events stay in process")
		infrastructure.NewNATSEventPublisher(infrastructure.NewNoopMessagePublisher(), mapper, cfg.ServiceName, nil).Attach(eventBus)
		return nil, nil
	}

	client := infrastructure.NewNATSClient(cfg.NATSURL, cfg.ServiceName)
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	infrastructure.NewNATSEventPublisher(client, mapper, cfg.ServiceName, metrics).Attach(eventBus)
	log.WithField("subjects", mapper.GetAllSubjects()).Info("Forwarding domain events to NATS")
	return client, nil
}
