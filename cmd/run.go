package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"cyanbot/bot"
	"cyanbot/config"
	"cyanbot/database"
	"cyanbot/events"
	"cyanbot/httpapi"
	"cyanbot/infrastructure"
	"cyanbot/repository"
	"cyanbot/service"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging applies the configured log level and format
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Invalid LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// NewLedger connects to the database and builds the ledger over it.
// The caller closes the returned DB.
func NewLedger(ctx context.Context, cfg *config.Config, eventBus *events.Bus) (service.LedgerService, *database.DB, error) {
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	ledger, err := service.NewLedgerService(uowFactory, cfg.LedgerConfig(), service.NewLockedRand(cfg.RandomSeed))
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create ledger: %w", err)
	}
	return ledger, db, nil
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)
	log.Infof("Starting cyanbot in %s mode...", cfg.Environment)

	log.Info("Running database migrations...")
	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database migrations completed successfully")

	log.Info("Initializing event bus...")
	eventBus := events.NewBus()
	log.Info("Event bus initialized successfully")

	ledger, db, err := NewLedger(ctx, cfg, eventBus)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := &services{eventBus: eventBus}
	defer svc.shutdown()

	if cfg.NATSServers != "" {
		log.Info("Initializing NATS event forwarding...")
		natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := natsClient.Connect(connectCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		svc.nats = natsClient

		mapper := infrastructure.NewEventSubjectMapper()
		if err := infrastructure.EnsureLedgerStream(natsClient, mapper); err != nil {
			return fmt.Errorf("failed to ensure ledger stream: %w", err)
		}
		infrastructure.NewNATSEventPublisher(natsClient, mapper).Attach(eventBus)
		log.Info("NATS event forwarding initialized successfully")
	}

	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:                cfg.DiscordToken,
		GuildID:              cfg.GuildID,
		CommandTimeout:       cfg.CommandTimeout,
		LeaderboardChannelID: cfg.LeaderboardChannelID,
		LeaderboardSchedule:  cfg.LeaderboardSchedule,
		IsAdmin:              cfg.IsAdmin,
	}, ledger)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	svc.bot = discordBot
	log.Info("Discord bot initialized successfully")

	serverErrs := make(chan error, 1)
	if cfg.StatusAddr != "" {
		statusServer := httpapi.NewServer(cfg.StatusAddr, db, ledger)
		svc.statusServer = statusServer
		go func() {
			serverErrs <- statusServer.Start()
		}()
	}

	log.Info("Bot is running. Press Ctrl+C to exit.")
	select {
	case <-ctx.Done():
	case err := <-serverErrs:
		if err != nil {
			log.WithError(err).Error("Status API stopped")
		}
	}
	return nil
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// services tracks what Run has started. shutdown stops whatever is set,
// so a failed startup releases the parts that did come up.
type services struct {
	bot          io.Closer
	statusServer shutdowner
	eventBus     *events.Bus
	nats         io.Closer
}

func (s *services) shutdown() {
	log.Info("Shutting down...")

	if s.bot != nil {
		if err := s.bot.Close(); err != nil {
			log.Errorf("Error closing Discord bot: %v", err)
		}
	}

	if s.statusServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.statusServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Error shutting down status API: %v", err)
		}
	}

	// Let committed events reach their handlers before NATS goes away
	if s.eventBus != nil {
		s.eventBus.Wait()
	}
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Errorf("Error closing NATS connection: %v", err)
		}
	}

	log.Info("Shutdown completed")
}
