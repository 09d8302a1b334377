package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/racquet-stats/internal/catalog"
	"github.com/mauv0809/racquet-stats/internal/club"
	"github.com/mauv0809/racquet-stats/internal/config"
	"github.com/mauv0809/racquet-stats/internal/database"
	server "github.com/mauv0809/racquet-stats/internal/http"
	"github.com/mauv0809/racquet-stats/internal/metrics"
	"github.com/mauv0809/racquet-stats/internal/notifier"
	"github.com/mauv0809/racquet-stats/internal/notifier/slack"
	"github.com/mauv0809/racquet-stats/internal/pubsub"
	"github.com/mauv0809/racquet-stats/internal/sport"
	"github.com/mauv0809/racquet-stats/internal/stats"
	"github.com/mauv0809/racquet-stats/internal/statsstore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown log level, keeping default", "level", cfg.LogLevel)
	}

	ctx := context.Background()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	statsStore, statsTeardown, err := newStatsStore(ctx, cfg, db)
	if err != nil {
		log.Fatalf("Failed to initialize stats store: %s", err)
	}
	defer statsTeardown()

	players := newPlayerStore(ctx, cfg, db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	events := pubsub.NewNoop()
	if cfg.ProjectID != "" {
		events, err = pubsub.New(ctx, cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
	} else {
		log.Info("GCP_PROJECT not set, events will not be published")
	}
	defer events.Close()

	var notif notifier.Notifier = notifier.Noop{}
	if cfg.SlackEnabled() {
		notif = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Info("Slack not configured, result notifications are disabled")
	}

	sports := loadSports(ctx, catalog.New(db))
	services := make([]*sport.Service, 0, len(sports))
	for _, sc := range sports {
		engine := stats.NewEngine(statsStore, sc.EngineOptions())
		services = append(services, sport.NewService(sc, engine, players, metricsSvc, events, notif))
		log.Info("Sport enabled", "sport", sc.Name, "categories", sc.Categories, "collection", sc.Collection, "backend", cfg.Stats.Backend)
	}

	s := server.NewServer(cfg, players, metricsHandler, notif, services...)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

// newStatsStore returns the configured statistics backend and its teardown.
func newStatsStore(ctx context.Context, cfg config.Config, db *sql.DB) (stats.Store, func(), error) {
	if cfg.Stats.Backend != config.BackendMongo {
		return statsstore.New(db), func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	log.Info("Connected to MongoDB", "database", cfg.Mongo.Database)
	teardown := func() {
		log.Info("Closing MongoDB connection")
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}
	return statsstore.NewMongo(client.Database(cfg.Mongo.Database)), teardown, nil
}

// newPlayerStore wraps the player store with the Redis cache when one is
// configured and reachable.
func newPlayerStore(ctx context.Context, cfg config.Config, db *sql.DB) club.ClubStore {
	store := club.New(db)
	if cfg.Redis.Addr == "" {
		return store
	}
	rdb, err := club.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		log.Warn("Redis unavailable, player lookups go to the database", "error", err, "addr", cfg.Redis.Addr)
		return store
	}
	log.Info("Player lookups cached in Redis", "addr", cfg.Redis.Addr)
	return club.NewCached(store, rdb, club.DefaultPlayerSetKey)
}

// loadSports reads every sport from the catalog, falling back to the built-in
// badminton configuration when the catalog cannot be read.
func loadSports(ctx context.Context, c catalog.Catalog) []sport.Config {
	list, err := c.ListSports(ctx)
	if err != nil || len(list) == 0 {
		log.Warn("Sports catalog unavailable, using built-in badminton", "error", err)
		return []sport.Config{sport.Badminton}
	}
	configs := make([]sport.Config, 0, len(list))
	for _, sp := range list {
		sc, err := sport.Load(ctx, c, sp.ID, "")
		if err != nil {
			log.Error("Skipping sport", "sport", sp.ID, "error", err)
			continue
		}
		configs = append(configs, sc)
	}
	if len(configs) == 0 {
		return []sport.Config{sport.Badminton}
	}
	return configs
}
