package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"live-quiz-service/internal/app"
	"live-quiz-service/internal/config"
	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/infra/file"
	"live-quiz-service/internal/infra/memory"
	"live-quiz-service/internal/infra/postgres"
	infraredis "live-quiz-service/internal/infra/redis"
	"live-quiz-service/internal/infra/sqlite"
	transport "live-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadStartConfig(opts)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, opts.verbose)
		},
	}
}

// loadStartConfig resolves the listen port as: --port or QUIZ_PORT, then
// QUIZ_SERVER_PORT, then server.port from the YAML file, then 8080.
func loadStartConfig(opts *options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.port != "" {
		cfg.Server.Port = opts.port
	}
	return cfg, nil
}

func runServer(ctx context.Context, cfg config.Config, verbose bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg); err != nil {
			return err
		}
		p, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer p.Close()
		pool = p
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	catalog, err := loadCatalog(ctx, cfg, pool, redisClient)
	if err != nil {
		return err
	}
	log.Printf("loaded %d questions from %s catalog", len(catalog), cfg.Catalog.Source)

	store, closeStore, err := openPlayerStore(cfg, pool, redisClient)
	if err != nil {
		return err
	}
	defer closeStore.Close()

	hub := transport.NewHub()
	gateway, err := app.NewGateway(ctx, app.NewSession(catalog), store, hub, app.WithVerbose(verbose))
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     transport.NewRouter(transport.NewWSHandler(hub, gateway, verbose), cfg.Server.PublicURL),
		ReadTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := gateway.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		log.Printf("starting quiz service on :%s (players: %s)", cfg.Server.Port, cfg.Players.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func loadCatalog(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client) ([]domain.Question, error) {
	var loader infraredis.CatalogLoader
	switch cfg.Catalog.Source {
	case config.CatalogSample, "":
		loader = memory.NewStaticCatalogLoader(sampleCatalog())
	case config.CatalogFile:
		loader = file.NewCatalogLoader(cfg.Catalog.Path)
	case config.CatalogPostgres:
		if pool == nil {
			return nil, fmt.Errorf("catalog source postgres needs postgres.url")
		}
		loader = postgres.NewCatalogLoader(pool)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
	if redisClient != nil {
		loader = infraredis.NewCatalogCache(redisClient, loader, catalogSourceID(cfg), config.TTLDuration(cfg.Catalog.CacheTTL, 10*time.Minute))
	}
	catalog, err := loader.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog, nil
}

// catalogSourceID names where the catalog comes from; it scopes the Redis cache key.
func catalogSourceID(cfg config.Config) string {
	switch cfg.Catalog.Source {
	case config.CatalogFile:
		return config.CatalogFile + ":" + cfg.Catalog.Path
	case "":
		return config.CatalogSample
	default:
		return cfg.Catalog.Source
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openPlayerStore(cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client) (app.PlayerStore, io.Closer, error) {
	switch cfg.Players.Backend {
	case config.PlayersMemory, "":
		return memory.NewPlayerStore(), nopCloser{}, nil
	case config.PlayersFile:
		return file.NewPlayerStore(cfg.Players.Path), nopCloser{}, nil
	case config.PlayersRedis:
		if redisClient == nil {
			return nil, nil, fmt.Errorf("players backend redis needs redis.addr")
		}
		return infraredis.NewPlayerStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 0)), nopCloser{}, nil
	case config.PlayersSQLite:
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case config.PlayersPostgres:
		if pool == nil {
			return nil, nil, fmt.Errorf("players backend postgres needs postgres.url")
		}
		return postgres.NewPlayerStore(pool), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown players backend %q", cfg.Players.Backend)
	}
}

// sampleCatalog is served when no catalog source is configured.
func sampleCatalog() []domain.Question {
	return []domain.Question{
		{
			Text:    "What is 2 + 2?",
			Options: []string{"3", "4", "5", "22"},
			Correct: "4",
		},
		{
			Text:    "Which planet is known as the Red Planet?",
			Options: []string{"Venus", "Mars", "Jupiter", "Mercury"},
			Correct: "Mars",
		},
		{
			Text:    "What is the capital of France?",
			Options: []string{"Berlin", "Madrid", "Paris", "Rome"},
			Correct: "Paris",
		},
	}
}
