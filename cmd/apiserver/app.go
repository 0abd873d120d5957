package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtlebank/teenfin/internal/catalog"
	"github.com/turtlebank/teenfin/internal/config"
	"github.com/turtlebank/teenfin/internal/finchat"
	pgdb "github.com/turtlebank/teenfin/internal/infrastructure/database/postgres"
	redisdb "github.com/turtlebank/teenfin/internal/infrastructure/database/redis"
	"github.com/turtlebank/teenfin/internal/infrastructure/messaging/kafka"
	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/prometheus"
	miniostore "github.com/turtlebank/teenfin/internal/infrastructure/storage/minio"
	httpapi "github.com/turtlebank/teenfin/internal/interfaces/http"
	"github.com/turtlebank/teenfin/internal/interfaces/http/handlers"
	"github.com/turtlebank/teenfin/internal/llm"
	"github.com/turtlebank/teenfin/internal/recommend"
	"github.com/turtlebank/teenfin/internal/upload"
	"github.com/turtlebank/teenfin/internal/user"
)

// application owns every long-lived component of the API server and the
// order they are torn down in.
type application struct {
	server *httpapi.Server

	redisClient *redisdb.Client
	publisher   *kafka.Publisher
	pool        *pgxpool.Pool
	log         logging.Logger
}

// newApplication wires the full dependency graph.  Postgres, redis, kafka,
// and minio are all optional at runtime: when one is unreachable or disabled
// the server starts without the feature it backs and says so in the log.
func newApplication(ctx context.Context, cfg *config.Config, log logging.Logger) (*application, error) {
	app := &application{log: log}

	cat, err := catalog.Load(cfg.Survey.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	log.Info("catalog loaded",
		logging.String("path", cfg.Survey.CatalogPath),
		logging.Int("questions", len(cat.Questions())))

	gateway := newGateway(ctx, cfg.LLM, log)

	checkers := map[string]handlers.Checker{}

	redisClient, err := redisdb.NewClient(cfg.Redis, log)
	if err != nil {
		log.Warn("redis unavailable, running without cache and rate limiting", logging.Err(err))
	} else {
		app.redisClient = redisClient
		checkers["redis"] = redisClient.HealthCheck
	}

	temperature, topP := cfg.LLM.Generation()
	opts := recommend.Options{
		CandidateLimit: cfg.Survey.CandidateLimit,
		Limits: recommend.ParserLimits{
			MaxInsights: cfg.Survey.MaxInsights,
			MaxSavings:  cfg.Survey.MaxSavings,
			MaxCards:    cfg.Survey.MaxCards,
		},
		Temperature:    temperature,
		TopP:           topP,
		EnableFallback: cfg.Survey.EnableFallback,
	}
	if app.redisClient != nil && cfg.Survey.CacheResults {
		ttl := time.Duration(cfg.Survey.CacheTTLSeconds) * time.Second
		opts.Cache = redisdb.NewResultCache(app.redisClient, ttl)
	}
	if cfg.Kafka.Enabled {
		app.publisher = kafka.NewPublisher(cfg.Kafka, log)
		opts.Events = app.publisher
	}

	var metrics *prometheus.Metrics
	if cfg.Metrics.Enabled {
		metrics = prometheus.New("teenfin")
		opts.Metrics = metrics
	}

	recommender := recommend.NewService(cat, gateway, opts, log)
	chat := finchat.NewService(gateway, log)

	users, err := app.newUserService(ctx, cfg.Database, checkers)
	if err != nil {
		return nil, err
	}

	rc := httpapi.RouterConfig{
		Survey: handlers.NewSurveyHandler(cat, recommender),
		Chat:   handlers.NewChatHandler(chat),
		Users:  handlers.NewUserHandler(users),
		Logger: log,
	}

	if cfg.MinIO.Enabled {
		store, err := miniostore.NewClient(cfg.MinIO, log)
		if err != nil {
			return nil, fmt.Errorf("minio init: %w", err)
		}
		rc.Upload = handlers.NewUploadHandler(upload.NewService(store, log), log)
		checkers["minio"] = store.HealthCheck
	}

	if app.redisClient != nil && cfg.RateLimit.Enabled {
		rc.RateLimiter = redisdb.NewRateLimiter(app.redisClient,
			cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window)
	}
	if metrics != nil {
		rc.MetricsHandler = metrics.Handler()
		rc.MetricsObserver = metrics
	}
	rc.Health = handlers.NewHealthHandler(checkers)

	router := httpapi.NewRouter(cfg.Server, rc)
	app.server = httpapi.NewServer(cfg.Server, router, log)
	return app, nil
}

// newUserService connects postgres and falls back to the in-memory
// repository when the database is unreachable, which keeps local development
// working without a running cluster.
func (a *application) newUserService(ctx context.Context, cfg config.DatabaseConfig, checkers map[string]handlers.Checker) (*user.Service, error) {
	pool, err := pgdb.Connect(ctx, cfg, a.log)
	if err != nil {
		a.log.Warn("postgres unavailable, using in-memory user store", logging.Err(err))
		return user.NewService(user.NewMemoryRepository(), a.log), nil
	}

	repo := user.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure user schema: %w", err)
	}

	a.pool = pool
	checkers["postgres"] = func(ctx context.Context) error {
		return pgdb.HealthCheck(ctx, pool)
	}
	return user.NewService(repo, a.log), nil
}

func newGateway(ctx context.Context, cfg config.LLMConfig, log logging.Logger) llm.Gateway {
	switch cfg.Provider {
	case "openai":
		return llm.NewOpenAIGateway(cfg.OpenAI, log)
	case "gemini":
		gw, err := llm.NewGeminiGateway(ctx, cfg.Gemini, log)
		if err != nil {
			log.Warn("gemini init failed, model features disabled", logging.Err(err))
			return llm.Disabled{}
		}
		return gw
	default:
		log.Warn("model provider disabled, recommendations depend on fallback",
			logging.String("provider", cfg.Provider))
		return llm.Disabled{}
	}
}

// Close tears down outbound connections after the server has drained.
func (a *application) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("kafka close", logging.Err(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Warn("redis close", logging.Err(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
