package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	infragin "github.com/jonesrussell/cityvoice/infrastructure/gin"
	infrajwt "github.com/jonesrussell/cityvoice/infrastructure/jwt"
	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	"github.com/jonesrussell/cityvoice/infrastructure/metrics"
	"github.com/jonesrussell/cityvoice/infrastructure/profiling"
	"github.com/jonesrussell/cityvoice/infrastructure/sse"
	"github.com/jonesrussell/cityvoice/internal/api"
	"github.com/jonesrussell/cityvoice/internal/config"
	"github.com/jonesrussell/cityvoice/internal/database"
	"github.com/jonesrussell/cityvoice/internal/events"
	"github.com/jonesrussell/cityvoice/internal/keywords"
	"github.com/jonesrussell/cityvoice/internal/llm"
	"github.com/jonesrussell/cityvoice/internal/media"
	"github.com/jonesrussell/cityvoice/internal/scheduler"
	"github.com/jonesrussell/cityvoice/internal/service"
	"github.com/jonesrussell/cityvoice/internal/telemetry"
	"github.com/jonesrussell/cityvoice/internal/triage"
)

// App is the assembled service.
type App struct {
	cfg       *config.Config
	log       infralogger.Logger
	db        *sqlx.DB
	redis     *goredis.Client
	providers *Providers
	telemetry *telemetry.Provider
	keywords  *service.KeywordService
	feed      *sse.Broker
	server    *infragin.Server
}

// NewApp connects every dependency and builds the HTTP server.
func NewApp(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*App, error) {
	db, err := SetupDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	app := &App{cfg: cfg, log: log, db: db, telemetry: telemetry.NewProvider()}
	app.redis = SetupRedis(ctx, cfg, log)

	app.providers, err = SetupProviders(cfg, app.redis, app.telemetry, log)
	if err != nil {
		app.Close()
		return nil, err
	}

	engine := keywords.NewDefaultEngine(log)
	pipeline := triage.NewPipeline(triage.NewClient(app.providers.Router, engine, log), app.telemetry, log)

	app.keywords = service.NewKeywordService(database.NewKeywordRepository(db), engine, app.telemetry, log)
	if reloadErr := app.keywords.Reload(ctx); reloadErr != nil {
		log.Warn("Keyword rules not loaded, using built-in tables", infralogger.Error(reloadErr))
	}

	opts := service.ComplaintOptions{
		Photos:    media.NewOptimizer(cfg.Media),
		Telemetry: app.telemetry,
		Logger:    log,
	}
	if index := SetupSearch(ctx, cfg, log); index != nil {
		opts.Index = index
	}
	var publishers events.Fanout
	if cfg.Redis.Events {
		if publisher := events.NewPublisher(app.redis, log); publisher != nil {
			publishers = append(publishers, publisher)
		}
	}
	if cfg.Feed.Enabled {
		app.feed = sse.NewBroker(cfg.Feed, log)
		publishers = append(publishers, events.NewFeed(app.feed, log))
	}
	if len(publishers) > 0 {
		opts.Events = publishers
	}

	issuer := infrajwt.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	complaints := service.NewComplaintService(
		database.NewComplaintRepository(db),
		database.NewActionRepository(db),
		pipeline,
		opts,
	)

	handler := api.NewHandler(api.Deps{
		Complaints:  complaints,
		Upvotes:     service.NewUpvoteService(database.NewUpvoteRepository(db), complaints),
		Users:       service.NewUserService(database.NewUserRepository(db), issuer),
		Authorities: service.NewAuthorityService(cfg.Auth.ZonePasswords(), issuer),
		Keywords:    app.keywords,
		Pipeline:    pipeline,
		Logger:      log,
	})

	app.server = app.buildServer(handler, opts.Index)
	return app, nil
}

func (a *App) buildServer(handler *api.Handler, index service.Indexer) *infragin.Server {
	routes := api.RouteConfig{
		JWTSecret:     a.cfg.Auth.JWTSecret,
		SubmitLimiter: api.NewClientRateLimiter(a.cfg.Service.SubmitPerMinute),
		TriageLimiter: api.NewClientRateLimiter(a.cfg.Service.TriagePerMinute),
		Metrics:       a.telemetry.Handler(),
		HTTPMetrics:   metrics.NewHTTP(prometheus.DefaultRegisterer, a.cfg.Service.Name),
		Feed:          a.feed,
	}

	builder := infragin.NewServerBuilder(a.cfg.Service.Name, a.cfg.Service.Port).
		WithLogger(a.log).
		WithDebug(a.cfg.Service.Debug).
		WithVersion(a.cfg.Service.Version).
		WithCORSOrigins(a.cfg.Service.CORSOrigins).
		WithMaxUploadSize(a.cfg.Service.MaxUploadBytes).
		WithHealthCheck("database", infragin.PingChecker(a.db.PingContext)).
		WithHealthCheck("llm", infragin.DegradedChecker(a.providers.Degraded)).
		WithRoutes(func(router *gin.Engine) {
			api.SetupRoutes(router, handler, routes)
		})

	if a.redis != nil {
		builder = builder.WithHealthCheck("redis", infragin.PingChecker(func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		}))
	}
	if index == nil {
		builder = builder.WithHealthCheck("search", infragin.DegradedChecker(func() string {
			return "search disabled"
		}))
	}
	return builder.Build()
}

// Run serves until ctx is cancelled or a shutdown signal arrives.
func (a *App) Run(ctx context.Context) error {
	profiler, err := profiling.Start(a.cfg.Service.Name, a.cfg.Service.Version, a.cfg.Profiling)
	if err != nil {
		a.log.Warn("Continuous profiling not started", infralogger.Error(err))
	}
	defer func() { _ = profiler.Stop() }()

	reloader := scheduler.New(a.keywords, a.cfg.Keywords.ReloadSchedule, a.log)
	if startErr := reloader.Start(); startErr != nil {
		return fmt.Errorf("start keyword scheduler: %w", startErr)
	}
	defer reloader.Stop()

	if a.feed != nil {
		a.feed.Start(ctx)
		defer a.feed.Stop()
	}

	a.log.Info("Starting HTTP server", infralogger.Int("port", a.cfg.Service.Port))
	if runErr := a.server.RunWithGracefulShutdown(ctx); runErr != nil {
		return fmt.Errorf("server error: %w", runErr)
	}
	a.log.Info("Server exited")
	return nil
}

// Close releases connections.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("Failed to close redis", infralogger.Error(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.log.Error("Failed to close database", infralogger.Error(err))
	}
}

// OfflinePipeline builds a pipeline with no remote models.
func OfflinePipeline(log infralogger.Logger) *triage.Pipeline {
	return triage.NewPipeline(triage.NewClient(llm.NewRouter(), keywords.NewDefaultEngine(log), log), nil, log)
}
