package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/haguru/connectpro/config"
	"github.com/haguru/connectpro/internal/auth"
	memoryStore "github.com/haguru/connectpro/internal/datastore/memory"
	mongoStore "github.com/haguru/connectpro/internal/datastore/mongo"
	postgresStore "github.com/haguru/connectpro/internal/datastore/postgres"
	"github.com/haguru/connectpro/internal/interfaces"
	"github.com/haguru/connectpro/internal/middleware"
	"github.com/haguru/connectpro/internal/postservice"
	"github.com/haguru/connectpro/internal/routes"
	"github.com/haguru/connectpro/internal/server"
	"github.com/haguru/connectpro/internal/userservice"
	mongoClient "github.com/haguru/connectpro/pkg/databases/mongo"
	pgClient "github.com/haguru/connectpro/pkg/databases/postgres"
	"github.com/haguru/connectpro/pkg/metrics"
	zerologger "github.com/haguru/connectpro/pkg/zerolog"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// demoSecret signs tokens only when the configuration explicitly allows the
// demo fallback. Real deployments set JWT_SECRET.
const demoSecret = "fallback-secret-change-in-production"

// App wires configuration, the selected storage backend, services and routes.
// Backend selection happens inside NewApp, before the listener starts, so no
// request ever observes a half-initialized backend.
type App struct {
	Server interfaces.Server
	Config *config.ServiceConfig
	Store  interfaces.Store
	Logger interfaces.Logger
}

// NewApp creates and configures a new App instance.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.ReadLocalConfig(configPath)
	if err != nil {
		return nil, err
	}

	validator := structValidator.New()
	if err := validator.Struct(cfg); err != nil {
		errors := err.(structValidator.ValidationErrors)
		return nil, fmt.Errorf("validation error: %s", errors)
	}

	logger := zerologger.NewZerologLogger(cfg.ServiceName)
	logger.SetLevel(cfg.LogLevel)

	app := &App{
		Config: cfg,
		Logger: logger,
	}

	tokens, err := app.initializeTokenService()
	if err != nil {
		return nil, err
	}

	store, err := app.selectStore(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to select storage backend: %v", err)
	}
	app.Store = store

	app.Server = server.NewServer(cfg.Host, cfg.Port, logger)

	metricsInstance := app.initializeMetrics()

	users := userservice.NewUserService(store, logger)
	posts := postservice.NewPostService(store, logger)

	route := routes.NewRoute(metricsInstance, users, posts, tokens, logger, cfg.PingMessage, validator)

	metricsHandler := promhttp.HandlerFor(
		metricsInstance.GetRegistry(),
		promhttp.HandlerOpts{})
	tracedMetricsHandler := otelhttp.NewHandler(metricsHandler, routes.MetricsRouteAPI)

	requireAuth := middleware.RequireAuth(tokens, store, logger)

	routeTable := map[string]http.HandlerFunc{
		routes.MetricsRouteAPI:   tracedMetricsHandler.ServeHTTP,
		routes.PingRouteAPI:      route.Ping,
		routes.RegisterRouteAPI:  route.Register,
		routes.LoginRouteAPI:     route.Login,
		routes.FeedRouteAPI:      requireAuth(http.HandlerFunc(route.Feed)).ServeHTTP,
		routes.CreatePostAPI:     requireAuth(http.HandlerFunc(route.CreatePost)).ServeHTTP,
		routes.ListUsersRouteAPI: requireAuth(http.HandlerFunc(route.ListUsers)).ServeHTTP,
		routes.GetUserRouteAPI:   requireAuth(http.HandlerFunc(route.GetUser)).ServeHTTP,
		routes.UserPostsRouteAPI: requireAuth(http.HandlerFunc(route.UserPosts)).ServeHTTP,
	}
	for pattern, handler := range routeTable {
		if err := app.Server.AddRoute(pattern, handler); err != nil {
			return nil, fmt.Errorf("failed to add route %s: %v", pattern, err)
		}
	}

	return app, nil
}

func (app *App) Run() error {
	if err := app.Server.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %v", err)
	}

	return nil
}

// initializeTokenService resolves the signing secret. An unset secret is a
// deployment misconfiguration unless the demo fallback is explicitly enabled.
func (app *App) initializeTokenService() (*auth.TokenService, error) {
	secret := app.Config.Auth.Secret
	if secret == "" {
		if !app.Config.Auth.AllowDemoSecret {
			return nil, fmt.Errorf("no token secret configured: set %s or auth.secret", config.EnvJWTSecret)
		}
		app.Logger.Warn("Using demo token secret, do not run this configuration in production")
		secret = demoSecret
	}

	return auth.NewTokenService(secret, app.Config.Auth.TokenTTL)
}

// selectStore resolves the persistence backend once, before the server starts
// accepting requests. A failed or unconfigured durable backend falls back to
// the seeded in-memory store so demo environments work without a database.
func (app *App) selectStore(ctx context.Context) (interfaces.Store, error) {
	switch app.Config.Database.Type {
	case "mongo":
		store, err := app.connectMongo(ctx)
		if err != nil {
			app.Logger.Warn("MongoDB unavailable, falling back to in-memory store", "error", err)
			return app.seededMemoryStore()
		}
		app.Logger.Info("Using MongoDB storage backend")
		return store, nil

	case "postgres":
		store, err := app.connectPostgres(ctx)
		if err != nil {
			app.Logger.Warn("PostgreSQL unavailable, falling back to in-memory store", "error", err)
			return app.seededMemoryStore()
		}
		app.Logger.Info("Using PostgreSQL storage backend")
		return store, nil

	case "memory":
		app.Logger.Info("Using in-memory storage backend")
		return app.seededMemoryStore()

	default:
		return nil, fmt.Errorf("unsupported database type: %s", app.Config.Database.Type)
	}
}

func (app *App) connectMongo(ctx context.Context) (interfaces.Store, error) {
	mongoCfg := &app.Config.Database.MongoDB
	if mongoCfg.URI == "" {
		return nil, fmt.Errorf("no MongoDB URI configured")
	}

	dbClient := mongoClient.NewMongoDB(mongoCfg, app.Logger)
	if err := dbClient.Connect(ctx, mongoCfg.URI); err != nil {
		return nil, err
	}

	store, err := mongoStore.NewStore(dbClient)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndices(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure indices: %w", err)
	}
	return store, nil
}

func (app *App) connectPostgres(ctx context.Context) (interfaces.Store, error) {
	pgCfg := &app.Config.Database.Postgres
	if pgCfg.DSN == "" {
		return nil, fmt.Errorf("no PostgreSQL DSN configured")
	}

	opts := pgCfg.Options
	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = pgClient.DefaultMaxOpenConns
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = pgClient.DefaultMaxIdleConns
	}
	if opts.ConnMaxLifetime == 0 {
		opts.ConnMaxLifetime = pgClient.DefaultConnMaxLifetime
	}

	dbClient := pgClient.NewPostgresDatabaseClient(
		opts.MaxOpenConns, opts.MaxIdleConns, opts.ConnMaxLifetime,
		pgCfg.Timeout, pgCfg.ValidTables, pgCfg.ValidFields)
	if err := dbClient.Connect(ctx, pgCfg.DSN); err != nil {
		return nil, err
	}

	store, err := postgresStore.NewStore(dbClient)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndices(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return store, nil
}

func (app *App) seededMemoryStore() (interfaces.Store, error) {
	store := memoryStore.NewStore()
	if err := store.Seed(); err != nil {
		return nil, fmt.Errorf("failed to seed memory store: %w", err)
	}
	app.Logger.Info("In-memory store seeded with demo data")
	return store, nil
}

func (app *App) initializeMetrics() interfaces.Metrics {
	appMetrics := metrics.NewMetrics(app.Config.ServiceName)
	appMetrics.RegisterCounter(routes.RegisterRequestsTotal, routes.RegisterRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.RegisterSuccessTotal, routes.RegisterSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.RegisterErrorsTotal, routes.RegisterErrorsTotalHelp)
	appMetrics.RegisterHistogram(
		routes.RegisterDurationSeconds,
		routes.RegisterDurationSecondsHelp,
		routes.RegisterDurationSecondsBuckets)

	appMetrics.RegisterCounter(routes.LoginRequestsTotal, routes.LoginRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.LoginSuccessTotal, routes.LoginSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.LoginFailedTotal, routes.LoginFailedTotalHelp)
	appMetrics.RegisterHistogram(
		routes.LoginDurationSeconds,
		routes.LoginDurationSecondsHelp,
		routes.LoginDurationSecondsBuckets)

	appMetrics.RegisterCounter(routes.PostCreateRequestsTotal, routes.PostCreateRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.PostCreateSuccessTotal, routes.PostCreateSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.PostCreateErrorsTotal, routes.PostCreateErrorsTotalHelp)
	appMetrics.RegisterHistogram(
		routes.PostCreateDurationSeconds,
		routes.PostCreateDurationSecondsHelp,
		routes.PostCreateDurationSecondsBuckets)

	appMetrics.RegisterCounter(routes.FeedRequestsTotal, routes.FeedRequestsTotalHelp)

	return appMetrics
}
