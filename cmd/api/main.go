package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/shieldwrapindia/shieldwrap-backend/api/routes"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/admins"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/auth"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/certificates"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/leads"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/products"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/resolver"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/settings"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/warranties"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/auth/session"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/config"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/logger"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/migrate"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/outbox"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/redis"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	exitOnError(logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	exitOnError(logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	err = migrate.MaybeRunDev(ctx, cfg, logg, dbClient)
	exitOnError(logg, "dev migrations", err)

	redisClient, err := redis.New(ctx, cfg.Redis)
	exitOnError(logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP)
	exitOnError(logg, "object storage", err)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	exitOnError(logg, "session manager", err)

	conn := dbClient.DB()

	adminRepo := admins.NewRepository(conn)
	authService, err := auth.NewService(adminRepo, sessionManager, cfg.JWT, logg)
	exitOnError(logg, "auth service", err)

	settingsService, err := settings.NewService(settings.NewRepository(conn), logg)
	exitOnError(logg, "settings service", err)

	productRepo := products.NewRepository(conn)
	productService, err := products.NewService(productRepo, logg)
	exitOnError(logg, "product service", err)

	warrantyRepo := warranties.NewRepository(conn)
	emitter := outbox.NewService(outbox.NewRepository(conn), logg)
	warrantyService, err := warranties.NewService(warrantyRepo, dbClient, gcsClient, emitter, logg)
	exitOnError(logg, "warranty service", err)

	exporter, err := warranties.NewExporter(warrantyRepo)
	exitOnError(logg, "warranty exporter", err)

	resolverService, err := resolver.NewService(warrantyRepo, productRepo, logg)
	exitOnError(logg, "resolver service", err)

	renderer, err := certificates.NewRenderer()
	exitOnError(logg, "certificate renderer", err)

	leadsService, err := leads.NewService(conn, logg)
	exitOnError(logg, "leads service", err)

	adminsService, err := admins.NewService(adminRepo, cfg.Password, logg)
	exitOnError(logg, "admins service", err)

	handler := routes.NewRouter(routes.RouterParams{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		Redis:      redisClient,
		GCS:        gcsClient,
		Sessions:   sessionManager,
		Auth:       authService,
		Settings:   settingsService,
		Products:   productService,
		Warranties: warrantyService,
		Exporter:   exporter,
		Resolver:   resolverService,
		Renderer:   renderer,
		Leads:      leadsService,
		Admins:     adminsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{Addr: addr, Handler: handler}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOnError(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to initialize "+resource, err)
	os.Exit(1)
}
