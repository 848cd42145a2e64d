package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-wishlist/api/controllers"
	"github.com/angelmondragon/storefront-wishlist/api/routes"
	"github.com/angelmondragon/storefront-wishlist/internal/cart"
	"github.com/angelmondragon/storefront-wishlist/internal/catalog"
	"github.com/angelmondragon/storefront-wishlist/internal/wishlist"
	"github.com/angelmondragon/storefront-wishlist/pkg/config"
	"github.com/angelmondragon/storefront-wishlist/pkg/db"
	"github.com/angelmondragon/storefront-wishlist/pkg/locale"
	"github.com/angelmondragon/storefront-wishlist/pkg/logger"
	"github.com/angelmondragon/storefront-wishlist/pkg/metrics"
	"github.com/angelmondragon/storefront-wishlist/pkg/migrate"
	"github.com/angelmondragon/storefront-wishlist/pkg/outbox"
	"github.com/angelmondragon/storefront-wishlist/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	bootCtx := context.Background()

	dbClient, err := db.New(bootCtx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(bootCtx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(bootCtx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	catalogClient, err := catalog.NewHTTPClient(cfg.Catalog, nil, metrics.NewBreakerMetrics(registry), logg)
	if err != nil {
		return err
	}
	lookup := catalog.NewCachedLookup(catalogClient, redisClient, cfg.Catalog.CacheTTL, logg)

	locales, err := locale.NewResolver(cfg.Storefront.DefaultLocale, cfg.Storefront.SupportedLocales)
	if err != nil {
		return err
	}
	urls, err := wishlist.NewSharedURLBuilder(cfg.Storefront.PublicBaseURL, locales.Default())
	if err != nil {
		return err
	}

	carts, err := cart.NewService(cart.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		return err
	}
	wishlists, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:         wishlist.NewRepository(dbClient.DB()),
		Tx:           dbClient,
		Carts:        carts,
		Outbox:       outbox.NewService(outbox.NewRepository(dbClient.DB()), logg),
		Logger:       logg,
		DefaultTitle: cfg.Storefront.DefaultWishlistTitle,
	})
	if err != nil {
		return err
	}

	handler := routes.NewRouter(cfg, logg, routes.Deps{
		Wishlists:   wishlists,
		Views:       wishlist.NewPresenter(lookup, urls, logg),
		Locales:     locales,
		Idempotency: redisClient,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
		Gatherer:    registry,
		Ready: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
