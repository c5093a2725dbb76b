package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_shop/internal/catalog"
	"github.com/fjod/go_shop/internal/db"
	"github.com/fjod/go_shop/internal/kv"
	"github.com/fjod/go_shop/internal/orders"
	"github.com/fjod/go_shop/internal/server"
	"github.com/fjod/go_shop/internal/users"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	HTTPPort        string
	DBPath          string
	MigrationsPath  string
	RedisAddr       string
	RedisPassword   string
	CatalogURL      string
	JWTSecret       string
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "storefront.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		CatalogURL:      getEnv("CATALOG_URL", ""),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := db.RunMigrations(conn, cfg.MigrationsPath); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	log.Info("database ready", "path", cfg.DBPath)

	// The persistence medium: redis when configured, in-process otherwise.
	var medium kv.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer client.Close()
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Error("redis connection failed", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		log.Info("redis ping succeeded", "addr", cfg.RedisAddr)
		medium = kv.NewRedis(client)
	} else {
		medium = kv.NewMemory()
		log.Info("using in-memory cart persistence")
	}

	productRepo := catalog.NewRepository(conn)

	// Carts reconcile against the local catalog unless a remote products
	// endpoint is configured.
	var provider catalog.Provider = productRepo
	if cfg.CatalogURL != "" {
		provider = catalog.NewHTTPProvider(cfg.CatalogURL, nil)
		log.Info("reconciling against remote catalog", "url", cfg.CatalogURL)
	}

	userSvc := users.NewService(conn, []byte(cfg.JWTSecret))
	orderSvc := orders.NewService(conn, log)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      server.New(productRepo, userSvc, orderSvc, provider, medium, log).Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("storefront listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down storefront")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	log.Info("storefront stopped")
}
