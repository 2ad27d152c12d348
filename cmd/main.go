package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-user-portal/internal/handlers"
	"github.com/sbilibin2017/gw-user-portal/internal/logger"
	"github.com/sbilibin2017/gw-user-portal/internal/migrations"
	"github.com/sbilibin2017/gw-user-portal/internal/repositories"
	"github.com/sbilibin2017/gw-user-portal/internal/services"
	"github.com/sbilibin2017/gw-user-portal/internal/session"
	"github.com/sbilibin2017/gw-user-portal/internal/views"

	"github.com/sbilibin2017/gw-user-portal/internal/middlewares"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title gw-user-portal
// @version 1.0.0
// @description User registration, login and session-protected dashboard
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, logLevel,
		dbDriver, dbDSN, dbMaxOpenConns, dbMaxIdleConns,
		sessionSecretKey, sessionCookieSecure,
		kafkaBrokers, kafkaTopic,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, logLevel,
		dbDriver, dbDSN, dbMaxOpenConns, dbMaxIdleConns,
		sessionSecretKey, sessionCookieSecure,
		kafkaBrokers, kafkaTopic,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s\nCommit: %s\nBuild: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns
// application, database, session and Kafka configuration.
func parseConfig(path string) (
	appHost, appPort, logLevel string,
	dbDriver, dbDSN string, dbMaxOpenConns, dbMaxIdleConns int,
	sessionSecretKey string, sessionCookieSecure bool,
	kafkaBrokers []string, kafkaTopic string,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// Database config
	dbDriver = getEnv("DB_DRIVER", migrations.DriverSQLite)
	dbDSN = getEnv("DB_DSN", "users.db?_busy_timeout=5000")
	if dbMaxOpenConns, err = strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if dbMaxIdleConns, err = strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Session config
	sessionSecretKey = getEnv("SESSION_SECRET_KEY", "your-secret-key-here-change-in-production")
	if sessionCookieSecure, err = strconv.ParseBool(getEnv("SESSION_COOKIE_SECURE", "false")); err != nil {
		return
	}

	// Kafka config
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			kafkaBrokers = append(kafkaBrokers, b)
		}
	}
	kafkaTopic = getEnv("KAFKA_TOPIC", "user-events")

	return
}

// run initializes the logger, database, Kafka writer and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, logLevel string,
	dbDriver, dbDSN string, dbMaxOpenConns, dbMaxIdleConns int,
	sessionSecretKey string, sessionCookieSecure bool,
	kafkaBrokers []string, kafkaTopic string,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to database
	logger.Log.Infow("Connecting to database", "driver", dbDriver)
	db, err := sqlx.ConnectContext(ctx, dbDriver, dbDSN)
	if err != nil {
		return fmt.Errorf("database connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)

	if err := migrations.Up(ctx, db.DB, dbDriver); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Kafka writer, optional
	var events services.EventWriter
	if len(kafkaBrokers) > 0 {
		writer := &kafka.Writer{
			Addr:     kafka.TCP(kafkaBrokers...),
			Topic:    kafkaTopic,
			Balancer: &kafka.LeastBytes{},
			Async:    true,
		}
		defer writer.Close()
		events = writer
		logger.Log.Infow("Kafka publishing enabled", "brokers", kafkaBrokers, "topic", kafkaTopic)
	}

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, events)

	sessions := session.NewManager(sessionSecretKey, session.WithSecure(sessionCookieSecure))

	rd, err := views.New()
	if err != nil {
		return err
	}

	r := newRouter(authService, sessions, rd,
		fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}

// authService is what the auth handlers need from services.AuthService.
type authService interface {
	handlers.Registerer
	handlers.Loginer
}

// newRouter wires handlers and middleware.
func newRouter(svc authService, sessions middlewares.SessionStore, rd handlers.Renderer, swaggerURL string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(middlewares.SessionMiddleware(sessions))

	// Public routes
	r.Get("/", handlers.NewHomeHandler(rd))
	r.Get("/register", handlers.NewRegisterPageHandler(rd))
	r.Post("/register", handlers.NewRegisterHandler(svc, rd))
	r.Get("/login", handlers.NewLoginPageHandler(rd))
	r.Post("/login", handlers.NewLoginHandler(svc, rd))
	r.Get("/logout", handlers.NewLogoutHandler())

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middlewares.AuthMiddleware("/login"))
		r.Get("/dashboard", handlers.NewDashboardHandler(rd))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(swaggerURL),
	))

	return r
}
