package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lunchledger/internal/aggregate"
	"lunchledger/internal/auth"
	"lunchledger/internal/chat"
	"lunchledger/internal/chatparse"
	"lunchledger/internal/ledger/application"
	ledger "lunchledger/internal/ledger/domain"
	"lunchledger/internal/ledger/infrastructure/memory"
	"lunchledger/internal/ledger/infrastructure/postgres"
	adminhttp "lunchledger/internal/ledger/interfaces/http"
	"lunchledger/internal/observability/metrics"
	"lunchledger/internal/render"
	"lunchledger/internal/settle"
)

type config struct {
	HTTPAddr        string
	DatabaseURL     string
	JWTSecret       string
	RestaurantsPath string
	HelpPath        string
}

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	metrics.Init()

	store, cleanup, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatalf("store error: %v", err)
	}
	defer cleanup()

	restaurantLoader, err := application.NewRestaurantLoader(cfg.RestaurantsPath)
	if err != nil {
		logger.Fatalf("restaurants config error: %v", err)
	}

	agg := aggregate.New(restaurantLoader.Restaurants())
	settler := settle.NewCalculator()
	renderer := render.NewText()

	help, err := application.NewFileHelp(cfg.HelpPath)
	if err != nil {
		logger.Fatalf("help file error: %v", err)
	}
	composer, err := application.NewComposer(renderer, settler, help)
	if err != nil {
		logger.Fatalf("composer error: %v", err)
	}
	service, err := application.NewService(application.NewDeriver(), composer, store, agg, settler, logger)
	if err != nil {
		logger.Fatalf("service error: %v", err)
	}

	ctx := context.Background()
	if err := service.Replay(ctx); err != nil {
		logger.Fatalf("replay error: %v", err)
	}

	restaurantLoader.OnChange(func(restaurants map[ledger.RestaurantName]ledger.Restaurant) {
		service.SetRestaurants(restaurants)
		logger.Printf("restaurants reloaded: %d entries", len(restaurants))
	})
	stopWatch, err := restaurantLoader.Watch()
	if err != nil {
		logger.Fatalf("restaurants watch error: %v", err)
	}
	defer stopWatch()

	gateway, err := chat.NewGateway(service, chatparse.NewParser(), logger)
	if err != nil {
		logger.Fatalf("gateway error: %v", err)
	}
	adminHandler, err := adminhttp.NewHandler(service)
	if err != nil {
		logger.Fatalf("admin handler error: %v", err)
	}

	var authMW *auth.Middleware
	if cfg.JWTSecret != "" {
		authMW = auth.NewMiddleware([]byte(cfg.JWTSecret), auth.RoleMember)
	}

	router := chi.NewRouter()
	router.Use(loggingMiddleware(logger))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Handle("/ws", gateway)
	router.Mount("/", adminHandler.Router(authMW))

	logger.Printf("listening on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, router); err != nil {
		logger.Fatalf("http server error: %v", err)
	}
}

func openStore(cfg config, logger *log.Logger) (application.EventStore, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Printf("DATABASE_URL not set, using in-memory event store")
		return memory.NewEventStore(), func() {}, nil
	}
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, err
	}
	store := postgres.NewEventStore(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() { db.Close() }, nil
}

func loadConfig() config {
	return config{
		HTTPAddr:        getenvDefault("HTTP_ADDR", ":8080"),
		DatabaseURL:     getenvDefault("DATABASE_URL", os.Getenv("PG_DSN")),
		JWTSecret:       getenvDefault("AUTH_JWT_SECRET", os.Getenv("JWT_SECRET")),
		RestaurantsPath: os.Getenv("RESTAURANTS_CONFIG"),
		HelpPath:        os.Getenv("HELP_FILE"),
	}
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(resp, r)
			logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
