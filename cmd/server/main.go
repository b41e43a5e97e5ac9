package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/fetch/api/internal/config"
	"github.com/forgo/fetch/api/internal/database"
	"github.com/forgo/fetch/api/internal/handler"
	"github.com/forgo/fetch/api/internal/jobs"
	"github.com/forgo/fetch/api/internal/middleware"
	"github.com/forgo/fetch/api/internal/repository"
	"github.com/forgo/fetch/api/internal/service"
	"github.com/forgo/fetch/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	requestRepo := repository.NewRequestRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)

	// Initialize services
	tokenService := service.NewTokenService(service.TokenServiceConfig{
		JWTService: jwtService,
	})

	requestService := service.NewRequestService(service.RequestServiceConfig{
		RequestRepo:     requestRepo,
		MaxUserRequests: cfg.Limits.MaxUserRequests,
	})

	favoriteService := service.NewFavoriteService(service.FavoriteServiceConfig{
		FavoriteRepo:     favoriteRepo,
		RequestRepo:      requestRepo,
		MaxUserFavorites: cfg.Limits.MaxUserFavorites,
	})

	// Start background jobs
	favoriteSweeper := jobs.NewFavoriteSweeper(favoriteService, cfg.Jobs.FavoriteSweepInterval)
	favoriteSweeper.Start()
	defer favoriteSweeper.Stop()

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	requestHandler := handler.NewRequestHandler(requestService)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	authMiddleware := middleware.Auth(tokenService)

	// Request endpoints
	mux.Handle("POST /v1/requests", authMiddleware(http.HandlerFunc(requestHandler.CreateRequest)))
	mux.Handle("GET /v1/requests", authMiddleware(http.HandlerFunc(requestHandler.ListRequests)))
	mux.Handle("GET /v1/requests/{requestId}", authMiddleware(http.HandlerFunc(requestHandler.GetRequest)))
	mux.Handle("PATCH /v1/requests/{requestId}", authMiddleware(http.HandlerFunc(requestHandler.UpdateRequest)))
	mux.Handle("DELETE /v1/requests/{requestId}", authMiddleware(http.HandlerFunc(requestHandler.DeleteRequest)))
	mux.Handle("GET /v1/profile/requests", authMiddleware(http.HandlerFunc(requestHandler.GetMyRequests)))
	mux.Handle("GET /v1/users/{userId}/requests", authMiddleware(http.HandlerFunc(requestHandler.GetUserRequests)))

	// Favorite endpoints
	mux.Handle("POST /v1/favorites", authMiddleware(http.HandlerFunc(favoriteHandler.CreateFavorite)))
	mux.Handle("GET /v1/favorites/{favoriteId}", authMiddleware(http.HandlerFunc(favoriteHandler.GetFavorite)))
	mux.Handle("DELETE /v1/favorites/{favoriteId}", authMiddleware(http.HandlerFunc(favoriteHandler.DeleteFavorite)))
	mux.Handle("GET /v1/profile/favorites", authMiddleware(http.HandlerFunc(favoriteHandler.GetMyFavorites)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
