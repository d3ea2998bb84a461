package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"bloodconnect/internal/cart"
	"bloodconnect/internal/config"
	httpapi "bloodconnect/internal/http"
	"bloodconnect/internal/repository"
	"bloodconnect/internal/service"
	"bloodconnect/internal/session"
	"bloodconnect/internal/storage"

	_ "bloodconnect/docs"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	var (
		donationsRepo repository.DonationRepository
		medicinesRepo repository.MedicineRepository
		usersRepo     repository.UserRepository
		imagesRepo    repository.ImageRepository
	)
	if cfg.MongoDB.URI != "" {
		store, err := repository.NewMongoStore(&cfg.MongoDB)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := store.Ping(ctx); err != nil {
			cancel()
			logger.Fatal("MongoDB ping failed", zap.Error(err))
		}
		cancel()
		defer store.Close(context.Background())

		medicinesRepo = store
		donationsRepo = repository.NewMongoDonations(store)
		usersRepo = repository.NewMongoUsers(store)
		imagesRepo = repository.NewMongoImages(store)
		logger.Info("Using MongoDB store", zap.String("database", cfg.MongoDB.Database))
	} else {
		logger.Warn("mongodb.uri is empty, using in-memory store")
		store := repository.NewMemoryStore()
		medicinesRepo = store
		donationsRepo = repository.NewMemoryDonations(store)
		usersRepo = repository.NewMemoryUsers(store)
		imagesRepo = repository.NewMemoryImages(store)
	}

	var sessions session.Store
	if cfg.Redis.Addr != "" {
		rs := session.NewRedisStore(&cfg.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rs.Ping(ctx); err != nil {
			cancel()
			logger.Fatal("Redis ping failed", zap.Error(err))
		}
		cancel()
		defer rs.Close()
		sessions = rs
		logger.Info("Using Redis session store", zap.String("addr", cfg.Redis.Addr))
	} else {
		logger.Warn("redis.addr is empty, using in-memory session store")
		sessions = session.NewMemoryStore()
	}

	blobs := storage.NewLocalStore(cfg.Storage.Dir, cfg.Storage.BaseURL)

	authSvc := service.NewAuthService(usersRepo, sessions, &cfg.Auth)
	donationSvc := service.NewDonationService(donationsRepo)
	medicineSvc := service.NewMedicineService(medicinesRepo)
	imageSvc := service.NewImageService(imagesRepo, blobs)

	srv := httpapi.NewServer(logger, authSvc, donationSvc, medicineSvc, imageSvc, cart.NewStore())
	srv.ServeFiles(cfg.Storage.BaseURL, blobs.Dir())

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
