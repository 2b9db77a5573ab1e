package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/bvsim-dev/bvsim/internal/api/handlers"
	"github.com/bvsim-dev/bvsim/internal/cache"
	"github.com/bvsim-dev/bvsim/internal/config"
	"github.com/bvsim-dev/bvsim/internal/storage"
	"github.com/bvsim-dev/bvsim/internal/team"
	"github.com/bvsim-dev/bvsim/internal/websocket"
	"github.com/bvsim-dev/bvsim/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	structuredLogger := logger.InitLogger("info", cfg.IsDevelopment())
	logger.WithService("bvsim").WithFields(logrus.Fields{
		"environment": cfg.Env,
		"port":        cfg.Port,
	}).Info("Starting simulation service")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database is optional: without it results simply aren't persisted
	var store *storage.Store
	var db *storage.DB
	if cfg.DatabaseURL != "" {
		db, err = storage.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
		if err != nil {
			logger.WithService("bvsim").Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		store = storage.NewStore(db, structuredLogger)
		if err := store.Migrate(); err != nil {
			logger.WithService("bvsim").Fatalf("Failed to migrate database: %v", err)
		}
	}

	// Redis is optional too: without it every request recomputes
	var redisClient *redis.Client
	var cacheService *cache.SimulationCacheService
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.WithService("bvsim").Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.WithService("bvsim").Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		cacheService = cache.NewSimulationCacheService(redisClient, structuredLogger)
	}

	wsHub := websocket.NewHub(structuredLogger)
	go wsHub.Run()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	simulationHandler := handlers.NewSimulationHandler(store, cacheService, wsHub, cfg, structuredLogger)
	skillsHandler := handlers.NewSkillsHandler(store, cacheService, cfg, structuredLogger)
	teamsHandler := handlers.NewTeamsHandler(team.NewTemplateProvider(), structuredLogger)
	healthHandler := handlers.NewHealthHandler(db, redisClient, structuredLogger)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/simulate", simulationHandler.RunSimulation)
		apiV1.GET("/simulate/:id", simulationHandler.GetSimulation)
		apiV1.GET("/simulations", simulationHandler.ListSimulations)

		apiV1.POST("/skills", skillsHandler.RunSkillAnalysis)
		apiV1.POST("/skills/statistical", skillsHandler.RunStatisticalAnalysis)

		apiV1.POST("/teams/validate", teamsHandler.ValidateTeam)
		apiV1.POST("/teams/parameters", teamsHandler.ListParameters)
		apiV1.GET("/teams/template/:type", teamsHandler.GetTemplate)
	}

	router.GET("/ws/simulation-progress/:simulation_id", wsHub.HandleWebSocket)

	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.WithService("bvsim").WithField("port", cfg.Port).Info("Simulation service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithService("bvsim").Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.WithService("bvsim").Info("Shutting down simulation service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithService("bvsim").Fatalf("Simulation service forced to shutdown: %v", err)
	}

	logger.WithService("bvsim").Info("Simulation service exited")
}
