// Package app wires the stores, external sources and HTTP server into the
// running application.
package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estate-adviser/adviser"
	"estate-adviser/api"
	"estate-adviser/cache"
	"estate-adviser/config"
	"estate-adviser/database"
	"estate-adviser/geocode"
	"estate-adviser/modelstore"
	"estate-adviser/rates"
	"estate-adviser/scraper"
)

// App represents the main application
type App struct {
	config    *config.Config
	db        *database.Database
	redis     *cache.RedisClient
	models    *modelstore.Store
	svc       *adviser.Service
	refresher *adviser.Refresher
	server    *api.Server
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{config: cfg}
}

// Start starts the application and blocks until shutdown
func (a *App) Start() error {
	// 1. Database connection
	fmt.Println("🗄️  Connecting to database...")
	db, err := database.Connect(
		a.config.DatabaseHost,
		a.config.DatabasePort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	repo := database.NewPropertyRepository(db)
	if err := repo.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	// 2. Redis connection
	fmt.Println("🧠 Connecting to Redis...")
	redisClient := cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)
	if redisClient == nil {
		fmt.Println("⚠️  Redis connection failed. Forecast caching disabled.")
	} else {
		a.redis = redisClient
	}
	forecastCache := cache.NewForecastCache(a.redis,
		time.Duration(a.config.Pipeline.ForecastTTLMins)*time.Minute)

	// 3. Model blob store
	fmt.Println("📦 Opening model store...")
	models, err := modelstore.Open(a.config.ModelStorePath)
	if err != nil {
		return fmt.Errorf("model store open failed: %w", err)
	}
	a.models = models

	// 4. External sources
	source := scraper.NewClient(a.config.ScraperBaseURL)
	rateFeed := rates.NewClient(a.config.FredBaseURL, a.config.FredAPIKey, a.config.RateSeriesID)
	geocoder := geocode.NewNominatimClient(a.config.GeocoderBaseURL, a.config.GeocoderUserAgent)

	// 5. Adviser service + HTTP server
	a.svc = adviser.NewService(repo, models, source, rateFeed, geocoder,
		forecastCache, a.config.Pipeline, a.config.Training)
	a.server = api.NewServer(a.svc)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.Start(a.config.ServerPort)
	}()

	// 6. Background market refresher
	if a.config.Pipeline.RefreshHours > 0 {
		a.refresher = adviser.NewRefresher(a.svc,
			time.Duration(a.config.Pipeline.RefreshHours)*time.Hour)
		go a.refresher.Start()
	}

	// Wait for shutdown signal or server failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("📡 Received signal %v, shutting down...", sig)
	case err := <-serverErr:
		log.Printf("⚠️  API server stopped: %v", err)
	}

	a.shutdown()
	return nil
}

func (a *App) shutdown() {
	if a.refresher != nil {
		a.refresher.Stop()
	}
	if a.models != nil {
		if err := a.models.Close(); err != nil {
			log.Printf("⚠️  Model store close failed: %v", err)
		}
	}
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("⚠️  Database close failed: %v", err)
		}
	}
	log.Println("👋 Shutdown complete")
}
