// main.go
package main

import (
	"context"
	"log"
	"time"

	"society-parking/cmd"
	"society-parking/internal/data/repository"
	"society-parking/internal/wire"
	"society-parking/pkg/database"
	"society-parking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger)

	// Start the live slot feed
	go app.Hub.Run()

	// Coarse periodic expiry sweep. Availability reads also sweep
	// opportunistically; this timer only bounds staleness for idle periods.
	go runSweeper(app, config.Parking.SweepIntervalMinutes, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}

func runSweeper(app *wire.App, intervalMinutes int, logger *zap.Logger) {
	if intervalMinutes <= 0 {
		intervalMinutes = 5
	}

	ticker := time.NewTicker(time.Duration(intervalMinutes) * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		expired, err := app.Service.Booking.ExpireElapsed(ctx, app.Clock.Now())
		cancel()

		if err != nil {
			logger.Error("Expiry sweep failed", zap.Error(err))
			continue
		}
		if expired > 0 {
			logger.Info("Expiry sweep closed bookings", zap.Int("expired", expired))
		}
	}
}
