package main

import (
	"time"

	"github.com/wfunc/townserver/config"
	"github.com/wfunc/townserver/logger"
	"github.com/wfunc/townserver/persistence"
	"github.com/wfunc/townserver/server"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Database
	db, err := persistence.NewGormPostgreSQL(
		cfg.Database.Postgres.Host,
		cfg.Database.Postgres.Port,
		cfg.Database.Postgres.User,
		cfg.Database.Postgres.Password,
		cfg.Database.Postgres.DBName,
	)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Log.Info("Database connection successful.")

	// Initialize Town Server
	townServer, err := server.NewTownServer(server.Options{
		HTTPAddress:    cfg.Server.HTTPAddress,
		RPCAddress:     cfg.Server.RPCAddress,
		MetricsAddress: cfg.Server.MetricsAddress,
		TokenSecret:    cfg.Auth.VideoTokenSecret,
		TokenTTL:       time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute,
		TownCapacity:   cfg.Town.DefaultCapacity,
		MapFile:        cfg.Town.MapFile,
	}, db)
	if err != nil {
		logger.Log.Fatalf("Failed to initialize server: %v", err)
	}

	// Start Server
	logger.Log.Infof("Starting town server on %s", cfg.Server.HTTPAddress)
	if err := townServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
