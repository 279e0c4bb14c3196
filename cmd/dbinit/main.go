package main

import (
	"context"
	"flag"
	"log"

	"file-insight/internal/config"
	"file-insight/internal/logger"
	"file-insight/internal/model"
	"file-insight/internal/service"
)

func main() {
	configFile := flag.String("config", "etc/config-dev.yaml", "config file")
	email := flag.String("email", "", "seed user email (optional)")
	password := flag.String("password", "", "seed user password")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(config.LogConfig{Level: "info", Console: true})

	db, err := cfg.OpenGormDB()
	if err != nil {
		log.Fatal(err)
	}

	// Step 1: tables
	if err := model.Migrate(db); err != nil {
		log.Fatal("migrate failed:", err)
	}
	logger.Info("schema ready", "driver", cfg.Database.Driver)

	// Step 2: seed user
	if *email != "" {
		if err := seedUser(context.Background(), service.NewAuthService(db), *email, *password); err != nil {
			log.Fatal("seed user failed:", err)
		}
	}

	logger.Info("=== all done ===")
}
