package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"file-insight/internal/config"
	"file-insight/internal/handler"
	"file-insight/internal/logger"
	"file-insight/internal/model"
	"file-insight/internal/service"
	"file-insight/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := model.Migrate(db); err != nil {
		slog.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	store, err := storage.NewDir(cfg.Storage.Dir)
	if err != nil {
		slog.Error("storage init failed", "dir", cfg.Storage.Dir, "err", err)
		os.Exit(1)
	}

	gateway := service.NewGateway(cfg.AI, nil)
	if !gateway.Configured() {
		slog.Warn("AI gateway API key not configured, analyses will fail until it is set")
	}
	analysisSvc := service.NewAnalysisService(gateway)
	authSvc := service.NewAuthService(db)
	fileSvc := service.NewFileService(db, store, cfg.MaxUploadBytes())
	historySvc := service.NewHistoryService(db, fileSvc, analysisSvc)

	gin.SetMode(gin.ReleaseMode)
	r := handler.NewRouter(handler.Handlers{
		Process: handler.NewProcessHandler(analysisSvc),
		Auth:    handler.NewAuthHandler(authSvc, []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL),
		File:    handler.NewFileHandler(fileSvc, cfg.MaxUploadBytes()),
		Query:   handler.NewQueryHandler(historySvc),
		Health:  handler.NewHealthHandler(db, analysisSvc),
	}, handler.RouterConfig{
		JWTSecret: []byte(cfg.Auth.JWTSecret),
		TokenTTL:  cfg.Auth.TokenTTL,
	})

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "model", gateway.Model(), "db", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
