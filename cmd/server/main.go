package main

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"decision-analyzer/internal/api"
	"decision-analyzer/internal/config"
)

func main() {
	cfg, err := config.Load(os.Getenv("DECISION_CONFIG"))
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	cfg.ConfigureLogging()

	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logrus.Fatalf("create data directory: %v", err)
		}
	}

	server, err := api.NewServer(api.Config{
		DBPath:         cfg.DBPath,
		SilentDB:       cfg.SilentDB,
		AllowedOrigins: cfg.AllowedOrigins,
		CatalogPath:    cfg.CatalogPath,
		DefaultLocale:  cfg.DefaultLocale,
		AIConfig:       cfg.AI,
		DisableAI:      cfg.DisableAI,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
	})
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}
	defer func() {
		if cerr := server.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("close database")
		}
	}()

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	logrus.Infof("starting decision-analyzer on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
