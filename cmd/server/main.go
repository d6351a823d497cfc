package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"healthbite/backend/internal/api"
)

type serverConfig struct {
	Port     string
	LogLevel string
	LogJSON  bool
	API      api.Config
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("load .env")
	}

	cfg := loadConfig(os.Getenv)
	configureLogging(cfg.LogLevel, cfg.LogJSON)

	server, err := api.NewServer(cfg.API)
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

	logrus.WithFields(logrus.Fields{
		"port":      cfg.Port,
		"db_driver": cfg.API.DBDriver,
	}).Info("starting healthbite backend")
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}

func loadConfig(getenv func(string) string) serverConfig {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := serverConfig{
		Port:     env("PORT", "2000"),
		LogLevel: env("LOG_LEVEL", "info"),
		LogJSON:  strings.EqualFold(env("LOG_FORMAT", ""), "json"),
		API: api.Config{
			DBDriver:      env("DB_DRIVER", "sqlite"),
			DBDSN:         env("DB_DSN", env("HEALTHBITE_DB_PATH", "healthbite.db")),
			JWTSecret:     getenv("JWT_SECRET"),
			MenuRulesPath: env("MENU_RULES_PATH", ""),
			SeedCatalog:   env("SEED_CATALOG", api.SeedSample),
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://127.0.0.1:5173",
			},
		},
	}
	if v := env("MENU_WORKERS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.API.MenuWorkers = n
		}
	}
	if strings.EqualFold(cfg.API.SeedCatalog, "none") {
		cfg.API.SeedCatalog = api.SeedNone
	}
	if origins := env("ALLOWED_ORIGINS", ""); origins != "" {
		cfg.API.AllowedOrigins = splitList(origins)
		if len(cfg.API.AllowedOrigins) == 1 && cfg.API.AllowedOrigins[0] == "*" {
			cfg.API.AllowedOrigins = nil
		}
	}
	return cfg
}

func configureLogging(level string, json bool) {
	if json {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithField("level", level).Warn("unknown log level, using info")
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
