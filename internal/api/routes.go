package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthbite/backend/internal/menu"
	"healthbite/backend/internal/order"
	"healthbite/backend/internal/profile"
	"healthbite/backend/internal/scoring"
	"healthbite/backend/internal/store"
	"healthbite/backend/internal/wellness"
)

// Catalog sources accepted by Config.SeedCatalog besides a file path.
const (
	SeedNone   = ""
	SeedSample = "sample"
)

// Config defines server dependencies.
type Config struct {
	DBDriver       string
	DBDSN          string
	SilentDB       bool
	JWTSecret      string
	MenuRulesPath  string
	MenuWorkers    int
	SeedCatalog    string
	AllowedOrigins []string
}

// Server wires HTTP handlers with persistence and scoring.
type Server struct {
	db             *store.Database
	profiles       *profile.Service
	menu           *menu.Service
	orders         *order.Service
	wellness       *wellness.Service
	scorer         *scoring.MenuScorer
	auth           *Authenticator
	rulesPath      string
	dbDriver       string
	allowedOrigins []string
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.DBDSN) == "" {
		return nil, errors.New("db dsn required")
	}
	auth, err := NewAuthenticator(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	var rules *scoring.MenuRules
	if path := strings.TrimSpace(cfg.MenuRulesPath); path != "" {
		rules, err = scoring.LoadMenuRules(path)
		if err != nil {
			return nil, fmt.Errorf("menu rules: %w", err)
		}
		logrus.WithField("path", path).Info("loaded menu rule table")
	}
	scorer, err := scoring.NewMenuScorer(rules)
	if err != nil {
		return nil, fmt.Errorf("menu scorer: %w", err)
	}

	db, err := store.Open(cfg.DBDriver, cfg.DBDSN, cfg.SilentDB)
	if err != nil {
		return nil, err
	}
	menuSvc, err := menu.NewService(db, db, scorer, cfg.MenuWorkers)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	orderSvc, err := order.NewService(db, db, scorer)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := seedCatalog(db, cfg.SeedCatalog); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Server{
		db:             db,
		profiles:       profile.NewService(db),
		menu:           menuSvc,
		orders:         orderSvc,
		wellness:       wellness.NewService(db, nil),
		scorer:         scorer,
		auth:           auth,
		rulesPath:      cfg.MenuRulesPath,
		dbDriver:       db.Driver(),
		allowedOrigins: cfg.AllowedOrigins,
	}, nil
}

func seedCatalog(db *store.Database, source string) error {
	source = strings.TrimSpace(source)
	if source == SeedNone {
		return nil
	}
	var items []store.FoodItem
	if strings.EqualFold(source, SeedSample) {
		items = store.SampleFoods()
	} else {
		loaded, err := store.LoadCatalogFile(source)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		items = loaded
	}
	written, err := db.SeedFoods(context.Background(), items)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if written > 0 {
		logrus.WithFields(logrus.Fields{"source": source, "items": written}).Info("seeded food catalog")
	}
	return nil
}

// Close releases the database handle.
func (s *Server) Close() error {
	return s.db.Close()
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader}
	corsCfg.ExposeHeaders = []string{requestIDHeader}
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	r.GET("/api/config", s.handleConfig)

	health := r.Group("/api/health", s.auth.Required())
	{
		health.POST("/step1", s.handleStep1)
		health.POST("/step2", s.handleStep2)
		health.POST("/finalize", s.handleFinalize)
		health.POST("/profile", s.handleSaveProfile)
		health.GET("/profile", s.handleGetProfile)
		health.GET("/check", s.handleCheck)
		health.GET("/report", s.handleReport)
		health.POST("/daily-log", s.handleLogDay)
		health.GET("/daily-log", s.handleGetDay)
	}

	r.GET("/api/menu/intelligent", s.auth.Optional(), s.handleIntelligentMenu)
	r.POST("/api/menu/order", s.auth.Required(), s.handlePlaceOrder)
	r.GET("/api/menu/history", s.auth.Required(), s.handleOrderHistory)

	foods := r.Group("/api/foods")
	{
		foods.GET("", s.handleListFoods)
		foods.GET("/:id", s.handleGetFood)
		foods.POST("", s.auth.Required(), s.handleCreateFood)
		foods.PATCH("/:id/availability", s.auth.Required(), s.handleSetAvailability)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.db.Ping(); err != nil {
		s.renderError(c, http.StatusServiceUnavailable, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	foods, err := s.db.CountFoods(c.Request.Context())
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	profiles, err := s.db.CountProfiles(c.Request.Context())
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	rules := s.scorer.Rules()
	rulesPath := s.rulesPath
	if rulesPath == "" {
		rulesPath = "embedded"
	}
	c.JSON(http.StatusOK, gin.H{
		"db_driver":       s.dbDriver,
		"menu_rules_path": rulesPath,
		"menu_baseline":   rules.Baseline,
		"menu_bands":      gin.H{"perfect": rules.Bands.Perfect, "caution": rules.Bands.Caution},
		"nutrient_rules":  len(rules.Nutrients),
		"food_items":      foods,
		"profiles":        profiles,
	})
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

// renderServiceError maps domain errors onto HTTP statuses.
func (s *Server) renderServiceError(c *gin.Context, err error) {
	var invalid *scoring.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		s.renderError(c, http.StatusBadRequest, invalid)
	case errors.Is(err, profile.ErrStepOrder):
		s.renderError(c, http.StatusBadRequest, profile.ErrStepOrder)
	case errors.Is(err, order.ErrEmptyOrder), errors.Is(err, order.ErrFoodUnavailable):
		s.renderError(c, http.StatusBadRequest, err)
	case errors.Is(err, store.ErrNotFound):
		s.renderError(c, http.StatusNotFound, err)
	default:
		logrus.WithError(err).WithField(requestIDKey, c.GetString(requestIDKey)).Error("request failed")
		s.renderError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

func parseUintParam(value string) (uint, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, errors.New("identifier is required")
	}
	parsed, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier: %w", err)
	}
	if parsed == 0 {
		return 0, errors.New("identifier must be greater than zero")
	}
	return uint(parsed), nil
}
