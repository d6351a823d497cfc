package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm   *gorm.DB
	driver string
	mu     sync.Mutex
}

// Open initializes the database for the given driver. An empty driver selects SQLite,
// in which case dsn is a file path.
func Open(driver, dsn string, silent bool) (*Database, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		driver = DriverSQLite
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("database dsn required")
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&HealthProfile{}, &FoodItem{}, &DailyLog{}, &Order{}, &OrderItem{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if driver == DriverSQLite {
		if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
			logrus.WithError(err).Warn("enable WAL mode")
		}
		if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
			logrus.WithError(err).Warn("set synchronous pragma")
		}
	}
	if err := applyIndexes(db); err != nil {
		return nil, fmt.Errorf("apply indexes: %w", err)
	}
	return &Database{gorm: db, driver: driver}, nil
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Driver reports the driver the database was opened with.
func (d *Database) Driver() string {
	return d.driver
}

// Ping checks that the underlying connection is alive.
func (d *Database) Ping() error {
	if d == nil {
		return errors.New("database is nil")
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func applyIndexes(db *gorm.DB) error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_food_items_available_id ON food_items(is_available, id)",
		"CREATE INDEX IF NOT EXISTS idx_food_items_category ON food_items(category)",
		"CREATE INDEX IF NOT EXISTS idx_health_profiles_risk_level ON health_profiles(risk_level)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
