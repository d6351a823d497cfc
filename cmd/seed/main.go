package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"healthbite/backend/internal/api"
	"healthbite/backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("load .env")
	}

	var (
		driver  = flag.String("driver", envOr("DB_DRIVER", store.DriverSQLite), "Database driver (sqlite or postgres)")
		dsn     = flag.String("dsn", envOr("DB_DSN", envOr("HEALTHBITE_DB_PATH", "healthbite.db")), "Database DSN or SQLite path")
		catalog = flag.String("catalog", api.SeedSample, "YAML catalog file, or \"sample\" for the built-in menu")
		replace = flag.Bool("replace", false, "Replace the whole catalog instead of seeding an empty one")
		subject = flag.String("token", "", "Also print a signed bearer token for this subject")
		ttl     = flag.Duration("ttl", 24*time.Hour, "Lifetime of the printed token")
	)
	flag.Parse()

	items, err := loadItems(*catalog)
	if err != nil {
		logrus.Fatalf("load catalog: %v", err)
	}

	db, err := store.Open(*driver, *dsn, true)
	if err != nil {
		logrus.Fatalf("open database: %v", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("close database")
		}
	}()

	written, err := writeCatalog(context.Background(), db, items, *replace)
	if err != nil {
		logrus.Fatalf("write catalog: %v", err)
	}
	logrus.WithFields(logrus.Fields{
		"source":  *catalog,
		"items":   written,
		"replace": *replace,
	}).Info("catalog seeding complete")

	if strings.TrimSpace(*subject) != "" {
		token, err := signToken(os.Getenv("JWT_SECRET"), *subject, *ttl)
		if err != nil {
			logrus.Fatalf("sign token: %v", err)
		}
		fmt.Println(token)
	}
}

func loadItems(source string) ([]store.FoodItem, error) {
	source = strings.TrimSpace(source)
	if source == "" || strings.EqualFold(source, api.SeedSample) {
		return store.SampleFoods(), nil
	}
	return store.LoadCatalogFile(source)
}

// writeCatalog returns how many rows were written. Without replace an existing
// catalog is left untouched.
func writeCatalog(ctx context.Context, db *store.Database, items []store.FoodItem, replace bool) (int, error) {
	if !replace {
		return db.SeedFoods(ctx, items)
	}
	if err := db.ReplaceFoods(ctx, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

func signToken(secret, subject string, ttl time.Duration) (string, error) {
	auth, err := api.NewAuthenticator(secret)
	if err != nil {
		return "", err
	}
	return auth.SignToken(subject, ttl)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
