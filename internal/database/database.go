package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	_ "github.com/lib/pq"          // postgres driver
	_ "github.com/sijms/go-ora/v2" // oracle driver

	"quiz-arena/internal/config"
)

func init() {
	// go-ora registers as "oracle", which sqlx does not know; it takes :name placeholders.
	sqlx.BindDriver("oracle", sqlx.NAMED)
}

// Connect opens and pings the configured database.
func Connect(cfg *config.Config) (*sqlx.DB, error) {
	return NewSQLXDB(cfg.DB.Driver, cfg.GetDSN())
}

// NewSQLXDB opens a pooled connection for driver ("postgres" or "oracle") and verifies it.
func NewSQLXDB(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case "postgres", "oracle":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == "oracle" {
		// Oracle reports column names in upper case.
		db.Mapper = reflectx.NewMapperTagFunc("db", strings.ToUpper, strings.ToUpper)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	return db, nil
}
