// Package sqlstore stores faucet claims in SQLite or PostgreSQL through gorm.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/goodnatureofminers/faucet-backend/internal/clock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Driver selects the SQL backend.
type Driver string

var (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const pingTimeout = 5 * time.Second

type Store struct {
	db      *gorm.DB
	metrics Metrics
	now     clock.NowFunc
}

// Open connects to the database and creates the claims table and its indexes when missing.
func Open(driver Driver, dsn string, metrics Metrics) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("sql store dsn is required")
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve %s sql db handle: %w", driver, err)
	}
	if driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if err := db.AutoMigrate(&claimRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate claims table: %w", err)
	}

	return &Store{db: db, metrics: metrics, now: clock.UTCNow}, nil
}

// Enabled reports that claims are tracked.
func (s *Store) Enabled() bool {
	return true
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
