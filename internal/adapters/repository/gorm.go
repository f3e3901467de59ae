package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// kvEntry is the single table behind GormStore.
type kvEntry struct {
	Key       string `gorm:"column:entry_key;primaryKey;size:191"`
	Value     string `gorm:"column:entry_value;type:text;not null"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string { return "kv_entries" }

// GormStore is a KeyValueStore over SQLite (durable, local) or PostgreSQL
// (shared between instances).
type GormStore struct {
	db     *gorm.DB
	driver string
}

// OpenGorm connects to driver ("sqlite" or "postgres") at dsn and migrates
// the kv_entries table.
func OpenGorm(ctx context.Context, driver, dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStorage, driver, err)
	}

	if driver == DriverSQLite {
		// One connection serializes writers, which makes Update atomic.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.WithContext(ctx).AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("%w: migrate: %w", ErrStorage, err)
	}
	return &GormStore{db: db, driver: driver}, nil
}

func (g *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	v, ok, err := g.get(g.db.WithContext(ctx), key)
	return v, ok, observe("get", start, err)
}

func (g *GormStore) get(tx *gorm.DB, key string) (string, bool, error) {
	var e kvEntry
	err := tx.Where("entry_key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.Value, true, nil
}

func (g *GormStore) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	return observe("set", start, g.upsert(g.db.WithContext(ctx), key, value))
}

func (g *GormStore) upsert(tx *gorm.DB, key, value string) error {
	e := kvEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at"}),
	}).Create(&e).Error
}

// Update runs fn inside a transaction. On PostgreSQL a transaction-scoped
// advisory lock on the key serializes updaters, including the first insert.
func (g *GormStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	start := time.Now()
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if g.driver == DriverPostgres {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error; err != nil {
				return err
			}
		}
		cur, ok, err := g.get(tx, key)
		if err != nil {
			return err
		}
		next, err := fn(cur, ok)
		if err != nil {
			return abortError{err}
		}
		return g.upsert(tx, key, next)
	})
	return observe("update", start, err)
}

func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return sqlDB.Close()
}
