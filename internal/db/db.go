package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
)

// Writers take the database lock when their transaction begins, so two
// concurrent read-then-write operations queue instead of interleaving.
const dsnOptions = "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_txlock=immediate"

// Store is the durable record store. A Store returned by Transaction is bound
// to that transaction.
type Store struct {
	db *gorm.DB
}

// Open sets up the database connection and runs migrations
func Open(dbPath string) (*Store, error) {
	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath+dsnOptions), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// DefaultPath returns the path to the SQLite database file under the home directory
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".studio", "studio.db"), nil
}

// runMigrations creates/updates the database schema
func (s *Store) runMigrations() error {
	return s.db.AutoMigrate(
		&models.Phase{},
		&models.TaskTemplate{},
		&models.ChecklistItem{},
		&models.TaskChecklistRequirement{},
		&models.ProjectTransitionRule{},
		&models.RuleRequirement{},
		&models.Project{},
		&models.Task{},
		&models.ChecklistResult{},
		&models.TimerSession{},
	)
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithContext returns a Store whose queries observe ctx
func (s *Store) WithContext(ctx context.Context) *Store {
	return &Store{db: s.db.WithContext(ctx)}
}

// Transaction runs fn as one unit of work. Every read and write fn makes
// through tx commits together, or none does when fn returns an error.
// Failures of the store itself come back as apperr.CodeUnavailable; errors
// returned by fn keep their own kind.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
	return apperr.Unavailable("transaction", err)
}

// lookupErr maps a failed point lookup to NotFound or Unavailable
func lookupErr(entity string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return apperr.Unavailable("load "+entity, err)
}
