package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the task table plus the work log, backed by SQLite
type Store struct {
	db     *gorm.DB
	now    func() time.Time
	logger *slog.Logger
}

// Options configures Open
type Options struct {
	Path   string
	Debug  bool             // log SQL statements
	Now    func() time.Time // source of "today" for deadline validation
	Logger *slog.Logger
}

// Open sets up the database connection and runs migrations
func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		path, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get database path: %w", err)
		}
		opts.Path = path
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logMode := logger.Silent // Quiet by default
	if opts.Debug {
		logMode = logger.Info
	}
	conn, err := gorm.Open(sqlite.Open(opts.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: conn, now: opts.Now, logger: opts.Logger}
	if err := s.migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// DefaultPath returns the path to the SQLite database file
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".todue", "todue.db"), nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
