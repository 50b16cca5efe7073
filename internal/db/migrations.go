package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/todue/internal/models"
)

// schemaMigration records an applied migration
type schemaMigration struct {
	Version   int    `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"not null"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

type migration struct {
	version int
	name    string
	up      func(tx *gorm.DB) error
}

// migrations are applied in order, each at most once. Steps tolerate a schema
// that already has their change, so databases created before version tracking
// are adopted without data loss.
var migrations = []migration{
	{
		version: 1,
		name:    "create tasks",
		up: func(tx *gorm.DB) error {
			return tx.Exec(`CREATE TABLE IF NOT EXISTS tasks (
				id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT, deadline TEXT,
				priority TEXT, completed BOOLEAN)`).Error
		},
	},
	{
		version: 2,
		name:    "add tasks.duration",
		up: func(tx *gorm.DB) error {
			return addColumn(tx, &models.Task{}, "Duration")
		},
	},
	{
		version: 3,
		name:    "add tasks.elapsed_time",
		up: func(tx *gorm.DB) error {
			return addColumn(tx, &models.Task{}, "ElapsedTime")
		},
	},
	{
		version: 4,
		name:    "create work_logs",
		up: func(tx *gorm.DB) error {
			if tx.Migrator().HasTable(&models.WorkLog{}) {
				return nil
			}
			return tx.Migrator().CreateTable(&models.WorkLog{})
		},
	},
}

func addColumn(tx *gorm.DB, model interface{}, field string) error {
	if tx.Migrator().HasColumn(model, field) {
		return nil
	}
	return tx.Migrator().AddColumn(model, field)
}

// migrate creates/updates the database schema
func (s *Store) migrate() error {
	if err := s.db.AutoMigrate(&schemaMigration{}); err != nil {
		return err
	}

	var applied []schemaMigration
	if err := s.db.Find(&applied).Error; err != nil {
		return err
	}
	done := make(map[int]bool, len(applied))
	for _, m := range applied {
		done[m.Version] = true
	}

	for _, m := range migrations {
		if done[m.version] {
			continue
		}
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := m.up(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{Version: m.version, Name: m.name, AppliedAt: s.now()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		s.logger.Debug("applied migration", "version", m.version, "name", m.name)
	}
	return nil
}

// SchemaVersion returns the highest applied migration version
func (s *Store) SchemaVersion() (int, error) {
	var version int
	err := s.db.Model(&schemaMigration{}).Select("COALESCE(MAX(version), 0)").Scan(&version).Error
	return version, err
}
