package db

import (
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/balkashynov/todue/internal/models"
)

// LogWork records a closed time tracking session
func (s *Store) LogWork(entry *models.WorkLog) error {
	if err := s.db.Omit(clause.Associations).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record work log: %w", err)
	}
	return nil
}

// WorkLogsBetween returns all sessions started in [from, to)
func (s *Store) WorkLogsBetween(from, to time.Time) ([]models.WorkLog, error) {
	var logs []models.WorkLog

	err := s.db.Where("started_at >= ? AND started_at < ?", from, to).
		Preload("Task").
		Order("started_at ASC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch work logs: %w", err)
	}
	return logs, nil
}
