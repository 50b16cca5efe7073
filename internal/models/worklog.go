package models

import "time"

// WorkLog records one closed time tracking session
type WorkLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TaskID     uint      `gorm:"not null;index" json:"task_id"`
	StartedAt  time.Time `gorm:"not null" json:"started_at"`
	FinishedAt time.Time `gorm:"not null" json:"finished_at"`
	Seconds    int       `gorm:"not null" json:"seconds"`

	// Relationships
	Task Task `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"task"`
}
