package models

// Priority is the importance level of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// DeadlineLayout is the fixed text format deadlines are stored in (dd-mm-yyyy)
const DeadlineLayout = "02-01-2006"

// Rank orders priorities: High > Medium > Low. Unknown values rank as Low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// Urgent reports whether the priority counts as High or Medium for urgency rules
func (p Priority) Urgent() bool {
	return p == PriorityHigh || p == PriorityMedium
}

// Valid reports whether p is one of the three known priorities
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task represents a todo item
type Task struct {
	ID        uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string   `gorm:"not null" json:"title"`
	Deadline  string   `json:"deadline"` // dd-mm-yyyy, may be malformed in imported data
	Priority  Priority `json:"priority"`
	Completed bool     `json:"completed"`

	// Expected effort in seconds, nil when unknown
	Duration    *int `json:"duration"`
	ElapsedTime int  `gorm:"not null;default:0" json:"elapsed_time"`
}

// TableName keeps the table name used by databases created before versioned migrations
func (Task) TableName() string {
	return "tasks"
}
