package models

import (
	"time"
)

// TimerSession is one start/stop span of work on a task.
// A session with a nil EndedAt is open; a task has at most one open session.
type TimerSession struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TaskID          uint       `gorm:"not null;index;uniqueIndex:uq_timer_sessions_open,where:ended_at IS NULL" json:"task_id"`
	StartedAt       time.Time  `gorm:"not null" json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	DurationMinutes *float64   `json:"duration_minutes"` // set once, at stop
}

// Open reports whether the session is still running
func (s TimerSession) Open() bool {
	return s.EndedAt == nil
}
