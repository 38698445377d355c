package db

import (
	"errors"

	"gorm.io/gorm"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
)

// OpenSession returns the task's running session, or nil when none is open
func (s *Store) OpenSession(taskID uint) (*models.TimerSession, error) {
	var session models.TimerSession
	err := s.db.Where("task_id = ? AND ended_at IS NULL", taskID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // No open session is not an error
	}
	if err != nil {
		return nil, apperr.Unavailable("load open session", err)
	}
	return &session, nil
}

// CreateSession inserts a new open session. A racing insert for the same
// task trips the open-session unique index and fails as Unavailable.
func (s *Store) CreateSession(session *models.TimerSession) error {
	return apperr.Unavailable("create timer session", s.db.Create(session).Error)
}

// CloseSession writes the end time and duration of a session
func (s *Store) CloseSession(session *models.TimerSession) error {
	err := s.db.Model(session).
		Select("ended_at", "duration_minutes").
		Updates(models.TimerSession{EndedAt: session.EndedAt, DurationMinutes: session.DurationMinutes}).Error
	return apperr.Unavailable("close timer session", err)
}

// ListSessions returns every session of a task, oldest first
func (s *Store) ListSessions(taskID uint) ([]models.TimerSession, error) {
	var sessions []models.TimerSession
	err := s.db.Where("task_id = ?", taskID).Order("started_at ASC, id ASC").Find(&sessions).Error
	if err != nil {
		return nil, apperr.Unavailable("list timer sessions", err)
	}
	return sessions, nil
}

// ListOpenSessions returns every running session, oldest first
func (s *Store) ListOpenSessions() ([]models.TimerSession, error) {
	var sessions []models.TimerSession
	err := s.db.Where("ended_at IS NULL").Order("started_at ASC, id ASC").Find(&sessions).Error
	if err != nil {
		return nil, apperr.Unavailable("list open timer sessions", err)
	}
	return sessions, nil
}
