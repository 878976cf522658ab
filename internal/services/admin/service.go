// Package admin implements access code verification and the short lived
// admin sessions issued against verified codes.
package admin

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"dinehub/internal/database"
	"dinehub/internal/logger"
	"dinehub/internal/models"
)

// SessionTTL is how long an admin session stays valid after issue.
const SessionTTL = time.Hour

var (
	// ErrInvalidAccessCode covers unknown, malformed and deactivated codes.
	ErrInvalidAccessCode = errors.New("invalid access code")
	// ErrSessionExpired covers unknown, expired and invalidated sessions.
	ErrSessionExpired = errors.New("session expired")
)

// Service manages admin access codes and sessions.
type Service struct {
	db     *database.DB
	logger *logger.Logger
}

// NewService creates a new admin service
func NewService(db *database.DB, log *logger.Logger) *Service {
	return &Service{
		db:     db,
		logger: log,
	}
}

// VerifyAccessCode checks a six digit code against the active codes and
// stamps last_used_at on a match.
func (s *Service) VerifyAccessCode(ctx context.Context, code string) (*models.AdminAccess, error) {
	if !validAccessCode(code) {
		return nil, ErrInvalidAccessCode
	}

	var access models.AdminAccess
	err := s.db.QueryRow(ctx, database.GetActiveAccessCodeSQL, code).Scan(
		&access.ID, &access.AccessCode, &access.Description, &access.IsActive,
		&access.CreatedAt, &access.UpdatedAt, &access.LastUsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidAccessCode
		}
		return nil, err
	}

	if err := s.db.Exec(ctx, database.TouchAccessCodeSQL, access.ID); err != nil {
		return nil, err
	}
	return &access, nil
}

// CreateAccessCode registers a new active six digit access code.
func (s *Service) CreateAccessCode(ctx context.Context, code string, description *string) (*models.AdminAccess, error) {
	if !validAccessCode(code) {
		return nil, ErrInvalidAccessCode
	}

	access := models.AdminAccess{
		ID:          uuid.NewString(),
		AccessCode:  code,
		Description: description,
		IsActive:    true,
	}
	err := s.db.QueryRow(ctx, database.InsertAccessCodeSQL, access.ID, access.AccessCode, access.Description).Scan(&access.ID)
	if err != nil {
		return nil, err
	}
	return &access, nil
}

// CreateSession verifies the code and issues a session expiring after SessionTTL.
func (s *Service) CreateSession(ctx context.Context, code string) (*models.AdminSession, error) {
	access, err := s.VerifyAccessCode(ctx, code)
	if err != nil {
		return nil, err
	}

	session := models.AdminSession{
		ID:           uuid.NewString(),
		AccessCodeID: access.ID,
		ExpiresAt:    time.Now().Add(SessionTTL),
		IsActive:     true,
	}
	if err := s.db.Exec(ctx, database.InsertAdminSessionSQL, session.ID, session.AccessCodeID, session.ExpiresAt); err != nil {
		return nil, err
	}
	return &session, nil
}

// Session validates a session id and stamps last_accessed_at.
func (s *Service) Session(ctx context.Context, sessionID string) (*models.AdminSession, error) {
	var session models.AdminSession
	err := s.db.QueryRow(ctx, database.GetAdminSessionSQL, sessionID).Scan(
		&session.ID, &session.AccessCodeID, &session.CreatedAt,
		&session.LastAccessedAt, &session.ExpiresAt, &session.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}

	if err := s.db.Exec(ctx, database.TouchAdminSessionSQL, session.ID); err != nil {
		return nil, err
	}
	return &session, nil
}

// InvalidateSession deactivates a session. Unknown sessions are a no-op.
func (s *Service) InvalidateSession(ctx context.Context, sessionID string) error {
	return s.db.Exec(ctx, database.InvalidateAdminSessionSQL, sessionID)
}

// validAccessCode enforces the six digit code format.
func validAccessCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
