package models

import "time"

// AdminAccess is a six digit access code granting admin tooling access
type AdminAccess struct {
	ID          string     `json:"id" db:"id"`
	AccessCode  string     `json:"access_code" db:"access_code"`
	Description *string    `json:"description,omitempty" db:"description"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty" db:"last_used_at"`
}

// AdminSession is a short lived session issued against an access code
type AdminSession struct {
	ID             string    `json:"id" db:"id"`
	AccessCodeID   string    `json:"access_code_id" db:"access_code_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at" db:"last_accessed_at"`
	ExpiresAt      time.Time `json:"expires_at" db:"expires_at"`
	IsActive       bool      `json:"is_active" db:"is_active"`
}
