package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"time"
)

// ProgressEntry is one topic's stored progress.
type ProgressEntry struct {
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	LastAttempt time.Time `json:"last_attempt"`
}

// ProgressMap is the users.progress JSON object keyed by topic id.
type ProgressMap map[string]ProgressEntry

// Value implements the driver.Valuer interface
func (p ProgressMap) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (p *ProgressMap) Scan(value interface{}) error {
	b, err := jsonBytes(value, "ProgressMap")
	if err != nil {
		return err
	}
	m := ProgressMap{}
	if b != nil {
		if err := json.Unmarshal(b, &m); err != nil {
			return err
		}
	}
	*p = m
	return nil
}

// User represents a user in the system.
type User struct {
	ID        string         `db:"ID"`        // ULID
	GoogleID  string         `db:"GOOGLE_ID"` // Google's unique identifier for the user
	Email     string         `db:"EMAIL"`
	Name      sql.NullString `db:"NAME"`
	Theme     sql.NullString `db:"THEME"` // NULL until the user picks one
	Progress  ProgressMap    `db:"PROGRESS"`
	CreatedAt time.Time      `db:"CREATED_AT"`
	UpdatedAt time.Time      `db:"UPDATED_AT"`
	DeletedAt sql.NullTime   `db:"DELETED_AT"`
}
