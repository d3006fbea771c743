package domain

import (
	"time"
)

// ProgressRecord is the outcome of the last completed attempt at a topic.
type ProgressRecord struct {
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	LastAttempt time.Time `json:"last_attempt"`
}

// Profile is the user record the quiz flow reads theme and progress from.
type Profile struct {
	ID          string
	GoogleID    string
	Email       string
	DisplayName string
	Theme       string
	Progress    map[string]ProgressRecord
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FirstName is what the theme selector greets the user with.
func (p *Profile) FirstName() string {
	for i, r := range p.DisplayName {
		if r == ' ' {
			return p.DisplayName[:i]
		}
	}
	return p.DisplayName
}

// HasTheme reports whether the user has already chosen a theme.
func (p *Profile) HasTheme() bool {
	return p != nil && p.Theme != ""
}

// WithProgress returns a copy of progress with topicID overwritten by rec.
// Other topics are left untouched.
func WithProgress(progress map[string]ProgressRecord, topicID string, rec ProgressRecord) map[string]ProgressRecord {
	out := make(map[string]ProgressRecord, len(progress)+1)
	for k, v := range progress {
		out[k] = v
	}
	out[topicID] = rec
	return out
}

// ProfileUpdate carries the fields of a partial profile update; nil
// fields are left as they are.
type ProfileUpdate struct {
	DisplayName *string
	Theme       *string
}

func (u ProfileUpdate) IsEmpty() bool {
	return u.DisplayName == nil && u.Theme == nil
}
