package domain

import (
	"time"
)

// Question is a multiple-choice question owned by the content store.
type Question struct {
	ID                 string   `json:"id"`
	TopicID            string   `json:"topic_id"`
	Theme              string   `json:"theme"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	Hint               string   `json:"hint,omitempty"`
}

// Validate validates the question
func (q *Question) Validate() error {
	if q.TopicID == "" {
		return NewInvalidInputError("topic id is required")
	}
	if !IsValidTheme(q.Theme) {
		return NewInvalidThemeError(q.Theme)
	}
	if q.Text == "" {
		return NewInvalidInputError("question text is required")
	}
	if len(q.Options) < 2 {
		return NewInvalidInputError("at least two options are required")
	}
	if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
		return NewInvalidOptionError(q.CorrectOptionIndex, len(q.Options))
	}
	return nil
}

// IsCorrect reports whether index is the correct option.
func (q *Question) IsCorrect(index int) bool {
	return index == q.CorrectOptionIndex
}

// Topic is a subject area grouping questions, e.g. "fractions".
type Topic struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (t *Topic) Validate() error {
	if t.ID == "" {
		return NewInvalidInputError("topic id is required")
	}
	if t.Name == "" {
		return NewInvalidInputError("topic name is required")
	}
	return nil
}

// Theme is a narrative skin that also filters question content.
type Theme struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

const (
	ThemeSpace    = "space"
	ThemeDinosaur = "dinosaur"
	ThemeMagic    = "magic"

	// LayoutThemeDefault is shown to users who have not picked a theme.
	LayoutThemeDefault = "default"
)

var themeCatalog = []Theme{
	{ID: ThemeSpace, Name: "Space Adventure", Description: "Explore galaxies and count the stars!"},
	{ID: ThemeDinosaur, Name: "Dinosaur Dig", Description: "Travel back in time and measure giant fossils!"},
	{ID: ThemeMagic, Name: "Magic School", Description: "Cast spells and solve enchanted equations!"},
}

// Themes returns the selectable themes in display order.
func Themes() []Theme {
	out := make([]Theme, len(themeCatalog))
	copy(out, themeCatalog)
	return out
}

func IsValidTheme(id string) bool {
	for _, t := range themeCatalog {
		if t.ID == id {
			return true
		}
	}
	return false
}
