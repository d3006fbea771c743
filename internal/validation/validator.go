package validation

import (
	"regexp"
	"strings"

	"maths-quest/internal/domain"
	"maths-quest/internal/dto"
	"maths-quest/internal/util"
)

var topicIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateStartSession accepts an empty topic, which yields an empty session.
func (v *Validator) ValidateStartSession(req dto.StartSessionRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if topicID := strings.TrimSpace(req.TopicID); topicID != "" && !topicIDPattern.MatchString(topicID) {
		errors = append(errors, domain.NewInvalidFormatError("topic_id", req.TopicID))
	}
	return errors
}

// ValidateAnswer validates the answer request
func (v *Validator) ValidateAnswer(req dto.AnswerRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if req.OptionIndex == nil {
		errors = append(errors, domain.NewMissingFieldError("option_index"))
	} else if *req.OptionIndex < 0 {
		errors = append(errors, domain.NewOutOfRangeError("option_index", *req.OptionIndex, 0, 100))
	}
	return errors
}

// ValidateSessionID validates a session path parameter
func (v *Validator) ValidateSessionID(id string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError("id"))
	} else if !util.IsULID(id) {
		errors = append(errors, domain.NewInvalidFormatError("id", id))
	}
	return errors
}

// ValidateSelectTheme validates the theme selection request
func (v *Validator) ValidateSelectTheme(req dto.SelectThemeRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(req.Theme) == "" {
		errors = append(errors, domain.NewMissingFieldError("theme"))
	} else if !domain.IsValidTheme(req.Theme) {
		errors = append(errors, domain.NewInvalidFormatError("theme", req.Theme))
	}
	return errors
}

// ValidateRefreshToken validates the refresh request
func (v *Validator) ValidateRefreshToken(req dto.RefreshTokenRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(req.RefreshToken) == "" {
		errors = append(errors, domain.NewMissingFieldError("refresh_token"))
	}
	return errors
}
