package dto

// HomeResponse is the landing screen: theme picker for new users, topic
// list for everyone who already has a theme.
// @Description Landing screen data
type HomeResponse struct {
	User       *UserProfileResponse `json:"user,omitempty"`
	Theme      string               `json:"theme"`
	NeedsTheme bool                 `json:"needs_theme"`
	Themes     []ThemeResponse      `json:"themes"`
	Topics     []TopicResponse      `json:"topics"`
}

// HealthResponse reports dependency status.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
