package dto

import "time"

// StartSessionRequest starts a quiz for one topic
// @Description Request body for starting a quiz session
type StartSessionRequest struct {
	TopicID string `json:"topic_id"`
}

// AnswerRequest selects an option for the current question
// @Description Request body for answering the current question
type AnswerRequest struct {
	OptionIndex *int `json:"option_index"`
}

// QuestionView is the current question as shown to the player. The
// correct option stays hidden until the question is answered.
type QuestionView struct {
	ID            string   `json:"id"`
	Number        int      `json:"number"` // 1-based
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	Hint          string   `json:"hint,omitempty"`
	HintAvailable bool     `json:"hint_available"`
}

// AnswerView is the feedback for an answered question.
type AnswerView struct {
	OptionIndex        int  `json:"option_index"`
	IsCorrect          bool `json:"is_correct"`
	CorrectOptionIndex int  `json:"correct_option_index"`
}

// ResultView is the summary screen of a finished session.
type ResultView struct {
	Score   int    `json:"score"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// SessionResponse represents a quiz session in the API response
// @Description Quiz session state
type SessionResponse struct {
	ID             string        `json:"id"`
	TopicID        string        `json:"topic_id"`
	Theme          string        `json:"theme"`
	State          string        `json:"state"`
	Total          int           `json:"total"`
	Score          int           `json:"score"`
	HintVisible    bool          `json:"hint_visible"`
	IsLastQuestion bool          `json:"is_last_question"`
	Question       *QuestionView `json:"question,omitempty"`
	Answer         *AnswerView   `json:"answer,omitempty"`
	Result         *ResultView   `json:"result,omitempty"`
	Message        string        `json:"message,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// AnswerResponse carries the session after an answer and whether this
// call recorded it.
type AnswerResponse struct {
	Recorded bool             `json:"recorded"`
	Session  *SessionResponse `json:"session"`
}

// TopicResponse represents a topic in the API response
// @Description Topic information
type TopicResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// ThemeResponse represents a theme in the API response
type ThemeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
