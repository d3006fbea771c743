package domain

import "context"

// QuestionRepository is the question content collaborator.
type QuestionRepository interface {
	// ListQuestionsByTopicAndTheme returns every question matching both
	// fields exactly, in no particular order.
	ListQuestionsByTopicAndTheme(ctx context.Context, topicID, theme string) ([]Question, error)

	// SaveQuestion persists a new question, assigning its ID.
	SaveQuestion(ctx context.Context, q *Question) error
}

// TopicRepository stores the topic catalogue.
type TopicRepository interface {
	ListTopics(ctx context.Context) ([]Topic, error)

	// GetTopicByID returns (nil, nil) when the topic does not exist.
	GetTopicByID(ctx context.Context, id string) (*Topic, error)

	UpsertTopic(ctx context.Context, topic *Topic) error
}

// ProfileRepository is the user/profile collaborator.
type ProfileRepository interface {
	// GetProfileByID returns (nil, nil) when no profile exists.
	GetProfileByID(ctx context.Context, id string) (*Profile, error)
	GetProfileByGoogleID(ctx context.Context, googleID string) (*Profile, error)
	CreateProfile(ctx context.Context, profile *Profile) error

	// UpdateProfile applies the non-nil fields of upd and returns the
	// resulting profile.
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*Profile, error)

	// SaveProgress overwrites the record for topicID, keeping other topics.
	SaveProgress(ctx context.Context, id, topicID string, rec ProgressRecord) error
}

// SessionStore keeps quiz sessions between requests.
type SessionStore interface {
	// Get returns ErrSessionNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (*QuizSession, error)
	Save(ctx context.Context, session *QuizSession) error
}

// HintGenerator writes a hint for a question that has none.
type HintGenerator interface {
	GenerateHint(ctx context.Context, q Question) (string, error)
}

// TransactionManager runs fn inside a database transaction carried by ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
