package repository

import (
	"context"
	"fmt"
	"time"

	"maths-quest/internal/domain"
	"maths-quest/internal/repository/models"
	"maths-quest/internal/util"

	"github.com/jmoiron/sqlx"
)

const questionColumns = `id, topic_id, theme, question_text, options, correct_option_index, hint, created_at, updated_at, deleted_at`

// sqlxQuestionRepository implements domain.QuestionRepository using sqlx.
type sqlxQuestionRepository struct {
	db *sqlx.DB
}

// NewSQLXQuestionRepository creates a new instance of sqlxQuestionRepository.
func NewSQLXQuestionRepository(db *sqlx.DB) domain.QuestionRepository {
	return &sqlxQuestionRepository{db: db}
}

// ListQuestionsByTopicAndTheme returns the live questions for one (topic, theme) pair.
func (r *sqlxQuestionRepository) ListQuestionsByTopicAndTheme(ctx context.Context, topicID, theme string) ([]domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions
	          WHERE topic_id = :1 AND theme = :2 AND deleted_at IS NULL`

	var rows []models.Question
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, topicID, theme); err != nil {
		return nil, fmt.Errorf("failed to list questions for topic %s theme %s: %w", topicID, theme, err)
	}

	questions := make([]domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return questions, nil
}

// SaveQuestion inserts q, assigning a ULID when it has no ID yet.
func (r *sqlxQuestionRepository) SaveQuestion(ctx context.Context, q *domain.Question) error {
	if q.ID == "" {
		q.ID = util.NewULID()
	}
	m := fromDomainQuestion(q)
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now

	query := `INSERT INTO questions (id, topic_id, theme, question_text, options, correct_option_index, hint, created_at, updated_at)
	          VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID, m.TopicID, m.Theme, m.QuestionText, m.Options, m.CorrectOptionIndex, m.Hint, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}
	return nil
}

func toDomainQuestion(m *models.Question) domain.Question {
	options := make([]string, len(m.Options))
	copy(options, m.Options)
	return domain.Question{
		ID:                 m.ID,
		TopicID:            m.TopicID,
		Theme:              m.Theme,
		Text:               m.QuestionText,
		Options:            options,
		CorrectOptionIndex: m.CorrectOptionIndex,
		Hint:               m.Hint.String,
	}
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	return &models.Question{
		ID:                 q.ID,
		TopicID:            q.TopicID,
		Theme:              q.Theme,
		QuestionText:       q.Text,
		Options:            models.StringSlice(q.Options),
		CorrectOptionIndex: q.CorrectOptionIndex,
		Hint:               util.StringToNullString(q.Hint),
	}
}
