package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"maths-quest/internal/domain"
	"maths-quest/internal/repository/models"
	"maths-quest/internal/util"

	"github.com/jmoiron/sqlx"
)

type sqlxTopicRepository struct {
	db *sqlx.DB
}

// NewSQLXTopicRepository creates a new instance of sqlxTopicRepository.
func NewSQLXTopicRepository(db *sqlx.DB) domain.TopicRepository {
	return &sqlxTopicRepository{db: db}
}

func (r *sqlxTopicRepository) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	query := `SELECT id, name, description, icon, created_at, updated_at FROM topics ORDER BY name`

	var rows []models.Topic
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	topics := make([]domain.Topic, 0, len(rows))
	for i := range rows {
		topics = append(topics, *toDomainTopic(&rows[i]))
	}
	return topics, nil
}

func (r *sqlxTopicRepository) GetTopicByID(ctx context.Context, id string) (*domain.Topic, error) {
	query := `SELECT id, name, description, icon, created_at, updated_at FROM topics WHERE id = :1`

	var row models.Topic
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic by id: %w", err)
	}
	return toDomainTopic(&row), nil
}

// UpsertTopic inserts the topic or refreshes its name, description and icon.
func (r *sqlxTopicRepository) UpsertTopic(ctx context.Context, topic *domain.Topic) error {
	now := time.Now()
	query := `MERGE INTO topics t
	          USING (SELECT :1 AS id, :2 AS name, :3 AS description, :4 AS icon FROM dual) s
	          ON (t.id = s.id)
	          WHEN MATCHED THEN UPDATE SET t.name = s.name, t.description = s.description, t.icon = s.icon, t.updated_at = :5
	          WHEN NOT MATCHED THEN INSERT (id, name, description, icon, created_at, updated_at)
	          VALUES (s.id, s.name, s.description, s.icon, :6, :7)`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		topic.ID, topic.Name, util.StringToNullString(topic.Description), util.StringToNullString(topic.Icon),
		now, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert topic %s: %w", topic.ID, err)
	}
	topic.UpdatedAt = now
	if topic.CreatedAt.IsZero() {
		topic.CreatedAt = now
	}
	return nil
}

func toDomainTopic(m *models.Topic) *domain.Topic {
	return &domain.Topic{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description.String,
		Icon:        m.Icon.String,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
