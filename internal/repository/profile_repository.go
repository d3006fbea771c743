package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"maths-quest/internal/domain"
	"maths-quest/internal/repository/models"
	"maths-quest/internal/util"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, google_id, email, name, theme, progress, created_at, updated_at, deleted_at`

// sqlxProfileRepository implements domain.ProfileRepository on the users table.
type sqlxProfileRepository struct {
	db  *sqlx.DB
	txm domain.TransactionManager
}

// NewSQLXProfileRepository creates a new instance of sqlxProfileRepository.
func NewSQLXProfileRepository(db *sqlx.DB) domain.ProfileRepository {
	return &sqlxProfileRepository{db: db, txm: NewTransactionManagerAdapter(db)}
}

func (r *sqlxProfileRepository) GetProfileByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = :1 AND deleted_at IS NULL`, id)
}

func (r *sqlxProfileRepository) GetProfileByGoogleID(ctx context.Context, googleID string) (*domain.Profile, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE google_id = :1 AND deleted_at IS NULL`, googleID)
}

func (r *sqlxProfileRepository) getOne(ctx context.Context, query string, arg string) (*domain.Profile, error) {
	var user models.User
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Return nil, nil for not found, services can handle this
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toDomainProfile(&user), nil
}

// CreateProfile inserts a new user. An empty ID is filled with a ULID.
func (r *sqlxProfileRepository) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	if profile.ID == "" {
		profile.ID = util.NewULID()
	}
	now := time.Now()
	profile.CreatedAt, profile.UpdatedAt = now, now
	m := fromDomainProfile(profile)

	query := `INSERT INTO users (id, google_id, email, name, theme, progress, created_at, updated_at)
	          VALUES (:1, :2, :3, :4, :5, :6, :7, :8)`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID, m.GoogleID, m.Email, m.Name, m.Theme, m.Progress, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		// Oracle reports duplicate google_id as ORA-00001.
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateProfile only touches the columns set in upd.
func (r *sqlxProfileRepository) UpdateProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	if upd.IsEmpty() {
		profile, err := r.GetProfileByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, domain.NewNotFoundError("user not found")
		}
		return profile, nil
	}

	var setClauses []string
	var args []interface{}
	bind := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = :%d", column, len(args)))
	}
	if upd.DisplayName != nil {
		bind("name", util.PtrToNullString(upd.DisplayName))
	}
	if upd.Theme != nil {
		bind("theme", util.PtrToNullString(upd.Theme))
	}
	bind("updated_at", time.Now())
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = :%d AND deleted_at IS NULL`,
		strings.Join(setClauses, ", "), len(args))

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, domain.NewNotFoundError("user not found")
	}

	profile, err := r.GetProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.NewNotFoundError("user not found")
	}
	return profile, nil
}

// SaveProgress locks the user row, merges rec into the stored progress
// object and writes it back in one transaction.
func (r *sqlxProfileRepository) SaveProgress(ctx context.Context, id, topicID string, rec domain.ProgressRecord) error {
	return r.txm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, r.db)

		var stored models.ProgressMap
		err := exec.GetContext(ctx, &stored, `SELECT progress FROM users WHERE id = :1 AND deleted_at IS NULL FOR UPDATE`, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NewNotFoundError("user not found")
			}
			return fmt.Errorf("failed to lock user progress: %w", err)
		}

		merged := domain.WithProgress(toDomainProgress(stored), topicID, rec)

		_, err = exec.ExecContext(ctx, `UPDATE users SET progress = :1, updated_at = :2 WHERE id = :3`,
			fromDomainProgress(merged), time.Now(), id)
		if err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}
		return nil
	})
}

func toDomainProfile(m *models.User) *domain.Profile {
	return &domain.Profile{
		ID:          m.ID,
		GoogleID:    m.GoogleID,
		Email:       m.Email,
		DisplayName: m.Name.String,
		Theme:       m.Theme.String,
		Progress:    toDomainProgress(m.Progress),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fromDomainProfile(p *domain.Profile) *models.User {
	return &models.User{
		ID:        p.ID,
		GoogleID:  p.GoogleID,
		Email:     p.Email,
		Name:      util.StringToNullString(p.DisplayName),
		Theme:     util.StringToNullString(p.Theme),
		Progress:  fromDomainProgress(p.Progress),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toDomainProgress(m models.ProgressMap) map[string]domain.ProgressRecord {
	out := make(map[string]domain.ProgressRecord, len(m))
	for k, v := range m {
		out[k] = domain.ProgressRecord{Score: v.Score, Total: v.Total, LastAttempt: v.LastAttempt}
	}
	return out
}

func fromDomainProgress(p map[string]domain.ProgressRecord) models.ProgressMap {
	out := make(models.ProgressMap, len(p))
	for k, v := range p {
		out[k] = models.ProgressEntry{Score: v.Score, Total: v.Total, LastAttempt: v.LastAttempt}
	}
	return out
}
