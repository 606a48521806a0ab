package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/survey-vote-service/internal/domain"
)

// RespondentRepository defines persistence access for voter identities.
type RespondentRepository interface {
	Create(ctx context.Context, respondent *domain.Respondent) error
	GetByID(ctx context.Context, id string) (*domain.Respondent, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Respondent, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Respondent, error)
}

type respondentRepository struct {
	pool *pgxpool.Pool
}

// NewRespondentRepository returns a Postgres-backed implementation.
func NewRespondentRepository(pool *pgxpool.Pool) RespondentRepository {
	return &respondentRepository{pool: pool}
}

func (r *respondentRepository) Create(ctx context.Context, respondent *domain.Respondent) error {
	const query = `
        INSERT INTO respondents (external_id, name, cohort)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		respondent.ExternalID,
		respondent.Name,
		respondent.Cohort,
	).Scan(&respondent.ID, &respondent.CreatedAt)
}

func (r *respondentRepository) GetByID(ctx context.Context, id string) (*domain.Respondent, error) {
	const query = `
        SELECT id, external_id, name, cohort, created_at
        FROM respondents WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *respondentRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Respondent, error) {
	const query = `
        SELECT id, external_id, name, cohort, created_at
        FROM respondents WHERE external_id=$1`
	return r.fetchSingle(ctx, query, externalID)
}

func (r *respondentRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Respondent, error) {
	var respondent domain.Respondent
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&respondent.ID,
		&respondent.ExternalID,
		&respondent.Name,
		&respondent.Cohort,
		&respondent.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &respondent, nil
}

func (r *respondentRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Respondent, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `
        SELECT id, external_id, name, cohort, created_at
        FROM respondents WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Respondent
	for rows.Next() {
		var respondent domain.Respondent
		if err := rows.Scan(
			&respondent.ID,
			&respondent.ExternalID,
			&respondent.Name,
			&respondent.Cohort,
			&respondent.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, respondent)
	}
	return result, rows.Err()
}
