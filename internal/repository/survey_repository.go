package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/survey-vote-service/internal/domain"
)

// SurveyRepository encapsulates survey definition persistence.
type SurveyRepository interface {
	Create(ctx context.Context, survey *domain.Survey) error
	Update(ctx context.Context, survey *domain.Survey) error
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	GetByID(ctx context.Context, id string) (*domain.Survey, error)
	ListActive(ctx context.Context) ([]domain.Survey, error)
	ListAll(ctx context.Context) ([]domain.Survey, error)
	GetSnapshot(ctx context.Context, id string) (*domain.SurveySnapshot, error)
}

type surveyRepository struct {
	pool *pgxpool.Pool
}

// NewSurveyRepository instantiates repository.
func NewSurveyRepository(pool *pgxpool.Pool) SurveyRepository {
	return &surveyRepository{pool: pool}
}

func (r *surveyRepository) Create(ctx context.Context, survey *domain.Survey) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO surveys (title, description, selection_type, max_selections, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		survey.Title,
		survey.Description,
		survey.SelectionType,
		survey.MaxSelections,
		survey.IsActive,
	).Scan(&survey.ID, &survey.CreatedAt, &survey.UpdatedAt); err != nil {
		return err
	}

	if err := insertOptions(ctx, tx, survey.ID, survey.Options); err != nil {
		return err
	}
	for i := range survey.Options {
		survey.Options[i].SurveyID = survey.ID
	}

	return tx.Commit(ctx)
}

func (r *surveyRepository) Update(ctx context.Context, survey *domain.Survey) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE surveys SET title=$1, description=$2, selection_type=$3, max_selections=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, query,
		survey.Title,
		survey.Description,
		survey.SelectionType,
		survey.MaxSelections,
		survey.ID,
	).Scan(&survey.UpdatedAt); err != nil {
		return err
	}

	// Options are replaced wholesale on every update.
	if _, err := tx.Exec(ctx, `DELETE FROM survey_options WHERE survey_id=$1`, survey.ID); err != nil {
		return err
	}
	if err := insertOptions(ctx, tx, survey.ID, survey.Options); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertOptions(ctx context.Context, tx pgx.Tx, surveyID string, options []domain.SurveyOption) error {
	const query = `
        INSERT INTO survey_options (survey_id, label, description, media_url, image_url, sort_order)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	for i := range options {
		opt := &options[i]
		if err := tx.QueryRow(ctx, query,
			surveyID,
			opt.Label,
			opt.Description,
			opt.MediaURL,
			opt.ImageURL,
			opt.SortOrder,
		).Scan(&opt.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *surveyRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM surveys WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *surveyRepository) SetActive(ctx context.Context, id string, active bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE surveys SET is_active=$1, updated_at=NOW() WHERE id=$2`, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *surveyRepository) GetByID(ctx context.Context, id string) (*domain.Survey, error) {
	const query = `
        SELECT id, title, description, selection_type, max_selections, is_active, created_at, updated_at
        FROM surveys WHERE id=$1`

	var survey domain.Survey
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&survey.ID,
		&survey.Title,
		&survey.Description,
		&survey.SelectionType,
		&survey.MaxSelections,
		&survey.IsActive,
		&survey.CreatedAt,
		&survey.UpdatedAt,
	); err != nil {
		return nil, err
	}

	options, err := r.listOptions(ctx, id)
	if err != nil {
		return nil, err
	}
	survey.Options = options
	return &survey, nil
}

func (r *surveyRepository) listOptions(ctx context.Context, surveyID string) ([]domain.SurveyOption, error) {
	const query = `
        SELECT id, survey_id, label, description, media_url, image_url, sort_order
        FROM survey_options WHERE survey_id=$1 ORDER BY sort_order`

	rows, err := r.pool.Query(ctx, query, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []domain.SurveyOption
	for rows.Next() {
		var opt domain.SurveyOption
		if err := rows.Scan(
			&opt.ID,
			&opt.SurveyID,
			&opt.Label,
			&opt.Description,
			&opt.MediaURL,
			&opt.ImageURL,
			&opt.SortOrder,
		); err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

func (r *surveyRepository) ListActive(ctx context.Context) ([]domain.Survey, error) {
	const query = `
        SELECT id, title, description, selection_type, max_selections, is_active, created_at, updated_at
        FROM surveys WHERE is_active=TRUE ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *surveyRepository) ListAll(ctx context.Context) ([]domain.Survey, error) {
	const query = `
        SELECT id, title, description, selection_type, max_selections, is_active, created_at, updated_at
        FROM surveys ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *surveyRepository) list(ctx context.Context, query string) ([]domain.Survey, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Survey
	for rows.Next() {
		var survey domain.Survey
		if err := rows.Scan(
			&survey.ID,
			&survey.Title,
			&survey.Description,
			&survey.SelectionType,
			&survey.MaxSelections,
			&survey.IsActive,
			&survey.CreatedAt,
			&survey.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, survey)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		options, err := r.listOptions(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Options = options
	}
	return result, nil
}

// GetSnapshot loads the submission-time projection of a survey in one pass.
func (r *surveyRepository) GetSnapshot(ctx context.Context, id string) (*domain.SurveySnapshot, error) {
	const query = `
        SELECT id, is_active, selection_type, max_selections
        FROM surveys WHERE id=$1`

	var snap domain.SurveySnapshot
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&snap.SurveyID,
		&snap.IsActive,
		&snap.SelectionType,
		&snap.MaxSelections,
	); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id FROM survey_options WHERE survey_id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snap.ValidOptions = make(map[string]struct{})
	for rows.Next() {
		var optionID string
		if err := rows.Scan(&optionID); err != nil {
			return nil, err
		}
		snap.ValidOptions[optionID] = struct{}{}
	}
	return &snap, rows.Err()
}
