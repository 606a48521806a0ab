package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/survey-vote-service/internal/domain"
)

// VoteRepository is the append-only vote ledger. InsertBatch is the only
// write path for individual records; DeleteBySurvey exists solely for
// survey deletion.
type VoteRepository interface {
	InsertBatch(ctx context.Context, records []domain.VoteRecord) error
	CountForPair(ctx context.Context, respondentID, surveyID string) (int, error)
	ListBySurvey(ctx context.Context, surveyID string) ([]domain.VoteRecord, error)
	CountByOption(ctx context.Context, surveyID string) (map[string]int, error)
	DistinctVoterCount(ctx context.Context, surveyID string) (int, error)
	DeleteBySurvey(ctx context.Context, surveyID string) error
}

type voteRepository struct {
	pool *pgxpool.Pool
}

// NewVoteRepository instantiates the ledger over a pgx pool.
func NewVoteRepository(pool *pgxpool.Pool) VoteRepository {
	return &voteRepository{pool: pool}
}

// InsertBatch writes all records in one transaction: either every row
// lands or none do. A unique violation on (respondent, survey, option)
// is returned as-is so callers can map it to a duplicate submission.
func (r *voteRepository) InsertBatch(ctx context.Context, records []domain.VoteRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO votes (respondent_id, survey_id, option_id, submitted_at)
        VALUES ($1,$2,$3,$4)`
	for _, record := range records {
		if _, err := tx.Exec(ctx, query,
			record.RespondentID,
			record.SurveyID,
			record.OptionID,
			record.SubmittedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *voteRepository) CountForPair(ctx context.Context, respondentID, surveyID string) (int, error) {
	const query = `SELECT COUNT(*) FROM votes WHERE respondent_id=$1 AND survey_id=$2`
	var count int
	if err := r.pool.QueryRow(ctx, query, respondentID, surveyID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *voteRepository) ListBySurvey(ctx context.Context, surveyID string) ([]domain.VoteRecord, error) {
	const query = `
        SELECT respondent_id, survey_id, option_id, submitted_at
        FROM votes WHERE survey_id=$1 ORDER BY submitted_at DESC`

	rows, err := r.pool.Query(ctx, query, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.VoteRecord
	for rows.Next() {
		var record domain.VoteRecord
		if err := rows.Scan(
			&record.RespondentID,
			&record.SurveyID,
			&record.OptionID,
			&record.SubmittedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

func (r *voteRepository) CountByOption(ctx context.Context, surveyID string) (map[string]int, error) {
	const query = `
        SELECT option_id, COUNT(*) FROM votes WHERE survey_id=$1 GROUP BY option_id`

	rows, err := r.pool.Query(ctx, query, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var optionID string
		var count int
		if err := rows.Scan(&optionID, &count); err != nil {
			return nil, err
		}
		counts[optionID] = count
	}
	return counts, rows.Err()
}

func (r *voteRepository) DistinctVoterCount(ctx context.Context, surveyID string) (int, error) {
	const query = `SELECT COUNT(DISTINCT respondent_id) FROM votes WHERE survey_id=$1`
	var count int
	if err := r.pool.QueryRow(ctx, query, surveyID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *voteRepository) DeleteBySurvey(ctx context.Context, surveyID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM votes WHERE survey_id=$1`, surveyID)
	return err
}
