package service

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/survey-vote-service/internal/domain"
	apperrors "github.com/spec-kit/survey-vote-service/pkg/util"
)

// fakeSurveyRepo is an in-memory SurveyRepository.
type fakeSurveyRepo struct {
	mu      sync.Mutex
	surveys map[string]domain.Survey
}

func newFakeSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{surveys: make(map[string]domain.Survey)}
}

func (r *fakeSurveyRepo) Create(_ context.Context, survey *domain.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if survey.ID == "" {
		survey.ID = uuid.NewString()
	}
	for i := range survey.Options {
		if survey.Options[i].ID == "" {
			survey.Options[i].ID = uuid.NewString()
		}
		survey.Options[i].SurveyID = survey.ID
	}
	survey.CreatedAt = time.Now().UTC()
	survey.UpdatedAt = survey.CreatedAt
	r.surveys[survey.ID] = *survey
	return nil
}

func (r *fakeSurveyRepo) Update(_ context.Context, survey *domain.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surveys[survey.ID]; !ok {
		return pgx.ErrNoRows
	}
	survey.UpdatedAt = time.Now().UTC()
	r.surveys[survey.ID] = *survey
	return nil
}

func (r *fakeSurveyRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surveys[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.surveys, id)
	return nil
}

func (r *fakeSurveyRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	survey, ok := r.surveys[id]
	if !ok {
		return pgx.ErrNoRows
	}
	survey.IsActive = active
	r.surveys[id] = survey
	return nil
}

func (r *fakeSurveyRepo) GetByID(_ context.Context, id string) (*domain.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	survey, ok := r.surveys[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := survey
	return &found, nil
}

func (r *fakeSurveyRepo) ListActive(_ context.Context) ([]domain.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Survey
	for _, survey := range r.surveys {
		if survey.IsActive {
			result = append(result, survey)
		}
	}
	return result, nil
}

func (r *fakeSurveyRepo) ListAll(_ context.Context) ([]domain.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Survey
	for _, survey := range r.surveys {
		result = append(result, survey)
	}
	return result, nil
}

func (r *fakeSurveyRepo) GetSnapshot(ctx context.Context, id string) (*domain.SurveySnapshot, error) {
	survey, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	snapshot := survey.Snapshot()
	return &snapshot, nil
}

func seedResultsFixture(t *testing.T) (*ResultsService, string) {
	t.Helper()
	ctx := context.Background()

	surveys := newFakeSurveyRepo()
	votes := newFakeVoteRepo()
	respondents := newFakeRespondentRepo()

	survey := &domain.Survey{
		Title:         "Student Council 2026",
		SelectionType: domain.SelectionSingle,
		MaxSelections: 1,
		IsActive:      true,
		Options: []domain.SurveyOption{
			{ID: "opt-a", Label: "Alpha"},
			{ID: "opt-b", Label: "Beta"},
		},
	}
	require.NoError(t, surveys.Create(ctx, survey))

	sari := &domain.Respondent{ExternalID: "S1", Name: "Sari", Cohort: "XI"}
	budi := &domain.Respondent{ExternalID: "S2", Name: "Budi", Cohort: "X"}
	require.NoError(t, respondents.Create(ctx, sari))
	require.NoError(t, respondents.Create(ctx, budi))

	submittedAt := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	require.NoError(t, votes.InsertBatch(ctx, []domain.VoteRecord{
		{RespondentID: sari.ID, SurveyID: survey.ID, OptionID: "opt-a", SubmittedAt: submittedAt},
	}))
	require.NoError(t, votes.InsertBatch(ctx, []domain.VoteRecord{
		{RespondentID: budi.ID, SurveyID: survey.ID, OptionID: "opt-a", SubmittedAt: submittedAt},
	}))

	return NewResultsService(surveys, votes, respondents), survey.ID
}

func TestResultsAggregation(t *testing.T) {
	svc, surveyID := seedResultsFixture(t)

	results, err := svc.Get(context.Background(), surveyID)
	require.NoError(t, err)

	assert.Equal(t, 2, results.TotalVoters)
	assert.Len(t, results.Rows, 2)

	// Chart follows option order and includes zero-vote options.
	require.Len(t, results.Chart, 2)
	assert.Equal(t, "Alpha", results.Chart[0].Label)
	assert.Equal(t, 2, results.Chart[0].VoteCount)
	assert.Equal(t, "Beta", results.Chart[1].Label)
	assert.Zero(t, results.Chart[1].VoteCount)
}

func TestResultsUnknownSurvey(t *testing.T) {
	svc, _ := seedResultsFixture(t)

	_, err := svc.Get(context.Background(), "missing")
	assert.Equal(t, "NOT_FOUND", apperrors.CodeOf(err))
}

func TestResultsCSVExport(t *testing.T) {
	svc, surveyID := seedResultsFixture(t)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(context.Background(), surveyID, &buf))

	out := buf.String()
	assert.Contains(t, out, "name,external_id,cohort,selection,submitted_at")
	assert.Contains(t, out, "Sari,S1,XI,Alpha,2026-08-30T10:00:00Z")
	assert.Contains(t, out, "Budi,S2,X,Alpha,2026-08-30T10:00:00Z")
}
