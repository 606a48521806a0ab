package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/survey-vote-service/internal/domain"
	"github.com/spec-kit/survey-vote-service/internal/repository"
	apperrors "github.com/spec-kit/survey-vote-service/pkg/util"
)

// ResultsService aggregates recorded votes for the admin dashboard and
// the export download.
type ResultsService struct {
	surveys     repository.SurveyRepository
	votes       repository.VoteRepository
	respondents repository.RespondentRepository
}

// NewResultsService constructs the service.
func NewResultsService(surveys repository.SurveyRepository, votes repository.VoteRepository, respondents repository.RespondentRepository) *ResultsService {
	return &ResultsService{surveys: surveys, votes: votes, respondents: respondents}
}

// ResultRow is one recorded selection joined with respondent and option
// display data.
type ResultRow struct {
	Name        string
	ExternalID  string
	Cohort      string
	OptionLabel string
	SubmittedAt time.Time
}

// ChartEntry is the per-option tally.
type ChartEntry struct {
	OptionID  string
	Label     string
	VoteCount int
}

// SurveyResults bundles everything the results view needs.
type SurveyResults struct {
	Survey      *domain.Survey
	Rows        []ResultRow
	Chart       []ChartEntry
	TotalVoters int
}

// Get assembles the full results for a survey.
func (s *ResultsService) Get(ctx context.Context, surveyID string) (*SurveyResults, error) {
	survey, err := s.surveys.GetByID(ctx, surveyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("survey", map[string]any{"survey_id": surveyID})
		}
		return nil, apperrors.MapError(err)
	}

	records, err := s.votes.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	respondentIDs := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		if _, ok := seen[record.RespondentID]; ok {
			continue
		}
		seen[record.RespondentID] = struct{}{}
		respondentIDs = append(respondentIDs, record.RespondentID)
	}

	respondents, err := s.respondents.ListByIDs(ctx, respondentIDs)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	respondentByID := make(map[string]domain.Respondent, len(respondents))
	for _, respondent := range respondents {
		respondentByID[respondent.ID] = respondent
	}

	labelByOption := make(map[string]string, len(survey.Options))
	for _, opt := range survey.Options {
		labelByOption[opt.ID] = opt.Label
	}

	rows := make([]ResultRow, 0, len(records))
	for _, record := range records {
		respondent := respondentByID[record.RespondentID]
		rows = append(rows, ResultRow{
			Name:        respondent.Name,
			ExternalID:  respondent.ExternalID,
			Cohort:      respondent.Cohort,
			OptionLabel: labelByOption[record.OptionID],
			SubmittedAt: record.SubmittedAt,
		})
	}

	counts, err := s.votes.CountByOption(ctx, surveyID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	chart := make([]ChartEntry, 0, len(survey.Options))
	for _, opt := range survey.Options {
		chart = append(chart, ChartEntry{
			OptionID:  opt.ID,
			Label:     opt.Label,
			VoteCount: counts[opt.ID],
		})
	}

	return &SurveyResults{
		Survey:      survey,
		Rows:        rows,
		Chart:       chart,
		TotalVoters: len(respondentIDs),
	}, nil
}

// WriteCSV streams the result roster as CSV.
func (s *ResultsService) WriteCSV(ctx context.Context, surveyID string, w io.Writer) error {
	results, err := s.Get(ctx, surveyID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"name", "external_id", "cohort", "selection", "submitted_at"}); err != nil {
		return apperrors.MapError(err)
	}
	for _, row := range results.Rows {
		record := []string{
			row.Name,
			row.ExternalID,
			row.Cohort,
			row.OptionLabel,
			row.SubmittedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return apperrors.MapError(err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
