package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/survey-vote-service/internal/domain"
	"github.com/spec-kit/survey-vote-service/internal/events"
	"github.com/spec-kit/survey-vote-service/internal/repository"
	apperrors "github.com/spec-kit/survey-vote-service/pkg/util"
)

// SurveyService manages survey definitions for administrators.
type SurveyService struct {
	surveys    repository.SurveyRepository
	votes      repository.VoteRepository
	dispatcher events.Dispatcher
}

// SurveyDependencies bundles repositories for the survey service.
type SurveyDependencies struct {
	SurveyRepo repository.SurveyRepository
	VoteRepo   repository.VoteRepository
	Dispatcher events.Dispatcher
}

// NewSurveyService constructs the service.
func NewSurveyService(deps SurveyDependencies) *SurveyService {
	return &SurveyService{
		surveys:    deps.SurveyRepo,
		votes:      deps.VoteRepo,
		dispatcher: deps.Dispatcher,
	}
}

// SurveyInput describes a survey create/update payload.
type SurveyInput struct {
	Title         string
	Description   string
	SelectionType domain.SelectionType
	MaxSelections int
	Options       []SurveyOptionInput
}

// SurveyOptionInput describes one option in a survey payload.
type SurveyOptionInput struct {
	Label       string
	Description string
	MediaURL    string
	ImageURL    string
}

// SurveyOverview is a survey with its participation counts, for the
// admin dashboard listing.
type SurveyOverview struct {
	Survey      domain.Survey
	TotalVoters int
}

func (in SurveyInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return apperrors.NewValidationError("title is required", nil)
	}
	if !in.SelectionType.Valid() {
		return apperrors.NewValidationError("selection type must be SINGLE or MULTI", nil)
	}
	if in.MaxSelections < 1 {
		return apperrors.NewValidationError("max selections must be at least 1", nil)
	}
	for _, opt := range in.Options {
		if strings.TrimSpace(opt.Label) == "" {
			return apperrors.NewValidationError("option label is required", nil)
		}
	}
	return nil
}

func (in SurveyInput) toDomain() *domain.Survey {
	options := make([]domain.SurveyOption, 0, len(in.Options))
	for i, opt := range in.Options {
		options = append(options, domain.SurveyOption{
			Label:       opt.Label,
			Description: opt.Description,
			MediaURL:    opt.MediaURL,
			ImageURL:    opt.ImageURL,
			SortOrder:   i,
		})
	}
	return &domain.Survey{
		Title:         in.Title,
		Description:   in.Description,
		SelectionType: in.SelectionType,
		MaxSelections: in.MaxSelections,
		IsActive:      false,
		Options:       options,
	}
}

// Create persists a new survey. New surveys start inactive.
func (s *SurveyService) Create(ctx context.Context, input SurveyInput) (*domain.Survey, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	survey := input.toDomain()
	if err := s.surveys.Create(ctx, survey); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventSurveyCreated, survey)
	return survey, nil
}

// Update replaces a survey's definition and options.
func (s *SurveyService) Update(ctx context.Context, id string, input SurveyInput) (*domain.Survey, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	existing, err := s.getSurvey(ctx, id)
	if err != nil {
		return nil, err
	}

	survey := input.toDomain()
	survey.ID = existing.ID
	survey.IsActive = existing.IsActive
	survey.CreatedAt = existing.CreatedAt
	for i := range survey.Options {
		survey.Options[i].SurveyID = survey.ID
	}
	if err := s.surveys.Update(ctx, survey); err != nil {
		return nil, apperrors.MapError(err)
	}
	return survey, nil
}

// Toggle flips a survey between active and archived.
func (s *SurveyService) Toggle(ctx context.Context, id string) (*domain.Survey, error) {
	survey, err := s.getSurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.surveys.SetActive(ctx, id, !survey.IsActive); err != nil {
		return nil, apperrors.MapError(err)
	}
	survey.IsActive = !survey.IsActive

	eventType := events.EventSurveyArchived
	if survey.IsActive {
		eventType = events.EventSurveyActivated
	}
	s.publish(ctx, eventType, survey)
	return survey, nil
}

// Delete removes a survey together with its recorded votes. This is the
// only path that removes ledger rows.
func (s *SurveyService) Delete(ctx context.Context, id string) error {
	survey, err := s.getSurvey(ctx, id)
	if err != nil {
		return err
	}
	if err := s.votes.DeleteBySurvey(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.surveys.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventSurveyDeleted, survey)
	return nil
}

// Get returns a survey with its options.
func (s *SurveyService) Get(ctx context.Context, id string) (*domain.Survey, error) {
	return s.getSurvey(ctx, id)
}

// ListActive returns the surveys currently open for voting.
func (s *SurveyService) ListActive(ctx context.Context) ([]domain.Survey, error) {
	surveys, err := s.surveys.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return surveys, nil
}

// ListOverview returns all surveys with voter counts for the dashboard.
func (s *SurveyService) ListOverview(ctx context.Context) ([]SurveyOverview, error) {
	surveys, err := s.surveys.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	overviews := make([]SurveyOverview, 0, len(surveys))
	for _, survey := range surveys {
		voters, err := s.votes.DistinctVoterCount(ctx, survey.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		overviews = append(overviews, SurveyOverview{Survey: survey, TotalVoters: voters})
	}
	return overviews, nil
}

func (s *SurveyService) getSurvey(ctx context.Context, id string) (*domain.Survey, error) {
	survey, err := s.surveys.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("survey", map[string]any{"survey_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return survey, nil
}

func (s *SurveyService) publish(ctx context.Context, eventType events.EventType, survey *domain.Survey) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SurveyID:  survey.ID,
		Timestamp: time.Now().UTC(),
		Payload: events.SurveyLifecyclePayload{
			Title:    survey.Title,
			IsActive: survey.IsActive,
		},
	})
}
