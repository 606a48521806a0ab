package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/survey-vote-service/internal/domain"
	"github.com/spec-kit/survey-vote-service/internal/repository"
	apperrors "github.com/spec-kit/survey-vote-service/pkg/util"
)

// IdentityService resolves external identifiers to durable respondent
// records, creating one on first sight.
type IdentityService struct {
	respondents  repository.RespondentRepository
	validCohorts map[string]struct{}
}

// NewIdentityService builds the resolver. cohorts lists the accepted
// cohort values for newly created respondents.
func NewIdentityService(respondents repository.RespondentRepository, cohorts []string) *IdentityService {
	valid := make(map[string]struct{}, len(cohorts))
	for _, cohort := range cohorts {
		valid[cohort] = struct{}{}
	}
	return &IdentityService{respondents: respondents, validCohorts: valid}
}

// Resolve returns the respondent for externalID, creating one with the
// supplied attributes when none exists. Attributes on an existing
// respondent are left untouched: first write wins.
func (s *IdentityService) Resolve(ctx context.Context, externalID, name, cohort string) (*domain.Respondent, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, apperrors.NewValidationError("external id is required", nil)
	}

	existing, err := s.respondents.GetByExternalID(ctx, externalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if _, ok := s.validCohorts[cohort]; !ok {
		return nil, apperrors.NewValidationError("cohort is not valid", map[string]any{"cohort": cohort})
	}

	respondent := &domain.Respondent{
		ExternalID: externalID,
		Name:       name,
		Cohort:     cohort,
	}
	if err := s.respondents.Create(ctx, respondent); err != nil {
		// A concurrent first login for the same id can land first;
		// the existing record wins.
		if repository.IsUniqueViolation(err) {
			return s.lookupAfterRace(ctx, externalID)
		}
		return nil, apperrors.MapError(err)
	}
	return respondent, nil
}

func (s *IdentityService) lookupAfterRace(ctx context.Context, externalID string) (*domain.Respondent, error) {
	respondent, err := s.respondents.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return respondent, nil
}
