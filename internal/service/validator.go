package service

import (
	"github.com/spec-kit/survey-vote-service/internal/domain"
	apperrors "github.com/spec-kit/survey-vote-service/pkg/util"
)

// ValidateSubmission checks a candidate selection against the survey
// snapshot and the prior ledger state. Pure function with a fixed check
// order; the first failing check determines the returned error, which
// keeps rejection reasons deterministic:
//
//  1. selection non-empty
//  2. no prior submission for this respondent and survey
//  3. selection count within the survey's limit (MULTI)
//  4. SINGLE surveys take exactly one selection
//  5. every option id valid for the survey, no repeats
func ValidateSubmission(snapshot *domain.SurveySnapshot, priorVoteCount int, optionIDs []string) error {
	if len(optionIDs) == 0 {
		return apperrors.NewEmptySelection()
	}

	if priorVoteCount > 0 {
		return apperrors.NewDuplicateSubmission()
	}

	if snapshot.SelectionType == domain.SelectionMulti && len(optionIDs) > snapshot.MaxSelections {
		return apperrors.NewTooManySelections(snapshot.MaxSelections)
	}

	// A SINGLE survey takes exactly one pick regardless of its
	// configured maximum.
	if snapshot.SelectionType == domain.SelectionSingle && len(optionIDs) != 1 {
		return apperrors.NewSingleChoiceViolation()
	}

	seen := make(map[string]struct{}, len(optionIDs))
	for _, optionID := range optionIDs {
		if !snapshot.HasOption(optionID) {
			return apperrors.NewInvalidOption(optionID)
		}
		if _, dup := seen[optionID]; dup {
			return apperrors.NewInvalidOption(optionID)
		}
		seen[optionID] = struct{}{}
	}

	return nil
}
