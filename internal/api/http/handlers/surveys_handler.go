package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/survey-vote-service/internal/api/dto"
	"github.com/spec-kit/survey-vote-service/internal/domain"
	"github.com/spec-kit/survey-vote-service/internal/service"
)

// SurveysHandler serves the public survey views.
type SurveysHandler struct {
	surveys *service.SurveyService
}

// NewSurveysHandler constructs handler.
func NewSurveysHandler(surveys *service.SurveyService) *SurveysHandler {
	return &SurveysHandler{surveys: surveys}
}

// ListActive GET /api/surveys/active.
func (h *SurveysHandler) ListActive(c *fiber.Ctx) error {
	surveys, err := h.surveys.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.SurveySummary, 0, len(surveys))
	for i := range surveys {
		items = append(items, surveySummary(&surveys[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/surveys/:id.
func (h *SurveysHandler) Get(c *fiber.Ctx) error {
	survey, err := h.surveys.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": surveyDetail(survey)})
}

func surveySummary(survey *domain.Survey) dto.SurveySummary {
	return dto.SurveySummary{
		ID:            survey.ID,
		Title:         survey.Title,
		Description:   survey.Description,
		SelectionType: survey.SelectionType,
		MaxSelections: survey.MaxSelections,
		IsActive:      survey.IsActive,
	}
}

func surveyDetail(survey *domain.Survey) dto.SurveyDetailResponse {
	options := make([]dto.SurveyOptionResponse, 0, len(survey.Options))
	for _, opt := range survey.Options {
		options = append(options, dto.SurveyOptionResponse{
			ID:          opt.ID,
			Label:       opt.Label,
			Description: opt.Description,
			MediaURL:    opt.MediaURL,
			ImageURL:    opt.ImageURL,
			SortOrder:   opt.SortOrder,
		})
	}
	return dto.SurveyDetailResponse{
		SurveySummary: surveySummary(survey),
		Options:       options,
		CreatedAt:     survey.CreatedAt,
		UpdatedAt:     survey.UpdatedAt,
	}
}
