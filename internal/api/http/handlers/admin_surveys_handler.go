package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/survey-vote-service/internal/api/dto"
	"github.com/spec-kit/survey-vote-service/internal/service"
	apperrors "github.com/spec-kit/survey-vote-service/pkg/util"
)

// AdminSurveysHandler manages the back-office survey endpoints.
type AdminSurveysHandler struct {
	surveys *service.SurveyService
}

// NewAdminSurveysHandler constructs handler.
func NewAdminSurveysHandler(surveys *service.SurveyService) *AdminSurveysHandler {
	return &AdminSurveysHandler{surveys: surveys}
}

// List GET /api/admin/surveys.
func (h *AdminSurveysHandler) List(c *fiber.Ctx) error {
	overviews, err := h.surveys.ListOverview(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.SurveyOverviewResponse, 0, len(overviews))
	for i := range overviews {
		overview := &overviews[i]
		items = append(items, dto.SurveyOverviewResponse{
			SurveyDetailResponse: surveyDetail(&overview.Survey),
			TotalVoters:          overview.TotalVoters,
			TotalOptions:         len(overview.Survey.Options),
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create POST /api/admin/surveys.
func (h *AdminSurveysHandler) Create(c *fiber.Ctx) error {
	input, err := parseSurveyRequest(c)
	if err != nil {
		return err
	}
	survey, err := h.surveys.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": surveyDetail(survey)})
}

// Update PUT /api/admin/surveys/:id.
func (h *AdminSurveysHandler) Update(c *fiber.Ctx) error {
	input, err := parseSurveyRequest(c)
	if err != nil {
		return err
	}
	survey, err := h.surveys.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": surveyDetail(survey)})
}

// Toggle PATCH /api/admin/surveys/:id/toggle.
func (h *AdminSurveysHandler) Toggle(c *fiber.Ctx) error {
	survey, err := h.surveys.Toggle(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"id":        survey.ID,
		"is_active": survey.IsActive,
	}})
}

// Delete DELETE /api/admin/surveys/:id.
func (h *AdminSurveysHandler) Delete(c *fiber.Ctx) error {
	if err := h.surveys.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func parseSurveyRequest(c *fiber.Ctx) (service.SurveyInput, error) {
	var req dto.SurveyRequest
	if err := c.BodyParser(&req); err != nil {
		return service.SurveyInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	options := make([]service.SurveyOptionInput, 0, len(req.Options))
	for _, opt := range req.Options {
		options = append(options, service.SurveyOptionInput{
			Label:       opt.Label,
			Description: opt.Description,
			MediaURL:    opt.MediaURL,
			ImageURL:    opt.ImageURL,
		})
	}
	return service.SurveyInput{
		Title:         req.Title,
		Description:   req.Description,
		SelectionType: req.SelectionType,
		MaxSelections: req.MaxSelections,
		Options:       options,
	}, nil
}
