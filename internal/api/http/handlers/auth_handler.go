package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/survey-vote-service/internal/api/dto"
	"github.com/spec-kit/survey-vote-service/internal/auth"
	"github.com/spec-kit/survey-vote-service/internal/service"
	apperrors "github.com/spec-kit/survey-vote-service/pkg/util"
)

// AuthHandler manages voter and admin authentication endpoints.
type AuthHandler struct {
	voting *service.VotingService
	admins *service.AdminService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(voting *service.VotingService, admins *service.AdminService) *AuthHandler {
	return &AuthHandler{voting: voting, admins: admins}
}

// StudentLogin POST /api/auth/login.
func (h *AuthHandler) StudentLogin(c *fiber.Ctx) error {
	var req dto.StudentLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.SurveyID) == "" {
		return apperrors.NewValidationError("survey_id required", nil)
	}

	result, err := h.voting.Authenticate(c.UserContext(), req.ExternalID, req.Name, req.Cohort, req.SurveyID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SessionResponse{
		Token:        result.Token,
		RespondentID: result.RespondentID,
		SurveyID:     result.SurveyID,
		ExpiresAt:    result.ExpiresAt,
	}})
}

// SessionInfo GET /api/auth/session.
func (h *AuthHandler) SessionInfo(c *fiber.Ctx) error {
	token, ok := auth.BearerToken(c)
	if !ok {
		return c.JSON(fiber.Map{"data": dto.SessionInfoResponse{Active: false}})
	}

	record, err := h.voting.SessionInfo(c.UserContext(), token)
	if err != nil {
		return err
	}
	if record == nil {
		return c.JSON(fiber.Map{"data": dto.SessionInfoResponse{Active: false}})
	}
	return c.JSON(fiber.Map{"data": dto.SessionInfoResponse{
		Active:       true,
		RespondentID: record.RespondentID,
		SurveyID:     record.SurveyID,
		Name:         record.Name,
	}})
}

// Logout POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, ok := auth.BearerToken(c)
	if !ok {
		return apperrors.NewUnauthorized("missing or invalid authorization header")
	}
	if err := h.voting.Logout(c.UserContext(), token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// AdminLogin POST /api/auth/admin/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	admin, token, expiresAt, err := h.admins.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AdminAuthResponse{
		Token:     token,
		Username:  admin.Username,
		ExpiresAt: expiresAt,
	}})
}
