package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/survey-vote-service/internal/api/dto"
	"github.com/spec-kit/survey-vote-service/internal/auth"
	"github.com/spec-kit/survey-vote-service/internal/service"
	apperrors "github.com/spec-kit/survey-vote-service/pkg/util"
)

// VotesHandler accepts ballot submissions.
type VotesHandler struct {
	voting *service.VotingService
}

// NewVotesHandler constructs handler.
func NewVotesHandler(voting *service.VotingService) *VotesHandler {
	return &VotesHandler{voting: voting}
}

// Submit POST /api/votes. The bearer token is the single-use voting
// session; it is spent by this call whatever the outcome.
func (h *VotesHandler) Submit(c *fiber.Ctx) error {
	token, ok := auth.BearerToken(c)
	if !ok {
		return apperrors.NewSessionInvalid()
	}

	var req dto.SubmitVoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	count, err := h.voting.Submit(c.UserContext(), token, req.OptionIDs)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.SubmitVoteResponse{RecordedCount: count}})
}
