package handlers

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/survey-vote-service/internal/api/dto"
	"github.com/spec-kit/survey-vote-service/internal/service"
)

// ResultsHandler exposes vote aggregation for admins.
type ResultsHandler struct {
	results *service.ResultsService
}

// NewResultsHandler constructs handler.
func NewResultsHandler(results *service.ResultsService) *ResultsHandler {
	return &ResultsHandler{results: results}
}

// Get GET /api/admin/results/:surveyId.
func (h *ResultsHandler) Get(c *fiber.Ctx) error {
	results, err := h.results.Get(c.UserContext(), c.Params("surveyId"))
	if err != nil {
		return err
	}

	rows := make([]dto.ResultRowResponse, 0, len(results.Rows))
	for _, row := range results.Rows {
		rows = append(rows, dto.ResultRowResponse{
			Name:        row.Name,
			ExternalID:  row.ExternalID,
			Cohort:      row.Cohort,
			Selection:   row.OptionLabel,
			SubmittedAt: row.SubmittedAt,
		})
	}
	chart := make([]dto.ChartEntryResponse, 0, len(results.Chart))
	for _, entry := range results.Chart {
		chart = append(chart, dto.ChartEntryResponse{
			OptionID:  entry.OptionID,
			Label:     entry.Label,
			VoteCount: entry.VoteCount,
		})
	}

	return c.JSON(fiber.Map{"data": dto.ResultsResponse{
		Survey:      surveyDetail(results.Survey),
		Rows:        rows,
		Chart:       chart,
		TotalVoters: results.TotalVoters,
	}})
}

// Export GET /api/admin/results/:surveyId/export.
func (h *ResultsHandler) Export(c *fiber.Ctx) error {
	surveyID := c.Params("surveyId")

	var buf bytes.Buffer
	if err := h.results.WriteCSV(c.UserContext(), surveyID, &buf); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="results-%s.csv"`, surveyID))
	return c.Send(buf.Bytes())
}
