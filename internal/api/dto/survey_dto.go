package dto

import (
	"time"

	"github.com/spec-kit/survey-vote-service/internal/domain"
)

// SurveyOptionPayload describes one option in a survey request.
type SurveyOptionPayload struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	MediaURL    string `json:"media_url,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// SurveyRequest payload for creating or updating a survey.
type SurveyRequest struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	SelectionType domain.SelectionType  `json:"selection_type"`
	MaxSelections int                   `json:"max_selections"`
	Options       []SurveyOptionPayload `json:"options"`
}

// SurveyOptionResponse describes one option in a survey response.
type SurveyOptionResponse struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	MediaURL    string `json:"media_url,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	SortOrder   int    `json:"sort_order"`
}

// SurveySummary is the public listing view of a survey.
type SurveySummary struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	SelectionType domain.SelectionType `json:"selection_type"`
	MaxSelections int                  `json:"max_selections"`
	IsActive      bool                 `json:"is_active"`
}

// SurveyDetailResponse is a survey with its options.
type SurveyDetailResponse struct {
	SurveySummary
	Options   []SurveyOptionResponse `json:"options"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// SurveyOverviewResponse is the admin dashboard listing entry.
type SurveyOverviewResponse struct {
	SurveyDetailResponse
	TotalVoters  int `json:"total_voters"`
	TotalOptions int `json:"total_options"`
}
