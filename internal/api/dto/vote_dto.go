package dto

import "time"

// SubmitVoteRequest payload for a ballot submission.
type SubmitVoteRequest struct {
	OptionIDs []string `json:"option_ids"`
}

// SubmitVoteResponse reports how many selections were recorded.
type SubmitVoteResponse struct {
	RecordedCount int `json:"recorded_count"`
}

// ResultRowResponse is one line of the results roster.
type ResultRowResponse struct {
	Name        string    `json:"name"`
	ExternalID  string    `json:"external_id"`
	Cohort      string    `json:"cohort"`
	Selection   string    `json:"selection"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ChartEntryResponse is the per-option tally for charting.
type ChartEntryResponse struct {
	OptionID  string `json:"option_id"`
	Label     string `json:"label"`
	VoteCount int    `json:"vote_count"`
}

// ResultsResponse bundles the survey, roster, and chart data.
type ResultsResponse struct {
	Survey      SurveyDetailResponse `json:"survey"`
	Rows        []ResultRowResponse  `json:"results"`
	Chart       []ChartEntryResponse `json:"chart_data"`
	TotalVoters int                  `json:"total_voters"`
}
