package domain

import "time"

// SelectionType distinguishes single-pick surveys from bounded multi-pick ones.
type SelectionType string

const (
	SelectionSingle SelectionType = "SINGLE"
	SelectionMulti  SelectionType = "MULTI"
)

// Valid reports whether the selection type is a known value.
func (t SelectionType) Valid() bool {
	return t == SelectionSingle || t == SelectionMulti
}

// Survey is the aggregate an administrator manages.
type Survey struct {
	ID            string
	Title         string
	Description   string
	SelectionType SelectionType
	MaxSelections int
	IsActive      bool
	Options       []SurveyOption
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SurveyOption is a selectable choice within a survey.
type SurveyOption struct {
	ID          string
	SurveyID    string
	Label       string
	Description string
	MediaURL    string
	ImageURL    string
	SortOrder   int
}

// SurveySnapshot is the read-only projection of a survey used to
// validate one submission. It is fetched fresh at submission time and
// never cached across requests.
type SurveySnapshot struct {
	SurveyID      string
	IsActive      bool
	SelectionType SelectionType
	MaxSelections int
	ValidOptions  map[string]struct{}
}

// HasOption reports whether the option id belongs to the survey.
func (s SurveySnapshot) HasOption(optionID string) bool {
	_, ok := s.ValidOptions[optionID]
	return ok
}

// Snapshot projects the survey into its submission-time view.
func (s *Survey) Snapshot() SurveySnapshot {
	valid := make(map[string]struct{}, len(s.Options))
	for _, opt := range s.Options {
		valid[opt.ID] = struct{}{}
	}
	return SurveySnapshot{
		SurveyID:      s.ID,
		IsActive:      s.IsActive,
		SelectionType: s.SelectionType,
		MaxSelections: s.MaxSelections,
		ValidOptions:  valid,
	}
}
