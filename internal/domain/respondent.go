package domain

import "time"

// Respondent is a resolved voter identity. ExternalID is the opaque
// identifier supplied at login (a student ID in the original deployment)
// and is unique across all respondents.
type Respondent struct {
	ID         string
	ExternalID string
	Name       string
	Cohort     string
	CreatedAt  time.Time
}
