package domain

import "time"

// VoteRecord is one immutable ledger fact: respondent R selected option
// O in survey S at time T. Records for one submission share the same
// SubmittedAt. The ledger never updates or deletes individual records;
// the only bulk removal happens when a survey is deleted outright.
type VoteRecord struct {
	RespondentID string
	SurveyID     string
	OptionID     string
	SubmittedAt  time.Time
}
