package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventVoteRecorded    EventType = "vote_recorded"
	EventSurveyCreated   EventType = "survey_created"
	EventSurveyActivated EventType = "survey_activated"
	EventSurveyArchived  EventType = "survey_archived"
	EventSurveyDeleted   EventType = "survey_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SurveyID  string      `json:"survey_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// VoteRecordedPayload payload.
type VoteRecordedPayload struct {
	RespondentID   string `json:"respondent_id"`
	SelectionCount int    `json:"selection_count"`
}

// SurveyLifecyclePayload payload for created/activated/archived/deleted.
type SurveyLifecyclePayload struct {
	Title    string `json:"title"`
	IsActive bool   `json:"is_active"`
}
