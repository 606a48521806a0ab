package session

import (
	"context"
	"time"
)

// Record is one live voting session: a single-use credential binding a
// respondent to exactly one survey.
type Record struct {
	Token        string    `json:"token"`
	RespondentID string    `json:"respondent_id"`
	SurveyID     string    `json:"survey_id"`
	Name         string    `json:"name"`
	IssuedAt     time.Time `json:"issued_at"`
}

// Store is the keyed token store behind the Authority. Implementations
// must make TakeAndDelete atomic: for any token, concurrent calls
// observe at most one non-nil result. The Authority handles TTL expiry
// itself, so stores may keep records past their lifetime.
type Store interface {
	// Put saves a record and replaces any prior live record for the
	// same respondent, invalidating the old token.
	Put(ctx context.Context, record Record, ttl time.Duration) error
	// Get returns the record for a token without consuming it, or nil
	// when absent.
	Get(ctx context.Context, token string) (*Record, error)
	// TakeAndDelete atomically reads and removes the record for a
	// token. Returns nil when the token is absent or already taken.
	TakeAndDelete(ctx context.Context, token string) (*Record, error)
	// Delete removes a record if present.
	Delete(ctx context.Context, token string) error
}
