package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/survey-vote-service/internal/domain"
	apperrors "github.com/spec-kit/survey-vote-service/pkg/util"
)

// LedgerCounter is the slice of the vote ledger the Authority needs for
// its authorization-time duplicate pre-check.
type LedgerCounter interface {
	CountForPair(ctx context.Context, respondentID, surveyID string) (int, error)
}

// Authority issues and consumes single-use voting sessions. A token
// authorizes exactly one submission attempt: once consumed it is dead,
// whatever the outcome of that attempt.
type Authority struct {
	store  Store
	ledger LedgerCounter
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthority builds the authority over a token store and the ledger.
func NewAuthority(store Store, ledger LedgerCounter, ttl time.Duration) *Authority {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Authority{store: store, ledger: ledger, ttl: ttl, now: time.Now}
}

// Authorize issues a live token binding the respondent to the survey,
// replacing any prior live token the respondent holds. The duplicate
// check here is a usability short-circuit; the authoritative one runs
// again at submission time.
func (a *Authority) Authorize(ctx context.Context, respondent *domain.Respondent, snapshot *domain.SurveySnapshot) (*Record, error) {
	if !snapshot.IsActive {
		return nil, apperrors.NewSurveyClosed()
	}

	count, err := a.ledger.CountForPair(ctx, respondent.ID, snapshot.SurveyID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if count > 0 {
		return nil, apperrors.NewAlreadySubmitted()
	}

	record := Record{
		Token:        uuid.NewString(),
		RespondentID: respondent.ID,
		SurveyID:     snapshot.SurveyID,
		Name:         respondent.Name,
		IssuedAt:     a.now().UTC(),
	}
	if err := a.store.Put(ctx, record, a.ttl); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &record, nil
}

// Peek reads a token without consuming it. Returns nil for a dead,
// absent, or expired token.
func (a *Authority) Peek(ctx context.Context, token string) (*Record, error) {
	record, err := a.store.Get(ctx, token)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if record == nil {
		return nil, nil
	}
	if a.expired(record) {
		_ = a.store.Delete(ctx, token)
		return nil, nil
	}
	return record, nil
}

// Consume atomically reads and kills a token. Exactly one of any set of
// concurrent calls for the same token succeeds; the rest fail with
// SESSION_INVALID. This is the single-use gate that makes a replayed
// submission impossible.
func (a *Authority) Consume(ctx context.Context, token string) (*Record, error) {
	record, err := a.store.TakeAndDelete(ctx, token)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if record == nil || a.expired(record) {
		return nil, apperrors.NewSessionInvalid()
	}
	return record, nil
}

// Invalidate kills a token without reading it (logout).
func (a *Authority) Invalidate(ctx context.Context, token string) error {
	if err := a.store.Delete(ctx, token); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ExpiresAt reports when a record's token lapses.
func (a *Authority) ExpiresAt(record *Record) time.Time {
	return record.IssuedAt.Add(a.ttl)
}

// expired checks token age lazily against the TTL; no sweeper runs.
func (a *Authority) expired(record *Record) bool {
	return a.now().Sub(record.IssuedAt) > a.ttl
}
