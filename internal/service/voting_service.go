package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/survey-vote-service/internal/domain"
	"github.com/spec-kit/survey-vote-service/internal/events"
	"github.com/spec-kit/survey-vote-service/internal/repository"
	"github.com/spec-kit/survey-vote-service/internal/session"
	apperrors "github.com/spec-kit/survey-vote-service/pkg/util"
)

// SnapshotProvider supplies the submission-time view of a survey.
type SnapshotProvider interface {
	GetSnapshot(ctx context.Context, id string) (*domain.SurveySnapshot, error)
}

// VotingService coordinates the full submission flow: resolve identity,
// authorize a session, validate the selection, commit ledger rows, and
// retire the session. It is the only writer of vote records.
type VotingService struct {
	identity   *IdentityService
	sessions   *session.Authority
	snapshots  SnapshotProvider
	votes      repository.VoteRepository
	dispatcher events.Dispatcher
}

// VotingDependencies bundles collaborator requirements for the service.
type VotingDependencies struct {
	Identity   *IdentityService
	Sessions   *session.Authority
	Snapshots  SnapshotProvider
	VoteRepo   repository.VoteRepository
	Dispatcher events.Dispatcher
}

// NewVotingService constructs the service.
func NewVotingService(deps VotingDependencies) *VotingService {
	return &VotingService{
		identity:   deps.Identity,
		sessions:   deps.Sessions,
		snapshots:  deps.Snapshots,
		votes:      deps.VoteRepo,
		dispatcher: deps.Dispatcher,
	}
}

// AuthResult is an issued voting session.
type AuthResult struct {
	Token        string
	RespondentID string
	SurveyID     string
	ExpiresAt    time.Time
}

// Authenticate resolves the identity and issues a single-use session
// for the survey. Fails with SURVEY_CLOSED when the survey is missing
// or inactive, ALREADY_SUBMITTED when the ledger already holds rows for
// this identity and survey.
func (s *VotingService) Authenticate(ctx context.Context, externalID, name, cohort, surveyID string) (*AuthResult, error) {
	snapshot, err := s.fetchSnapshot(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if !snapshot.IsActive {
		return nil, apperrors.NewSurveyClosed()
	}

	respondent, err := s.identity.Resolve(ctx, externalID, name, cohort)
	if err != nil {
		return nil, err
	}

	record, err := s.sessions.Authorize(ctx, respondent, snapshot)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:        record.Token,
		RespondentID: record.RespondentID,
		SurveyID:     record.SurveyID,
		ExpiresAt:    s.sessions.ExpiresAt(record),
	}, nil
}

// SessionInfo reads a session without consuming it, for rendering the
// voting form. Returns nil for a dead, absent, or expired token.
func (s *VotingService) SessionInfo(ctx context.Context, token string) (*session.Record, error) {
	return s.sessions.Peek(ctx, token)
}

// Logout invalidates a session explicitly.
func (s *VotingService) Logout(ctx context.Context, token string) error {
	return s.sessions.Invalidate(ctx, token)
}

// Submit records the selection as one atomic write-set. The token is
// consumed first and is spent even when a later step rejects the
// submission; a rejected respondent must authenticate again.
func (s *VotingService) Submit(ctx context.Context, token string, optionIDs []string) (int, error) {
	record, err := s.sessions.Consume(ctx, token)
	if err != nil {
		return 0, err
	}

	// Fresh snapshot: the survey may have been archived since the
	// session was issued.
	snapshot, err := s.fetchSnapshot(ctx, record.SurveyID)
	if err != nil {
		return 0, err
	}
	if !snapshot.IsActive {
		return 0, apperrors.NewSurveyClosed()
	}

	priorCount, err := s.votes.CountForPair(ctx, record.RespondentID, record.SurveyID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if priorCount > 0 {
		return 0, apperrors.NewDuplicateSubmission()
	}

	if err := ValidateSubmission(snapshot, priorCount, optionIDs); err != nil {
		return 0, err
	}

	submittedAt := time.Now().UTC()
	records := make([]domain.VoteRecord, 0, len(optionIDs))
	for _, optionID := range optionIDs {
		records = append(records, domain.VoteRecord{
			RespondentID: record.RespondentID,
			SurveyID:     record.SurveyID,
			OptionID:     optionID,
			SubmittedAt:  submittedAt,
		})
	}

	if err := s.votes.InsertBatch(ctx, records); err != nil {
		// The ledger's uniqueness constraint is the last line of
		// defense; losing that race is a duplicate, not an outage.
		if repository.IsUniqueViolation(err) {
			return 0, apperrors.NewDuplicateSubmission()
		}
		return 0, apperrors.MapError(err)
	}

	s.publishVoteRecorded(ctx, record, len(records), submittedAt)
	return len(records), nil
}

func (s *VotingService) fetchSnapshot(ctx context.Context, surveyID string) (*domain.SurveySnapshot, error) {
	snapshot, err := s.snapshots.GetSnapshot(ctx, surveyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewSurveyClosed()
		}
		return nil, apperrors.MapError(err)
	}
	return snapshot, nil
}

func (s *VotingService) publishVoteRecorded(ctx context.Context, record *session.Record, count int, at time.Time) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventVoteRecorded,
		SurveyID:  record.SurveyID,
		Timestamp: at,
		Payload: events.VoteRecordedPayload{
			RespondentID:   record.RespondentID,
			SelectionCount: count,
		},
	})
}
