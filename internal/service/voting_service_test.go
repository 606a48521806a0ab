package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/survey-vote-service/internal/domain"
	"github.com/spec-kit/survey-vote-service/internal/session"
	apperrors "github.com/spec-kit/survey-vote-service/pkg/util"
)

// fakeRespondentRepo is an in-memory RespondentRepository.
type fakeRespondentRepo struct {
	mu           sync.Mutex
	byExternalID map[string]domain.Respondent
}

func newFakeRespondentRepo() *fakeRespondentRepo {
	return &fakeRespondentRepo{byExternalID: make(map[string]domain.Respondent)}
}

func (r *fakeRespondentRepo) Create(_ context.Context, respondent *domain.Respondent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byExternalID[respondent.ExternalID]; exists {
		return &pgconn.PgError{Code: "23505"}
	}
	respondent.ID = uuid.NewString()
	respondent.CreatedAt = time.Now().UTC()
	r.byExternalID[respondent.ExternalID] = *respondent
	return nil
}

func (r *fakeRespondentRepo) GetByID(_ context.Context, id string) (*domain.Respondent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, respondent := range r.byExternalID {
		if respondent.ID == id {
			found := respondent
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeRespondentRepo) GetByExternalID(_ context.Context, externalID string) (*domain.Respondent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	respondent, ok := r.byExternalID[externalID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := respondent
	return &found, nil
}

func (r *fakeRespondentRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Respondent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var result []domain.Respondent
	for _, respondent := range r.byExternalID {
		if _, ok := wanted[respondent.ID]; ok {
			result = append(result, respondent)
		}
	}
	return result, nil
}

// fakeVoteRepo is an in-memory ledger enforcing the same uniqueness
// constraint as the votes table.
type fakeVoteRepo struct {
	mu   sync.Mutex
	rows map[string]domain.VoteRecord
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{rows: make(map[string]domain.VoteRecord)}
}

func ledgerKey(record domain.VoteRecord) string {
	return record.RespondentID + "|" + record.SurveyID + "|" + record.OptionID
}

func (r *fakeVoteRepo) InsertBatch(_ context.Context, records []domain.VoteRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range records {
		if _, exists := r.rows[ledgerKey(record)]; exists {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	for _, record := range records {
		r.rows[ledgerKey(record)] = record
	}
	return nil
}

func (r *fakeVoteRepo) CountForPair(_ context.Context, respondentID, surveyID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, record := range r.rows {
		if record.RespondentID == respondentID && record.SurveyID == surveyID {
			count++
		}
	}
	return count, nil
}

func (r *fakeVoteRepo) ListBySurvey(_ context.Context, surveyID string) ([]domain.VoteRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.VoteRecord
	for _, record := range r.rows {
		if record.SurveyID == surveyID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *fakeVoteRepo) CountByOption(_ context.Context, surveyID string) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int)
	for _, record := range r.rows {
		if record.SurveyID == surveyID {
			counts[record.OptionID]++
		}
	}
	return counts, nil
}

func (r *fakeVoteRepo) DistinctVoterCount(_ context.Context, surveyID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	voters := make(map[string]struct{})
	for _, record := range r.rows {
		if record.SurveyID == surveyID {
			voters[record.RespondentID] = struct{}{}
		}
	}
	return len(voters), nil
}

func (r *fakeVoteRepo) DeleteBySurvey(_ context.Context, surveyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, record := range r.rows {
		if record.SurveyID == surveyID {
			delete(r.rows, key)
		}
	}
	return nil
}

func (r *fakeVoteRepo) hasRow(respondentID, surveyID, optionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[respondentID+"|"+surveyID+"|"+optionID]
	return ok
}

// fakeSnapshots serves survey snapshots and lets tests flip activity
// between authorization and submission.
type fakeSnapshots struct {
	mu        sync.Mutex
	snapshots map[string]domain.SurveySnapshot
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{snapshots: make(map[string]domain.SurveySnapshot)}
}

func (p *fakeSnapshots) add(surveyID string, selectionType domain.SelectionType, maxSelections int, optionIDs ...string) {
	valid := make(map[string]struct{}, len(optionIDs))
	for _, id := range optionIDs {
		valid[id] = struct{}{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots[surveyID] = domain.SurveySnapshot{
		SurveyID:      surveyID,
		IsActive:      true,
		SelectionType: selectionType,
		MaxSelections: maxSelections,
		ValidOptions:  valid,
	}
}

func (p *fakeSnapshots) setActive(surveyID string, active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap := p.snapshots[surveyID]
	snap.IsActive = active
	p.snapshots[surveyID] = snap
}

func (p *fakeSnapshots) GetSnapshot(_ context.Context, id string) (*domain.SurveySnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap, ok := p.snapshots[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := snap
	return &found, nil
}

type votingHarness struct {
	service   *VotingService
	votes     *fakeVoteRepo
	snapshots *fakeSnapshots
	sessions  *session.Authority
}

func newVotingHarness() *votingHarness {
	votes := newFakeVoteRepo()
	snapshots := newFakeSnapshots()
	sessions := session.NewAuthority(session.NewMemoryStore(), votes, time.Hour)
	identity := NewIdentityService(newFakeRespondentRepo(), []string{"X", "XI", "XII"})
	svc := NewVotingService(VotingDependencies{
		Identity:  identity,
		Sessions:  sessions,
		Snapshots: snapshots,
		VoteRepo:  votes,
	})
	return &votingHarness{service: svc, votes: votes, snapshots: snapshots, sessions: sessions}
}

func TestSubmitFullFlow(t *testing.T) {
	h := newVotingHarness()
	ctx := context.Background()
	h.snapshots.add("sv1", domain.SelectionMulti, 2, "A", "B", "C")

	auth, err := h.service.Authenticate(ctx, "S123", "Sari", "XI", "sv1")
	require.NoError(t, err)
	require.NotEmpty(t, auth.Token)

	count, err := h.service.Submit(ctx, auth.Token, []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.True(t, h.votes.hasRow(auth.RespondentID, "sv1", "A"))
	assert.True(t, h.votes.hasRow(auth.RespondentID, "sv1", "B"))
	assert.False(t, h.votes.hasRow(auth.RespondentID, "sv1", "C"))

	// The token died with the submission.
	_, err = h.service.Submit(ctx, auth.Token, []string{"C"})
	assert.Equal(t, "SESSION_INVALID", apperrors.CodeOf(err))

	// A fresh login for the same identity and survey is refused.
	_, err = h.service.Authenticate(ctx, "S123", "Sari", "XI", "sv1")
	assert.Equal(t, "ALREADY_SUBMITTED", apperrors.CodeOf(err))
}

func TestSubmitSurveyArchivedBetweenAuthorizeAndSubmit(t *testing.T) {
	h := newVotingHarness()
	ctx := context.Background()
	h.snapshots.add("sv2", domain.SelectionSingle, 1, "A", "B")

	auth, err := h.service.Authenticate(ctx, "S200", "Budi", "X", "sv2")
	require.NoError(t, err)

	h.snapshots.setActive("sv2", false)

	_, err = h.service.Submit(ctx, auth.Token, []string{"A"})
	assert.Equal(t, "SURVEY_CLOSED", apperrors.CodeOf(err))

	// No ledger rows, and the token was still spent.
	count, err := h.votes.CountForPair(ctx, auth.RespondentID, "sv2")
	require.NoError(t, err)
	assert.Zero(t, count)

	info, err := h.service.SessionInfo(ctx, auth.Token)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestSubmitValidationFailureSpendsToken(t *testing.T) {
	h := newVotingHarness()
	ctx := context.Background()
	h.snapshots.add("sv1", domain.SelectionMulti, 2, "A", "B")

	auth, err := h.service.Authenticate(ctx, "S300", "Cahya", "XII", "sv1")
	require.NoError(t, err)

	_, err = h.service.Submit(ctx, auth.Token, []string{"A", "nope"})
	assert.Equal(t, "INVALID_OPTION", apperrors.CodeOf(err))

	// Rejected for validation, but the session is gone: the respondent
	// must authenticate again.
	_, err = h.service.Submit(ctx, auth.Token, []string{"A"})
	assert.Equal(t, "SESSION_INVALID", apperrors.CodeOf(err))

	// Nothing landed, so re-authentication is allowed.
	_, err = h.service.Authenticate(ctx, "S300", "Cahya", "XII", "sv1")
	assert.NoError(t, err)
}

func TestSubmitUnknownSurveyToken(t *testing.T) {
	h := newVotingHarness()
	ctx := context.Background()

	_, err := h.service.Submit(ctx, "no-such-token", []string{"A"})
	assert.Equal(t, "SESSION_INVALID", apperrors.CodeOf(err))
}

func TestAuthenticateUnknownSurvey(t *testing.T) {
	h := newVotingHarness()

	_, err := h.service.Authenticate(context.Background(), "S123", "Sari", "XI", "missing")
	assert.Equal(t, "SURVEY_CLOSED", apperrors.CodeOf(err))
}

func TestSubmitConcurrentSameTokenOneSuccess(t *testing.T) {
	h := newVotingHarness()
	ctx := context.Background()
	h.snapshots.add("sv1", domain.SelectionMulti, 2, "A", "B")

	auth, err := h.service.Authenticate(ctx, "S400", "Dewi", "X", "sv1")
	require.NoError(t, err)

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.service.Submit(ctx, auth.Token, []string{"A", "B"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		}
	}
	assert.Equal(t, 1, successes)

	count, err := h.votes.CountForPair(ctx, auth.RespondentID, "sv1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSubmitConcurrentAcrossInstancesNeverDoubleWrites(t *testing.T) {
	// Two app instances with separate session stores can each hold a
	// live token for the same respondent and survey. The ledger's
	// uniqueness constraint is what keeps the pair single-shot then.
	ctx := context.Background()
	votes := newFakeVoteRepo()
	snapshots := newFakeSnapshots()
	snapshots.add("sv1", domain.SelectionMulti, 2, "A", "B")

	type instance struct {
		service *VotingService
		token   string
	}
	instances := make([]instance, 2)
	for i := range instances {
		store := session.NewMemoryStore()
		token := uuid.NewString()
		require.NoError(t, store.Put(ctx, session.Record{
			Token:        token,
			RespondentID: "r-shared",
			SurveyID:     "sv1",
			IssuedAt:     time.Now().UTC(),
		}, time.Hour))
		instances[i] = instance{
			service: NewVotingService(VotingDependencies{
				Identity:  NewIdentityService(newFakeRespondentRepo(), []string{"X"}),
				Sessions:  session.NewAuthority(store, votes, time.Hour),
				Snapshots: snapshots,
				VoteRepo:  votes,
			}),
			token: token,
		}
	}

	var wg sync.WaitGroup
	results := make(chan error, len(instances))
	for _, inst := range instances {
		wg.Add(1)
		go func(inst instance) {
			defer wg.Done()
			_, err := inst.service.Submit(ctx, inst.token, []string{"A", "B"})
			results <- err
		}(inst)
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		assert.Equal(t, "DUPLICATE_SUBMISSION", apperrors.CodeOf(err))
	}
	assert.Equal(t, 1, successes)

	count, err := votes.CountForPair(ctx, "r-shared", "sv1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
