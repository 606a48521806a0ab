package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/survey-vote-service/pkg/util"
)

func newIdentityService() (*IdentityService, *fakeRespondentRepo) {
	repo := newFakeRespondentRepo()
	return NewIdentityService(repo, []string{"X", "XI", "XII"}), repo
}

func TestResolveCreatesOnFirstSight(t *testing.T) {
	svc, _ := newIdentityService()

	respondent, err := svc.Resolve(context.Background(), "S123", "Sari", "XI")
	require.NoError(t, err)
	assert.NotEmpty(t, respondent.ID)
	assert.Equal(t, "S123", respondent.ExternalID)
	assert.Equal(t, "Sari", respondent.Name)
	assert.Equal(t, "XI", respondent.Cohort)
}

func TestResolveFirstWriteWins(t *testing.T) {
	svc, _ := newIdentityService()
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "S123", "Sari", "XI")
	require.NoError(t, err)

	// A later login with different attributes maps to the same record
	// and does not overwrite it.
	second, err := svc.Resolve(ctx, "S123", "Somebody Else", "XII")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Sari", second.Name)
	assert.Equal(t, "XI", second.Cohort)
}

func TestResolveTrimsExternalID(t *testing.T) {
	svc, _ := newIdentityService()
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "S123", "Sari", "XI")
	require.NoError(t, err)

	second, err := svc.Resolve(ctx, "  S123  ", "Sari", "XI")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestResolveRejectsBadInput(t *testing.T) {
	svc, _ := newIdentityService()
	ctx := context.Background()

	cases := []struct {
		name       string
		externalID string
		fullName   string
		cohort     string
	}{
		{"empty external id", "", "Sari", "XI"},
		{"blank external id", "   ", "Sari", "XI"},
		{"empty name", "S123", "", "XI"},
		{"unknown cohort", "S123", "Sari", "IX"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Resolve(ctx, tc.externalID, tc.fullName, tc.cohort)
			assert.Equal(t, "VALIDATION_FAILED", apperrors.CodeOf(err))
		})
	}
}

func TestResolveExistingSkipsAttributeChecks(t *testing.T) {
	svc, _ := newIdentityService()
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "S123", "Sari", "XI")
	require.NoError(t, err)

	// Known respondents resolve even when the request carries no
	// attributes at all.
	respondent, err := svc.Resolve(ctx, "S123", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Sari", respondent.Name)
}
