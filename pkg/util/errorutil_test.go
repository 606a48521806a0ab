package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewSurveyClosed()
	mapped := ToDomainError(original)

	assert.Equal(t, "SURVEY_CLOSED", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorWrapsNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)

	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorDefaultsToInternal(t *testing.T) {
	cause := errors.New("connection reset")
	mapped := ToDomainError(cause)

	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.ErrorIs(t, mapped, cause)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "ALREADY_SUBMITTED", CodeOf(NewAlreadySubmitted()))
	assert.Empty(t, CodeOf(errors.New("plain")))
	assert.Empty(t, CodeOf(nil))
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := NewInternalError(cause)

	assert.ErrorIs(t, wrapped, cause)
}
