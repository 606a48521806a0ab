package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// Submission error constructors. The codes are part of the public API
// contract; clients branch on them, so they never change.

// NewSessionInvalid reports a dead, absent, or expired session token.
func NewSessionInvalid() error {
	return NewDomainError("SESSION_INVALID", "session is invalid or already used", http.StatusUnauthorized, nil)
}

// NewSurveyClosed reports a survey that is missing or no longer active.
func NewSurveyClosed() error {
	return NewDomainError("SURVEY_CLOSED", "survey not found or closed", http.StatusNotFound, nil)
}

// NewAlreadySubmitted rejects authentication for an identity that already voted.
func NewAlreadySubmitted() error {
	return NewDomainError("ALREADY_SUBMITTED", "this identity has already submitted to this survey", http.StatusConflict, nil)
}

// NewDuplicateSubmission rejects a second submission for the same identity and survey.
func NewDuplicateSubmission() error {
	return NewDomainError("DUPLICATE_SUBMISSION", "a submission already exists for this survey", http.StatusConflict, nil)
}

func NewEmptySelection() error {
	return NewDomainError("EMPTY_SELECTION", "at least one option must be selected", http.StatusBadRequest, nil)
}

func NewTooManySelections(max int) error {
	return NewDomainError("TOO_MANY_SELECTIONS", fmt.Sprintf("at most %d selections allowed", max), http.StatusBadRequest, map[string]any{"max_selections": max})
}

func NewSingleChoiceViolation() error {
	return NewDomainError("SINGLE_CHOICE_VIOLATION", "exactly one option must be selected", http.StatusBadRequest, nil)
}

func NewInvalidOption(optionID string) error {
	return NewDomainError("INVALID_OPTION", "selection contains an unknown or repeated option", http.StatusBadRequest, map[string]any{"option_id": optionID})
}

// CodeOf extracts the domain code from an error, empty when not a DomainError.
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
