package dto

import "time"

// StudentLoginRequest payload for voter authentication.
type StudentLoginRequest struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Cohort     string `json:"cohort"`
	SurveyID   string `json:"survey_id"`
}

// SessionResponse issued session details.
type SessionResponse struct {
	Token        string    `json:"token"`
	RespondentID string    `json:"respondent_id"`
	SurveyID     string    `json:"survey_id"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionInfoResponse describes a live session for the voting form.
type SessionInfoResponse struct {
	Active       bool   `json:"active"`
	RespondentID string `json:"respondent_id,omitempty"`
	SurveyID     string `json:"survey_id,omitempty"`
	Name         string `json:"name,omitempty"`
}

// AdminLoginRequest payload for back-office login.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminAuthResponse standard response for admin auth.
type AdminAuthResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}
