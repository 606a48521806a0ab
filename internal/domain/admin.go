package domain

import "time"

// Admin is a back-office account allowed to manage surveys and results.
type Admin struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
