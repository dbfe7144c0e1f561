package models

import "time"

// Participant is a join record: one row per (tournament, user) pair.
// Placement, PointsEarned and CompletedAt stay nil until an admin records
// results for a finished tournament.
type Participant struct {
	ID           int        `json:"id"`
	TournamentID int        `json:"tournament_id"`
	UserID       int        `json:"user_id"`
	JoinedAt     time.Time  `json:"joined_at"`
	Placement    *int       `json:"placement,omitempty"`
	PointsEarned *int       `json:"points_earned,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	User *User `json:"user,omitempty"`
}
