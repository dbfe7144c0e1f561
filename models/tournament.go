package models

import "time"

// TournamentStatus mirrors the tournament_status ENUM in the database.
// Transitions are monotonic: upcoming -> live -> completed.
type TournamentStatus string

const (
	TournamentStatusUpcoming  TournamentStatus = "upcoming"
	TournamentStatusLive      TournamentStatus = "live"
	TournamentStatusCompleted TournamentStatus = "completed"
)

// Tournament is a single-elimination event. All currency fields (entry fee,
// prize pool) are integer GZC units.
type Tournament struct {
	ID                  int              `json:"id" db:"id"`
	Name                string           `json:"name" db:"name"`
	Game                string           `json:"game" db:"game"`
	EntryFee            int              `json:"entry_fee" db:"entry_fee"`
	PrizePool           int              `json:"prize_pool" db:"prize_pool"`
	MaxParticipants     int              `json:"max_participants" db:"max_participants"`
	CurrentParticipants int              `json:"current_participants" db:"current_participants"`
	StartDate           time.Time        `json:"start_date" db:"start_date"`
	Status              TournamentStatus `json:"status" db:"status"`
	PrizesAwarded       bool             `json:"prizes_awarded" db:"prizes_awarded"`
	CreatedAt           time.Time        `json:"created_at" db:"created_at"`
	BannerKey           *string          `json:"-" db:"banner_key"`
	BannerURL           *string          `json:"banner_url,omitempty" db:"-"`

	// Optional related entities, loaded on demand.
	Participants []Participant `json:"participants,omitempty" db:"-"`
	Matches      []Match       `json:"matches,omitempty" db:"-"`
}

func (s TournamentStatus) IsValid() bool {
	switch s {
	case TournamentStatusUpcoming, TournamentStatusLive, TournamentStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo enforces the monotonic status order.
func (s TournamentStatus) CanTransitionTo(next TournamentStatus) bool {
	switch s {
	case TournamentStatusUpcoming:
		return next == TournamentStatusLive
	case TournamentStatusLive:
		return next == TournamentStatusCompleted
	default:
		return false
	}
}
