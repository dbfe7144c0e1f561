package models

import "time"

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusCompleted MatchStatus = "completed"
)

// Match is one node of a single-elimination bracket. Rounds are 1-based and
// increase toward the final; OrderInRound is 0-based within a round. Player
// slots reference user IDs directly (not participant rows) so the bracket can
// be addressed independently of join order. A nil slot is a bye or a
// not-yet-decided feeder.
type Match struct {
	ID           int         `json:"id"`
	TournamentID int         `json:"tournament_id"`
	Round        int         `json:"round"`
	OrderInRound int         `json:"order_in_round"`
	Player1ID    *int        `json:"player1_id,omitempty"`
	Player2ID    *int        `json:"player2_id,omitempty"`
	Score1       int         `json:"score1"`
	Score2       int         `json:"score2"`
	WinnerID     *int        `json:"winner_id,omitempty"`
	Status       MatchStatus `json:"status"`
	StartedAt    *time.Time  `json:"started_at,omitempty"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
}

// IsBye reports whether exactly one player slot is filled.
func (m *Match) IsBye() bool {
	return (m.Player1ID == nil) != (m.Player2ID == nil)
}

// NextSlot returns the position of this match's winner in the following
// round: order floor(K/2), slot 1 if K is even, slot 2 otherwise.
func (m *Match) NextSlot() (order int, slot int) {
	if m.OrderInRound%2 == 0 {
		return m.OrderInRound / 2, 1
	}
	return m.OrderInRound / 2, 2
}
