package brackets

import (
	"context"
	"errors"
)

var (
	ErrInsufficientParticipants = errors.New("at least 2 participants are required to generate a bracket")
)

// PlannedMatch is one node of a generated bracket before it is persisted.
// Round is 1-based, OrderInRound 0-based. A bye is materialized as a match
// with one player, already completed with that player as winner.
type PlannedMatch struct {
	Round        int
	OrderInRound int

	Player1ID *int
	Player2ID *int

	// Set when the match is decided at generation time (byes only).
	WinnerID  *int
	Completed bool
}

type GenerateParams struct {
	TournamentID int
	// PlayerIDs in seeding order. Generation must be deterministic for a
	// fixed ordering.
	PlayerIDs []int
}

type Generator interface {
	Generate(ctx context.Context, params GenerateParams) ([]*PlannedMatch, error)

	Name() string
}
