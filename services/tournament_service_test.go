package services

import (
	"errors"
	"testing"
)

func TestValidateTournamentInput(t *testing.T) {
	tests := []struct {
		name            string
		tournamentName  string
		game            string
		entryFee        int
		prizePool       int
		maxParticipants int
		wantErr         error
	}{
		{
			name:            "valid input",
			tournamentName:  "Spring Cup",
			game:            "CS2",
			entryFee:        50,
			prizePool:       1000,
			maxParticipants: 16,
			wantErr:         nil,
		},
		{
			name:            "free entry is allowed",
			tournamentName:  "Community Night",
			game:            "Dota 2",
			entryFee:        0,
			prizePool:       0,
			maxParticipants: 8,
			wantErr:         nil,
		},
		{
			name:            "blank name",
			tournamentName:  "   ",
			game:            "CS2",
			maxParticipants: 8,
			wantErr:         ErrTournamentNameRequired,
		},
		{
			name:            "blank game",
			tournamentName:  "Spring Cup",
			game:            "",
			maxParticipants: 8,
			wantErr:         ErrTournamentGameRequired,
		},
		{
			name:            "negative entry fee",
			tournamentName:  "Spring Cup",
			game:            "CS2",
			entryFee:        -1,
			maxParticipants: 8,
			wantErr:         ErrTournamentInvalidFee,
		},
		{
			name:            "negative prize pool",
			tournamentName:  "Spring Cup",
			game:            "CS2",
			prizePool:       -100,
			maxParticipants: 8,
			wantErr:         ErrTournamentInvalidPool,
		},
		{
			name:            "capacity below two",
			tournamentName:  "Spring Cup",
			game:            "CS2",
			maxParticipants: 1,
			wantErr:         ErrTournamentInvalidCapacity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTournamentInput(tt.tournamentName, tt.game, tt.entryFee, tt.prizePool, tt.maxParticipants)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateTournamentInput() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
