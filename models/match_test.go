package models

import "testing"

func TestMatchNextSlot(t *testing.T) {
	tests := []struct {
		name         string
		round        int
		orderInRound int
		wantOrder    int
		wantSlot     int
	}{
		{name: "first match feeds slot 1", round: 1, orderInRound: 0, wantOrder: 0, wantSlot: 1},
		{name: "second match feeds slot 2", round: 1, orderInRound: 1, wantOrder: 0, wantSlot: 2},
		{name: "third match feeds next pair slot 1", round: 1, orderInRound: 2, wantOrder: 1, wantSlot: 1},
		{name: "fourth match feeds next pair slot 2", round: 1, orderInRound: 3, wantOrder: 1, wantSlot: 2},
		{name: "later round keeps parity rule", round: 3, orderInRound: 5, wantOrder: 2, wantSlot: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Match{Round: tt.round, OrderInRound: tt.orderInRound}
			order, slot := m.NextSlot()
			if order != tt.wantOrder || slot != tt.wantSlot {
				t.Errorf("NextSlot() for (round %d, order %d) = (%d, %d), want (%d, %d)",
					tt.round, tt.orderInRound, order, slot, tt.wantOrder, tt.wantSlot)
			}
		})
	}
}

func TestMatchIsBye(t *testing.T) {
	player := 42

	tests := []struct {
		name    string
		player1 *int
		player2 *int
		want    bool
	}{
		{name: "both players set", player1: &player, player2: &player, want: false},
		{name: "only player1 set", player1: &player, player2: nil, want: true},
		{name: "only player2 set", player1: nil, player2: &player, want: true},
		{name: "no players set", player1: nil, player2: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Match{Player1ID: tt.player1, Player2ID: tt.player2}
			if got := m.IsBye(); got != tt.want {
				t.Errorf("IsBye() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTournamentStatusTransitions(t *testing.T) {
	tests := []struct {
		from TournamentStatus
		to   TournamentStatus
		want bool
	}{
		{TournamentStatusUpcoming, TournamentStatusLive, true},
		{TournamentStatusLive, TournamentStatusCompleted, true},
		{TournamentStatusUpcoming, TournamentStatusCompleted, false},
		{TournamentStatusLive, TournamentStatusUpcoming, false},
		{TournamentStatusCompleted, TournamentStatusUpcoming, false},
		{TournamentStatusCompleted, TournamentStatusLive, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
