package brackets

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
)

func generate(t *testing.T, playerIDs []int) []*PlannedMatch {
	t.Helper()
	g := NewSingleEliminationGenerator()
	matches, err := g.Generate(context.Background(), GenerateParams{TournamentID: 1, PlayerIDs: playerIDs})
	if err != nil {
		t.Fatalf("Generate(%v): unexpected error: %v", playerIDs, err)
	}
	return matches
}

func countByRound(matches []*PlannedMatch) map[int]int {
	counts := make(map[int]int)
	for _, m := range matches {
		counts[m.Round]++
	}
	return counts
}

func TestGenerateRejectsTooFewParticipants(t *testing.T) {
	g := NewSingleEliminationGenerator()
	for _, players := range [][]int{nil, {}, {7}} {
		_, err := g.Generate(context.Background(), GenerateParams{PlayerIDs: players})
		if !errors.Is(err, ErrInsufficientParticipants) {
			t.Errorf("Generate(%v): got err %v, want ErrInsufficientParticipants", players, err)
		}
	}
}

func TestGenerateRoundStructure(t *testing.T) {
	for p := 2; p <= 33; p++ {
		players := make([]int, p)
		for i := range players {
			players[i] = 100 + i
		}
		matches := generate(t, players)

		wantRounds := int(math.Ceil(math.Log2(float64(p))))
		counts := countByRound(matches)
		if len(counts) != wantRounds {
			t.Errorf("P=%d: got %d rounds, want %d", p, len(counts), wantRounds)
		}
		for r := 1; r <= wantRounds; r++ {
			want := int(math.Ceil(float64(p) / float64(int(1)<<uint(r))))
			if counts[r] != want {
				t.Errorf("P=%d round %d: got %d matches, want %d", p, r, counts[r], want)
			}
		}
		if counts[wantRounds] != 1 {
			t.Errorf("P=%d: final round has %d matches, want 1", p, counts[wantRounds])
		}
	}
}

func TestGenerateFiveParticipants(t *testing.T) {
	matches := generate(t, []int{10, 20, 30, 40, 50})

	counts := countByRound(matches)
	if counts[1] != 3 || counts[2] != 2 || counts[3] != 1 {
		t.Fatalf("P=5: got per-round counts %v, want 3/2/1", counts)
	}

	get := func(round, order int) *PlannedMatch {
		for _, m := range matches {
			if m.Round == round && m.OrderInRound == order {
				return m
			}
		}
		t.Fatalf("match (round %d, order %d) not generated", round, order)
		return nil
	}

	// Round 1 pairs in input order, player 50 drawing the bye.
	if m := get(1, 0); *m.Player1ID != 10 || *m.Player2ID != 20 || m.Completed {
		t.Errorf("match (1,0) = %+v, want 10 vs 20 pending", m)
	}
	if m := get(1, 1); *m.Player1ID != 30 || *m.Player2ID != 40 || m.Completed {
		t.Errorf("match (1,1) = %+v, want 30 vs 40 pending", m)
	}
	if m := get(1, 2); !m.Completed || m.WinnerID == nil || *m.WinnerID != 50 || m.Player2ID != nil {
		t.Errorf("match (1,2) = %+v, want bye auto-completed for 50", m)
	}

	// The bye cascades: (2,1) has no possible second feeder, so 50 advances
	// straight into the final's slot 2.
	if m := get(2, 0); m.Player1ID != nil || m.Player2ID != nil || m.Completed {
		t.Errorf("match (2,0) = %+v, want empty pending", m)
	}
	if m := get(2, 1); !m.Completed || m.WinnerID == nil || *m.WinnerID != 50 {
		t.Errorf("match (2,1) = %+v, want bye auto-completed for 50", m)
	}
	if m := get(3, 0); m.Player2ID == nil || *m.Player2ID != 50 || m.Completed {
		t.Errorf("final = %+v, want player 50 seeded into slot 2", m)
	}
}

func TestGenerateByeCascade(t *testing.T) {
	// P=9 pads to 16: player 9 must ride byes through rounds 1-3 into the
	// final without a single played match.
	players := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	matches := generate(t, players)

	byeRounds := 0
	for _, m := range matches {
		if m.Completed {
			if m.WinnerID == nil || *m.WinnerID != 9 {
				t.Errorf("unexpected auto-completed match %+v", m)
				continue
			}
			byeRounds++
		}
	}
	if byeRounds != 3 {
		t.Errorf("got %d auto-completed bye matches, want 3", byeRounds)
	}

	var final *PlannedMatch
	for _, m := range matches {
		if m.Round == 4 {
			final = m
		}
	}
	if final == nil || final.Player2ID == nil || *final.Player2ID != 9 {
		t.Errorf("final = %+v, want player 9 seeded into slot 2", final)
	}
}

func TestGeneratePowerOfTwoHasNoByes(t *testing.T) {
	matches := generate(t, []int{1, 2, 3, 4, 5, 6, 7, 8})
	for _, m := range matches {
		if m.Completed {
			t.Errorf("P=8 produced auto-completed match %+v", m)
		}
	}
	counts := countByRound(matches)
	if counts[1] != 4 || counts[2] != 2 || counts[3] != 1 {
		t.Errorf("P=8: got per-round counts %v, want 4/2/1", counts)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	players := []int{42, 7, 13, 99, 3, 58}
	first := generate(t, players)
	second := generate(t, players)
	if !reflect.DeepEqual(first, second) {
		t.Error("two generations over the same input ordering diverged")
	}
}

func TestGenerateSixParticipantDanglingSlot(t *testing.T) {
	// P=6: round 2 order 1 is fed only by round 1 order 2; its second slot
	// can never fill, but the feeder is undecided so it must stay pending
	// (bye advancement resolves it after the feeder completes).
	matches := generate(t, []int{1, 2, 3, 4, 5, 6})
	for _, m := range matches {
		if m.Round == 2 && m.OrderInRound == 1 {
			if m.Completed || m.Player1ID != nil || m.Player2ID != nil {
				t.Errorf("match (2,1) = %+v, want empty pending awaiting feeder", m)
			}
			return
		}
	}
	t.Fatal("match (2,1) not generated")
}
