package brackets

import "context"

// SingleEliminationGenerator builds a full single-elimination plan from an
// ordered player list. Players are paired in input order; the list is padded
// with byes to the next power of two, so round R holds exactly
// ceil(P / 2^R) matches (pairings where neither slot can ever be filled are
// omitted). Round-1 byes complete immediately and their winners are carried
// forward, cascading through consecutive bye rounds.
type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "single_elimination"
}

// seNode is one slot feeding a round. A node either carries a decided player,
// is the undecided winner of an earlier match (hasFeeder), or is empty with
// no way to ever be filled.
type seNode struct {
	playerID  *int
	hasFeeder bool
}

func (n seNode) empty() bool {
	return n.playerID == nil && !n.hasFeeder
}

func (g *SingleEliminationGenerator) Generate(ctx context.Context, params GenerateParams) ([]*PlannedMatch, error) {
	players := params.PlayerIDs
	p := len(players)
	if p < 2 {
		return nil, ErrInsufficientParticipants
	}

	rounds := 0
	for (1 << rounds) < p {
		rounds++
	}
	bracketSize := 1 << rounds

	current := make([]seNode, bracketSize)
	for i := 0; i < p; i++ {
		id := players[i]
		current[i] = seNode{playerID: &id}
	}

	matches := make([]*PlannedMatch, 0, bracketSize-1)

	for r := 1; r <= rounds; r++ {
		next := make([]seNode, len(current)/2)

		for k := 0; k < len(current)/2; k++ {
			n1 := current[2*k]
			n2 := current[2*k+1]

			if n1.empty() && n2.empty() {
				// Both slots fell in the padded tail; no match exists here.
				// Empty nodes are always tail-contiguous, so k stays aligned
				// with OrderInRound for every materialized match.
				continue
			}

			m := &PlannedMatch{
				Round:        r,
				OrderInRound: k,
				Player1ID:    n1.playerID,
				Player2ID:    n2.playerID,
			}

			switch {
			case n1.playerID != nil && n2.empty():
				m.WinnerID = n1.playerID
				m.Completed = true
				next[k] = seNode{playerID: n1.playerID}
			case n2.playerID != nil && n1.empty():
				m.WinnerID = n2.playerID
				m.Completed = true
				next[k] = seNode{playerID: n2.playerID}
			default:
				// A real pairing, or a slot still waiting on a feeder match.
				next[k] = seNode{hasFeeder: true}
			}

			matches = append(matches, m)
		}
		current = next
	}

	return matches, nil
}
