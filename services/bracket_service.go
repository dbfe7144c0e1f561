package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gzcarena/arena/brackets"
	"github.com/gzcarena/arena/models"
	"github.com/gzcarena/arena/repositories"
)

type BracketService interface {
	// Generate materializes the full single-elimination bracket for a
	// tournament and flips it to live, all in one transaction. Round-1 byes
	// are persisted already completed with their winners carried forward.
	Generate(ctx context.Context, tournamentID int) ([]*models.Match, error)
	// AdvanceByeWinners completes every pending match whose empty slot can
	// no longer be filled (its feeder match does not exist), cascading until
	// the bracket is stable.
	AdvanceByeWinners(ctx context.Context, tournamentID int) ([]*models.Match, error)
	GetBracket(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type bracketService struct {
	db              *sql.DB
	generator       brackets.Generator
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	generator brackets.Generator,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:              db,
		generator:       generator,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		hub:             hub,
		logger:          logger,
	}
}

func (s *bracketService) Generate(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	var created []*models.Match

	err := runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}

		exists, err := s.matchRepo.ExistsByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		if exists {
			return ErrBracketAlreadyGenerated
		}
		if tournament.Status != models.TournamentStatusUpcoming {
			return ErrTournamentNotUpcoming
		}

		playerIDs, err := s.participantRepo.ListUserIDsByTournament(ctx, tx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list participants for tournament %d: %w", tournamentID, err)
		}

		plan, err := s.generator.Generate(ctx, brackets.GenerateParams{
			TournamentID: tournamentID,
			PlayerIDs:    playerIDs,
		})
		if err != nil {
			if errors.Is(err, brackets.ErrInsufficientParticipants) {
				return ErrInsufficientParticipants
			}
			return fmt.Errorf("failed to generate bracket for tournament %d: %w", tournamentID, err)
		}

		now := time.Now().UTC()
		created = make([]*models.Match, 0, len(plan))
		for _, pm := range plan {
			match := &models.Match{
				TournamentID: tournamentID,
				Round:        pm.Round,
				OrderInRound: pm.OrderInRound,
				Player1ID:    pm.Player1ID,
				Player2ID:    pm.Player2ID,
				Status:       models.MatchStatusPending,
			}
			if pm.Completed {
				match.Status = models.MatchStatusCompleted
				match.WinnerID = pm.WinnerID
				completedAt := now
				match.CompletedAt = &completedAt
			}
			if err := s.matchRepo.Create(ctx, tx, match); err != nil {
				return fmt.Errorf("failed to persist match (round %d, order %d): %w", pm.Round, pm.OrderInRound, err)
			}
			created = append(created, match)
		}

		return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.TournamentStatusLive)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bracket generated",
		slog.Int("tournament_id", tournamentID), slog.Int("matches", len(created)))
	s.hub.BroadcastToRoom(brackets.RoomForTournament(tournamentID), brackets.EventBracketGenerated, matchesToValues(created))
	return created, nil
}

func (s *bracketService) AdvanceByeWinners(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	var advanced []*models.Match

	err := runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID); err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}

		matches, err := s.matchRepo.ListByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}

		byIndex := make(map[[2]int]*models.Match, len(matches))
		maxRound := 0
		for _, m := range matches {
			byIndex[[2]int{m.Round, m.OrderInRound}] = m
			if m.Round > maxRound {
				maxRound = m.Round
			}
		}

		now := time.Now().UTC()
		for changed := true; changed; {
			changed = false
			for _, m := range matches {
				if m.Status != models.MatchStatusPending || !m.IsBye() {
					continue
				}
				if !s.slotUnfillable(m, byIndex) {
					continue
				}

				winnerID := m.Player1ID
				if winnerID == nil {
					winnerID = m.Player2ID
				}
				if err := s.matchRepo.SetResult(ctx, tx, m.ID, m.Score1, m.Score2, *winnerID, now); err != nil {
					return err
				}
				m.Status = models.MatchStatusCompleted
				m.WinnerID = winnerID
				completedAt := now
				m.CompletedAt = &completedAt

				if m.Round < maxRound {
					if err := propagateWinner(ctx, tx, s.matchRepo, byIndex, m, *winnerID); err != nil {
						return err
					}
				}

				advanced = append(advanced, m)
				changed = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(advanced) > 0 {
		s.hub.BroadcastToRoom(brackets.RoomForTournament(tournamentID), brackets.EventBracketUpdated, matchesToValues(advanced))
	}
	return advanced, nil
}

// slotUnfillable reports whether the empty slot of a one-player pending match
// has no feeder match, meaning it can never be filled.
func (s *bracketService) slotUnfillable(m *models.Match, byIndex map[[2]int]*models.Match) bool {
	if m.Round == 1 {
		return true
	}
	feederOrder := 2 * m.OrderInRound
	if m.Player1ID == nil {
		// Slot 1 is fed by the even-order feeder, slot 2 by the odd one.
		_, exists := byIndex[[2]int{m.Round - 1, feederOrder}]
		return !exists
	}
	_, exists := byIndex[[2]int{m.Round - 1, feederOrder + 1}]
	return !exists
}

func (s *bracketService) GetBracket(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.matchRepo.ListByTournament(ctx, nil, tournamentID)
}

// propagateWinner writes winnerID into the next round's slot addressed by the
// completed match: order floor(K/2), slot 1 for even K, slot 2 for odd K. The
// in-memory index is updated alongside the database row so bye cascades see
// the new slot within the same pass.
func propagateWinner(ctx context.Context, exec repositories.SQLExecutor, matchRepo repositories.MatchRepository, byIndex map[[2]int]*models.Match, m *models.Match, winnerID int) error {
	nextOrder, slot := m.NextSlot()
	next, ok := byIndex[[2]int{m.Round + 1, nextOrder}]
	if !ok {
		return fmt.Errorf("next match (round %d, order %d) not found for tournament %d", m.Round+1, nextOrder, m.TournamentID)
	}
	if err := matchRepo.SetPlayerSlot(ctx, exec, next.ID, slot, winnerID); err != nil {
		return err
	}
	if slot == 1 {
		next.Player1ID = &winnerID
	} else {
		next.Player2ID = &winnerID
	}
	return nil
}
