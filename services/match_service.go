package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/gzcarena/arena/brackets"
	"github.com/gzcarena/arena/models"
	"github.com/gzcarena/arena/repositories"
)

type MatchService interface {
	// Start moves a pending match with both players assigned to live.
	// A fully populated match never starts on its own.
	Start(ctx context.Context, matchID int) (*models.Match, error)
	// Complete records distinct scores on a live match, declares the higher
	// scorer the winner and writes them into the next round's slot. Completing
	// the final does not complete the tournament; prize distribution does.
	Complete(ctx context.Context, matchID int, score1, score2 int) (*models.Match, error)
	GetByID(ctx context.Context, matchID int) (*models.Match, error)
}

type matchService struct {
	db        *sql.DB
	matchRepo repositories.MatchRepository
	hub       *brackets.Hub
	logger    *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:        db,
		matchRepo: matchRepo,
		hub:       hub,
		logger:    logger,
	}
}

func (s *matchService) Start(ctx context.Context, matchID int) (*models.Match, error) {
	var match *models.Match

	err := runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		match, err = s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}

		if match.Status != models.MatchStatusPending {
			return ErrMatchNotPending
		}
		if match.Player1ID == nil || match.Player2ID == nil {
			return ErrMatchMissingPlayers
		}

		now := time.Now().UTC()
		if err := s.matchRepo.MarkStarted(ctx, tx, matchID, now); err != nil {
			return err
		}
		match.Status = models.MatchStatusLive
		match.StartedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(brackets.RoomForTournament(match.TournamentID), brackets.EventMatchUpdated, match)
	return match, nil
}

func (s *matchService) Complete(ctx context.Context, matchID int, score1, score2 int) (*models.Match, error) {
	var (
		match      *models.Match
		propagated bool
	)

	err := runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		match, err = s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}

		if match.Status != models.MatchStatusLive {
			return ErrMatchNotLive
		}
		if score1 == score2 {
			return ErrTiedScoreNotAllowed
		}
		if match.Player1ID == nil || match.Player2ID == nil {
			return ErrMatchMissingPlayers
		}

		winnerID := *match.Player1ID
		if score2 > score1 {
			winnerID = *match.Player2ID
		}

		now := time.Now().UTC()
		if err := s.matchRepo.SetResult(ctx, tx, matchID, score1, score2, winnerID, now); err != nil {
			return err
		}
		match.Score1 = score1
		match.Score2 = score2
		match.WinnerID = &winnerID
		match.Status = models.MatchStatusCompleted
		match.CompletedAt = &now

		maxRound, err := s.matchRepo.MaxRound(ctx, tx, match.TournamentID)
		if err != nil {
			return err
		}
		if match.Round >= maxRound {
			// Final decided; the champion is WinnerID. Tournament completion
			// rides on prize distribution, not on this transition.
			s.logger.Info("final match completed",
				slog.Int("tournament_id", match.TournamentID), slog.Int("winner_id", winnerID))
			return nil
		}

		nextOrder, slot := match.NextSlot()
		next, err := s.matchRepo.GetByRoundAndOrder(ctx, tx, match.TournamentID, match.Round+1, nextOrder)
		if err != nil {
			return err
		}
		if err := s.matchRepo.SetPlayerSlot(ctx, tx, next.ID, slot, winnerID); err != nil {
			return err
		}
		propagated = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	room := brackets.RoomForTournament(match.TournamentID)
	s.hub.BroadcastToRoom(room, brackets.EventMatchUpdated, match)
	if propagated {
		s.hub.BroadcastToRoom(room, brackets.EventBracketUpdated, match)
	}
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}
