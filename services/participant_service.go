package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gzcarena/arena/brackets"
	"github.com/gzcarena/arena/models"
	"github.com/gzcarena/arena/repositories"
)

// JoinResult reports the wallet balance after a successful join.
type JoinResult struct {
	Participant *models.Participant `json:"participant"`
	NewBalance  int                 `json:"new_balance"`
}

type ParticipantService interface {
	// Join registers a user for a tournament. The capacity check, entry-fee
	// debit and participant insert happen in one transaction: concurrent
	// joins can never overshoot max_participants or double-charge.
	Join(ctx context.Context, tournamentID, userID int) (*JoinResult, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error)
	SetPlacement(ctx context.Context, tournamentID, participantID, placement int, pointsEarned *int) (*models.Participant, error)
	Remove(ctx context.Context, tournamentID, participantID int) error
}

type participantService struct {
	db              *sql.DB
	participantRepo repositories.ParticipantRepository
	tournamentRepo  repositories.TournamentRepository
	userRepo        repositories.UserRepository
	hub             *brackets.Hub
}

func NewParticipantService(
	db *sql.DB,
	participantRepo repositories.ParticipantRepository,
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
	hub *brackets.Hub,
) ParticipantService {
	return &participantService{
		db:              db,
		participantRepo: participantRepo,
		tournamentRepo:  tournamentRepo,
		userRepo:        userRepo,
		hub:             hub,
	}
}

func (s *participantService) Join(ctx context.Context, tournamentID, userID int) (*JoinResult, error) {
	result := &JoinResult{}

	err := runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}

		if tournament.Status != models.TournamentStatusUpcoming {
			return ErrRegistrationClosed
		}
		if tournament.CurrentParticipants >= tournament.MaxParticipants {
			return ErrTournamentFull
		}

		balance, err := s.userRepo.GetWalletBalanceForUpdate(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if balance < tournament.EntryFee {
			return ErrInsufficientBalance
		}

		participant := &models.Participant{TournamentID: tournamentID, UserID: userID}
		if err := s.participantRepo.Create(ctx, tx, participant); err != nil {
			if errors.Is(err, repositories.ErrParticipantConflict) {
				return ErrAlreadyJoined
			}
			return err
		}

		newBalance, err := s.userRepo.AdjustWalletBalance(ctx, tx, userID, -tournament.EntryFee)
		if err != nil {
			return err
		}

		if err := s.tournamentRepo.IncrementParticipants(ctx, tx, tournamentID); err != nil {
			if errors.Is(err, repositories.ErrTournamentCapacityFull) {
				return ErrTournamentFull
			}
			return err
		}

		result.Participant = participant
		result.NewBalance = newBalance
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(brackets.RoomForTournament(tournamentID), brackets.EventParticipantJoined, result.Participant)
	return result, nil
}

func (s *participantService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for tournament %d: %w", tournamentID, err)
	}
	return participants, nil
}

func (s *participantService) SetPlacement(ctx context.Context, tournamentID, participantID, placement int, pointsEarned *int) (*models.Participant, error) {
	if placement < 1 {
		return nil, fmt.Errorf("%w: placement must be 1-based", ErrValidationFailed)
	}

	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	if participant.TournamentID != tournamentID {
		return nil, ErrParticipantNotFound
	}

	if err := s.participantRepo.SetPlacement(ctx, nil, participantID, placement, pointsEarned); err != nil {
		return nil, err
	}
	participant.Placement = &placement
	participant.PointsEarned = pointsEarned

	s.hub.BroadcastToRoom(brackets.RoomForTournament(tournamentID), brackets.EventTournamentUpdated, participant)
	return participant, nil
}

func (s *participantService) Remove(ctx context.Context, tournamentID, participantID int) error {
	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}
	if participant.TournamentID != tournamentID {
		return ErrParticipantNotFound
	}

	err = runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.participantRepo.Delete(ctx, tx, participantID); err != nil {
			if errors.Is(err, repositories.ErrParticipantNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}
		return s.tournamentRepo.DecrementParticipants(ctx, tx, tournamentID)
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastToRoom(brackets.RoomForTournament(tournamentID), brackets.EventTournamentUpdated, participant)
	return nil
}
