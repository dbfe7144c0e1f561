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

// prizeShares are the percentages of the prize pool paid to placements 1-3.
// Each payout is floored by integer division, so the three shares never sum
// to more than the pool.
var prizeShares = [3]int{50, 30, 20}

// calculatePayouts returns the GZC amounts for placements 1-3 over the pool.
func calculatePayouts(prizePool int) [3]int {
	var payouts [3]int
	for i, share := range prizeShares {
		payouts[i] = prizePool * share / 100
	}
	return payouts
}

// PrizeAward is one wallet credit of a distribution run.
type PrizeAward struct {
	ParticipantID int `json:"participant_id"`
	UserID        int `json:"user_id"`
	Placement     int `json:"placement"`
	Amount        int `json:"amount"`
	NewBalance    int `json:"new_balance"`
}

type PrizeDistribution struct {
	TournamentID int          `json:"tournament_id"`
	PrizePool    int          `json:"prize_pool"`
	Awards       []PrizeAward `json:"awards"`
}

type PrizeService interface {
	// Distribute pays the prize pool out to placements 1-3 and marks the
	// tournament completed. Guarded by the prizes_awarded flag: a second
	// call fails with ErrPrizesAlreadyAwarded instead of double-paying.
	Distribute(ctx context.Context, tournamentID int) (*PrizeDistribution, error)
}

type prizeService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	userRepo        repositories.UserRepository
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewPrizeService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	userRepo repositories.UserRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) PrizeService {
	return &prizeService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		hub:             hub,
		logger:          logger,
	}
}

func (s *prizeService) Distribute(ctx context.Context, tournamentID int) (*PrizeDistribution, error) {
	distribution := &PrizeDistribution{TournamentID: tournamentID}

	err := runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}

		if tournament.PrizesAwarded {
			return ErrPrizesAlreadyAwarded
		}
		if tournament.Status != models.TournamentStatusLive {
			return ErrTournamentNotLive
		}

		placed, err := s.participantRepo.ListPlacedByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		if len(placed) == 0 {
			return ErrNoPlacementsSet
		}

		distribution.PrizePool = tournament.PrizePool
		payouts := calculatePayouts(tournament.PrizePool)

		for _, p := range placed {
			placement := *p.Placement
			if placement < 1 || placement > len(payouts) {
				continue
			}
			amount := payouts[placement-1]
			newBalance, err := s.userRepo.AdjustWalletBalance(ctx, tx, p.UserID, amount)
			if err != nil {
				return err
			}
			distribution.Awards = append(distribution.Awards, PrizeAward{
				ParticipantID: p.ID,
				UserID:        p.UserID,
				Placement:     placement,
				Amount:        amount,
				NewBalance:    newBalance,
			})
		}

		if err := s.tournamentRepo.MarkPrizesAwarded(ctx, tx, tournamentID); err != nil {
			if errors.Is(err, repositories.ErrTournamentPrizesAwarded) {
				return ErrPrizesAlreadyAwarded
			}
			return err
		}
		if err := s.participantRepo.StampCompleted(ctx, tx, tournamentID, time.Now().UTC()); err != nil {
			return err
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.TournamentStatusCompleted)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("prizes distributed",
		slog.Int("tournament_id", tournamentID),
		slog.Int("prize_pool", distribution.PrizePool),
		slog.Int("awards", len(distribution.Awards)))

	room := brackets.RoomForTournament(tournamentID)
	s.hub.BroadcastToRoom(room, brackets.EventPrizesDistributed, distribution)
	return distribution, nil
}
