package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gzcarena/arena/models"
	"github.com/gzcarena/arena/repositories"
	"golang.org/x/sync/errgroup"
)

const recentResultsLimit = 10

type DashboardService interface {
	GetStats(ctx context.Context, userID int) (*models.DashboardStats, error)
	GetProfile(ctx context.Context, userID int) (*models.User, error)
}

type dashboardService struct {
	userRepo        repositories.UserRepository
	participantRepo repositories.ParticipantRepository
	roleRepo        repositories.RoleRepository
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	participantRepo repositories.ParticipantRepository,
	roleRepo repositories.RoleRepository,
) DashboardService {
	return &dashboardService{
		userRepo:        userRepo,
		participantRepo: participantRepo,
		roleRepo:        roleRepo,
	}
}

func (s *dashboardService) GetStats(ctx context.Context, userID int) (*models.DashboardStats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	stats := &models.DashboardStats{WalletBalance: user.WalletBalance}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		userStats, err := s.participantRepo.StatsByUser(gCtx, userID)
		if err != nil {
			return fmt.Errorf("failed to load stats for user %d: %w", userID, err)
		}
		stats.TournamentsJoined = userStats.TournamentsJoined
		stats.Wins = userStats.Wins
		stats.PodiumFinishes = userStats.PodiumFinishes
		stats.TotalPoints = userStats.TotalPoints
		return nil
	})

	g.Go(func() error {
		results, err := s.participantRepo.ListResultsByUser(gCtx, userID, recentResultsLimit)
		if err != nil {
			return fmt.Errorf("failed to load recent results for user %d: %w", userID, err)
		}
		stats.RecentResults = results
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *dashboardService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	roles, err := s.roleRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles for user %d: %w", userID, err)
	}
	user.Roles = roles
	user.PasswordHash = ""
	return user, nil
}
