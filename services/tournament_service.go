package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gzcarena/arena/brackets"
	"github.com/gzcarena/arena/models"
	"github.com/gzcarena/arena/repositories"
	"github.com/gzcarena/arena/storage"
	"golang.org/x/sync/errgroup"
)

type CreateTournamentInput struct {
	Name            string    `json:"name"`
	Game            string    `json:"game"`
	EntryFee        int       `json:"entry_fee"`
	PrizePool       int       `json:"prize_pool"`
	MaxParticipants int       `json:"max_participants"`
	StartDate       time.Time `json:"start_date"`
}

type UpdateTournamentInput struct {
	Name            *string    `json:"name,omitempty"`
	Game            *string    `json:"game,omitempty"`
	EntryFee        *int       `json:"entry_fee,omitempty"`
	PrizePool       *int       `json:"prize_pool,omitempty"`
	MaxParticipants *int       `json:"max_participants,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	// GetDetails loads the tournament together with its participants and
	// matches for the bracket view.
	GetDetails(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error
	UploadBanner(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Tournament, error)
	// AutoStartDueTournaments flips upcoming tournaments past their start
	// date to live, provided a bracket exists. Called by the scheduler.
	AutoStartDueTournaments(ctx context.Context) error
}

type tournamentService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	uploader        storage.FileUploader
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	hub *brackets.Hub,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		uploader:        uploader,
		hub:             hub,
		logger:          logger,
	}
}

func validateTournamentInput(name, game string, entryFee, prizePool, maxParticipants int) error {
	if strings.TrimSpace(name) == "" {
		return ErrTournamentNameRequired
	}
	if strings.TrimSpace(game) == "" {
		return ErrTournamentGameRequired
	}
	if entryFee < 0 {
		return ErrTournamentInvalidFee
	}
	if prizePool < 0 {
		return ErrTournamentInvalidPool
	}
	if maxParticipants < 2 {
		return ErrTournamentInvalidCapacity
	}
	return nil
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input.Name, input.Game, input.EntryFee, input.PrizePool, input.MaxParticipants); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:            strings.TrimSpace(input.Name),
		Game:            strings.TrimSpace(input.Game),
		EntryFee:        input.EntryFee,
		PrizePool:       input.PrizePool,
		MaxParticipants: input.MaxParticipants,
		StartDate:       input.StartDate,
		Status:          models.TournamentStatusUpcoming,
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	populateTournamentBannerURL(tournament, s.uploader)
	return tournament, nil
}

func (s *tournamentService) GetDetails(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		participants, err := s.participantRepo.ListByTournament(gCtx, id, true)
		if err != nil {
			return fmt.Errorf("failed to list participants for tournament %d: %w", id, err)
		}
		tournament.Participants = participantsToValues(participants)
		return nil
	})

	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gCtx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to list matches for tournament %d: %w", id, err)
		}
		tournament.Matches = matchesToValues(matches)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for i := range tournaments {
		populateTournamentBannerURL(&tournaments[i], s.uploader)
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.TournamentStatusUpcoming {
		return nil, ErrTournamentNotUpcoming
	}

	if input.Name != nil {
		tournament.Name = strings.TrimSpace(*input.Name)
	}
	if input.Game != nil {
		tournament.Game = strings.TrimSpace(*input.Game)
	}
	if input.EntryFee != nil {
		tournament.EntryFee = *input.EntryFee
	}
	if input.PrizePool != nil {
		tournament.PrizePool = *input.PrizePool
	}
	if input.MaxParticipants != nil {
		if *input.MaxParticipants < tournament.CurrentParticipants {
			return nil, fmt.Errorf("%w: capacity below current participant count", ErrTournamentInvalidCapacity)
		}
		tournament.MaxParticipants = *input.MaxParticipants
	}
	if input.StartDate != nil {
		tournament.StartDate = *input.StartDate
	}

	if err := validateTournamentInput(tournament.Name, tournament.Game, tournament.EntryFee, tournament.PrizePool, tournament.MaxParticipants); err != nil {
		return nil, err
	}

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to update tournament %d: %w", id, err)
	}

	s.hub.BroadcastToRoom(brackets.RoomForTournament(id), brackets.EventTournamentUpdated, tournament)
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tournament.Status != models.TournamentStatusUpcoming {
		return ErrTournamentNotUpcoming
	}
	if tournament.CurrentParticipants > 0 {
		return ErrTournamentNotEmpty
	}

	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}
	return nil
}

func (s *tournamentService) UploadBanner(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Tournament, error) {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext, err := storage.ExtensionForContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("tournaments/%d/banner_%s%s", id, uuid.NewString(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload banner for tournament %d: %w", id, err)
	}

	oldKey := tournament.BannerKey
	if err := s.tournamentRepo.UpdateBannerKey(ctx, id, &result.Key); err != nil {
		return nil, err
	}
	if oldKey != nil && *oldKey != result.Key {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.Warn("failed to delete previous banner", slog.String("key", *oldKey), slog.Any("error", delErr))
		}
	}

	tournament.BannerKey = &result.Key
	populateTournamentBannerURL(tournament, s.uploader)
	return tournament, nil
}

func (s *tournamentService) AutoStartDueTournaments(ctx context.Context) error {
	due, err := s.tournamentRepo.ListDueForStart(ctx, nil)
	if err != nil {
		return err
	}

	for _, t := range due {
		hasBracket, err := s.matchRepo.ExistsByTournament(ctx, nil, t.ID)
		if err != nil {
			s.logger.Error("scheduler: failed to check bracket existence",
				slog.Int("tournament_id", t.ID), slog.Any("error", err))
			continue
		}
		if !hasBracket {
			// Bracket generation flips the status itself; without matches a
			// live tournament would be unplayable.
			s.logger.Info("scheduler: tournament due but has no bracket, skipping",
				slog.Int("tournament_id", t.ID))
			continue
		}

		if err := s.tournamentRepo.UpdateStatus(ctx, nil, t.ID, models.TournamentStatusLive); err != nil {
			s.logger.Error("scheduler: failed to start tournament",
				slog.Int("tournament_id", t.ID), slog.Any("error", err))
			continue
		}
		t.Status = models.TournamentStatusLive
		s.logger.Info("scheduler: tournament started", slog.Int("tournament_id", t.ID))
		s.hub.BroadcastToRoom(brackets.RoomForTournament(t.ID), brackets.EventTournamentUpdated, t)
	}
	return nil
}
