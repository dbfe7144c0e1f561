package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gzcarena/arena/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound = errors.New("participant registration not found")
	ErrParticipantConflict = errors.New("user is already registered for this tournament")
)

type UserStats struct {
	TournamentsJoined int
	Wins              int
	PodiumFinishes    int
	TotalPoints       int
}

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, participant *models.Participant) error
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	FindByTournamentAndUser(ctx context.Context, exec SQLExecutor, tournamentID, userID int) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int, withUsers bool) ([]*models.Participant, error)
	// ListUserIDsByTournament returns participant user IDs in join order,
	// which is the bracket seeding order.
	ListUserIDsByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]int, error)
	// ListPlacedByTournament returns participants with a recorded placement,
	// ordered by placement ascending.
	ListPlacedByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Participant, error)
	SetPlacement(ctx context.Context, exec SQLExecutor, id int, placement int, pointsEarned *int) error
	StampCompleted(ctx context.Context, exec SQLExecutor, tournamentID int, completedAt time.Time) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	StatsByUser(ctx context.Context, userID int) (*UserStats, error)
	ListResultsByUser(ctx context.Context, userID int, limit int) ([]models.TournamentResult, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_participants (tournament_id, user_id)
		VALUES ($1, $2)
		RETURNING id, joined_at`

	err := executor.QueryRowContext(ctx, query, p.TournamentID, p.UserID).Scan(&p.ID, &p.JoinedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrParticipantConflict
		}
		return err
	}
	return nil
}

const participantColumns = `
	id, tournament_id, user_id, joined_at, placement, points_earned, completed_at`

func scanParticipant(row interface{ Scan(...interface{}) error }, p *models.Participant) error {
	return row.Scan(
		&p.ID, &p.TournamentID, &p.UserID, &p.JoinedAt, &p.Placement, &p.PointsEarned, &p.CompletedAt,
	)
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	p := &models.Participant{}
	err := scanParticipant(r.db.QueryRowContext(ctx,
		`SELECT `+participantColumns+` FROM tournament_participants WHERE id = $1`, id), p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresParticipantRepository) FindByTournamentAndUser(ctx context.Context, exec SQLExecutor, tournamentID, userID int) (*models.Participant, error) {
	executor := r.getExecutor(exec)
	p := &models.Participant{}
	err := scanParticipant(executor.QueryRowContext(ctx,
		`SELECT `+participantColumns+` FROM tournament_participants WHERE tournament_id = $1 AND user_id = $2`,
		tournamentID, userID), p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int, withUsers bool) ([]*models.Participant, error) {
	if !withUsers {
		rows, err := r.db.QueryContext(ctx,
			`SELECT `+participantColumns+` FROM tournament_participants WHERE tournament_id = $1 ORDER BY joined_at ASC, id ASC`,
			tournamentID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return collectParticipants(rows, false)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.tournament_id, p.user_id, p.joined_at, p.placement, p.points_earned, p.completed_at,
		       u.id, u.email, u.nickname, u.wallet_balance, u.created_at
		FROM tournament_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.tournament_id = $1
		ORDER BY p.joined_at ASC, p.id ASC`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectParticipants(rows, true)
}

func collectParticipants(rows *sql.Rows, withUsers bool) ([]*models.Participant, error) {
	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p := &models.Participant{}
		if withUsers {
			u := &models.User{}
			if err := rows.Scan(
				&p.ID, &p.TournamentID, &p.UserID, &p.JoinedAt, &p.Placement, &p.PointsEarned, &p.CompletedAt,
				&u.ID, &u.Email, &u.Nickname, &u.WalletBalance, &u.CreatedAt,
			); err != nil {
				return nil, err
			}
			p.User = u
		} else {
			if err := scanParticipant(rows, p); err != nil {
				return nil, err
			}
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *postgresParticipantRepository) ListUserIDsByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]int, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx,
		`SELECT user_id FROM tournament_participants WHERE tournament_id = $1 ORDER BY joined_at ASC, id ASC`,
		tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	userIDs := make([]int, 0)
	for rows.Next() {
		var id int
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, scanErr
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}

func (r *postgresParticipantRepository) ListPlacedByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Participant, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx,
		`SELECT `+participantColumns+`
		 FROM tournament_participants
		 WHERE tournament_id = $1 AND placement IS NOT NULL
		 ORDER BY placement ASC`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectParticipants(rows, false)
}

func (r *postgresParticipantRepository) SetPlacement(ctx context.Context, exec SQLExecutor, id int, placement int, pointsEarned *int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE tournament_participants SET placement = $1, points_earned = $2 WHERE id = $3`,
		placement, pointsEarned, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) StampCompleted(ctx context.Context, exec SQLExecutor, tournamentID int, completedAt time.Time) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx,
		`UPDATE tournament_participants SET completed_at = $1 WHERE tournament_id = $2`,
		completedAt, tournamentID)
	return err
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`DELETE FROM tournament_participants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) StatsByUser(ctx context.Context, userID int) (*UserStats, error) {
	stats := &UserStats{}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE placement = 1),
			COUNT(*) FILTER (WHERE placement <= 3),
			COALESCE(SUM(points_earned), 0)
		FROM tournament_participants
		WHERE user_id = $1`, userID).Scan(
		&stats.TournamentsJoined, &stats.Wins, &stats.PodiumFinishes, &stats.TotalPoints)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *postgresParticipantRepository) ListResultsByUser(ctx context.Context, userID int, limit int) ([]models.TournamentResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.game, p.placement, p.points_earned
		FROM tournament_participants p
		JOIN tournaments t ON t.id = p.tournament_id
		WHERE p.user_id = $1 AND p.completed_at IS NOT NULL
		ORDER BY p.completed_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]models.TournamentResult, 0)
	for rows.Next() {
		var res models.TournamentResult
		if scanErr := rows.Scan(&res.TournamentID, &res.TournamentName, &res.Game, &res.Placement, &res.PointsEarned); scanErr != nil {
			return nil, scanErr
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
