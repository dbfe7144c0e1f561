package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gzcarena/arena/models"
)

var (
	ErrMatchNotFound = errors.New("match not found")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// GetByIDForUpdate locks the match row for the duration of the
	// surrounding transaction.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	GetByRoundAndOrder(ctx context.Context, exec SQLExecutor, tournamentID, round, orderInRound int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error)
	ExistsByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (bool, error)
	MaxRound(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	MarkStarted(ctx context.Context, exec SQLExecutor, id int, startedAt time.Time) error
	SetResult(ctx context.Context, exec SQLExecutor, id int, score1, score2 int, winnerID int, completedAt time.Time) error
	SetPlayerSlot(ctx context.Context, exec SQLExecutor, id int, slot int, playerID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, tournament_id, round, order_in_round, player1_id, player2_id,
	score1, score2, winner_id, status, started_at, completed_at`

func scanMatch(row interface{ Scan(...interface{}) error }, m *models.Match) error {
	return row.Scan(
		&m.ID, &m.TournamentID, &m.Round, &m.OrderInRound, &m.Player1ID, &m.Player2ID,
		&m.Score1, &m.Score2, &m.WinnerID, &m.Status, &m.StartedAt, &m.CompletedAt,
	)
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (
			tournament_id, round, order_in_round, player1_id, player2_id,
			score1, score2, winner_id, status, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	return executor.QueryRowContext(ctx, query,
		m.TournamentID, m.Round, m.OrderInRound, m.Player1ID, m.Player2ID,
		m.Score1, m.Score2, m.WinnerID, m.Status, m.CompletedAt,
	).Scan(&m.ID)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	m := &models.Match{}
	err := scanMatch(r.db.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = $1`, id), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	m := &models.Match{}
	err := scanMatch(executor.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = $1 FOR UPDATE`, id), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByRoundAndOrder(ctx context.Context, exec SQLExecutor, tournamentID, round, orderInRound int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	m := &models.Match{}
	err := scanMatch(executor.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE tournament_id = $1 AND round = $2 AND order_in_round = $3`,
		tournamentID, round, orderInRound), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE tournament_id = $1 ORDER BY round ASC, order_in_round ASC`,
		tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m := &models.Match{}
		if scanErr := scanMatch(rows, m); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) ExistsByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (bool, error) {
	executor := r.getExecutor(exec)
	var exists bool
	err := executor.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM matches WHERE tournament_id = $1)`, tournamentID,
	).Scan(&exists)
	return exists, err
}

func (r *postgresMatchRepository) MaxRound(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	executor := r.getExecutor(exec)
	var maxRound int
	err := executor.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(round), 0) FROM matches WHERE tournament_id = $1`, tournamentID,
	).Scan(&maxRound)
	return maxRound, err
}

func (r *postgresMatchRepository) MarkStarted(ctx context.Context, exec SQLExecutor, id int, startedAt time.Time) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE matches SET status = $1, started_at = $2 WHERE id = $3`,
		models.MatchStatusLive, startedAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetResult(ctx context.Context, exec SQLExecutor, id int, score1, score2 int, winnerID int, completedAt time.Time) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `
		UPDATE matches
		SET score1 = $1, score2 = $2, winner_id = $3, status = $4, completed_at = $5
		WHERE id = $6`,
		score1, score2, winnerID, models.MatchStatusCompleted, completedAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetPlayerSlot(ctx context.Context, exec SQLExecutor, id int, slot int, playerID int) error {
	executor := r.getExecutor(exec)
	var column string
	switch slot {
	case 1:
		column = "player1_id"
	case 2:
		column = "player2_id"
	default:
		return fmt.Errorf("invalid player slot %d", slot)
	}
	result, err := executor.ExecContext(ctx,
		`UPDATE matches SET `+column+` = $1 WHERE id = $2`, playerID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
