package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gzcarena/arena/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound       = errors.New("tournament not found")
	ErrTournamentNameConflict   = errors.New("tournament name already exists")
	ErrTournamentCapacityFull   = errors.New("tournament has no free slots")
	ErrTournamentPrizesAwarded  = errors.New("tournament prizes already awarded")
	ErrTournamentInUse          = errors.New("tournament has participants or matches")
)

type ListTournamentsFilter struct {
	Status *models.TournamentStatus
	Game   *string
	Limit  int
	Offset int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	// GetByIDForUpdate locks the tournament row for the duration of the
	// surrounding transaction.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	UpdateBannerKey(ctx context.Context, id int, bannerKey *string) error
	// IncrementParticipants bumps the counter only while below capacity.
	IncrementParticipants(ctx context.Context, exec SQLExecutor, id int) error
	DecrementParticipants(ctx context.Context, exec SQLExecutor, id int) error
	// MarkPrizesAwarded flips the idempotency flag; a second call fails with
	// ErrTournamentPrizesAwarded.
	MarkPrizesAwarded(ctx context.Context, exec SQLExecutor, id int) error
	Delete(ctx context.Context, id int) error
	ListDueForStart(ctx context.Context, exec SQLExecutor) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, name, game, entry_fee, prize_pool, max_participants,
	current_participants, start_date, status, prizes_awarded, banner_key, created_at`

func scanTournament(row interface{ Scan(...interface{}) error }, t *models.Tournament) error {
	return row.Scan(
		&t.ID, &t.Name, &t.Game, &t.EntryFee, &t.PrizePool, &t.MaxParticipants,
		&t.CurrentParticipants, &t.StartDate, &t.Status, &t.PrizesAwarded, &t.BannerKey, &t.CreatedAt,
	)
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			name, game, entry_fee, prize_pool, max_participants, start_date, status, banner_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, current_participants, prizes_awarded, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Game, t.EntryFee, t.PrizePool, t.MaxParticipants, t.StartDate, t.Status, t.BannerKey,
	).Scan(&t.ID, &t.CurrentParticipants, &t.PrizesAwarded, &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := scanTournament(r.db.QueryRowContext(ctx,
		`SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1`, id), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	t := &models.Tournament{}
	err := scanTournament(executor.QueryRowContext(ctx,
		`SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1 FOR UPDATE`, id), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Game != nil {
		query += fmt.Sprintf(" AND game = $%d", argID)
		args = append(args, *filter.Game)
		argID++
	}

	query += " ORDER BY start_date ASC, created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := scanTournament(rows, &t); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			name = $1,
			game = $2,
			entry_fee = $3,
			prize_pool = $4,
			max_participants = $5,
			start_date = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Game, t.EntryFee, t.PrizePool, t.MaxParticipants, t.StartDate, t.ID)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateBannerKey(ctx context.Context, id int, bannerKey *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tournaments SET banner_key = $1 WHERE id = $2`, bannerKey, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament banner key: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) IncrementParticipants(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `
		UPDATE tournaments
		SET current_participants = current_participants + 1
		WHERE id = $1 AND current_participants < max_participants`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentCapacityFull)
}

func (r *postgresTournamentRepository) DecrementParticipants(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `
		UPDATE tournaments
		SET current_participants = current_participants - 1
		WHERE id = $1 AND current_participants > 0`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) MarkPrizesAwarded(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE tournaments SET prizes_awarded = TRUE WHERE id = $1 AND NOT prizes_awarded`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentPrizesAwarded)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// ListDueForStart returns upcoming tournaments whose start date has passed,
// for the status scheduler.
func (r *postgresTournamentRepository) ListDueForStart(ctx context.Context, exec SQLExecutor) ([]*models.Tournament, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx, `
		SELECT `+tournamentColumns+`
		FROM tournaments
		WHERE status = $1 AND start_date <= NOW()`, models.TournamentStatusUpcoming)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments due for start: %w", err)
	}
	defer rows.Close()

	var tournaments []*models.Tournament
	for rows.Next() {
		var t models.Tournament
		if scanErr := scanTournament(rows, &t); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, &t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "tournaments_name_key" {
				return ErrTournamentNameConflict
			}
		case "23503":
			return ErrTournamentInUse
		}
	}
	return err
}
