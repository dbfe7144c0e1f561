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
	ErrUserNotFound         = errors.New("user not found")
	ErrUserEmailConflict    = errors.New("email is already taken")
	ErrUserNicknameConflict = errors.New("nickname is already taken")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	// GetWalletBalanceForUpdate locks the user row for the duration of the
	// surrounding transaction and returns the current balance.
	GetWalletBalanceForUpdate(ctx context.Context, exec SQLExecutor, userID int) (int, error)
	// AdjustWalletBalance applies a signed delta and returns the new balance.
	AdjustWalletBalance(ctx context.Context, exec SQLExecutor, userID int, delta int) (int, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresUserRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (email, nickname, password_hash, wallet_balance)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		u.Email, u.Nickname, u.PasswordHash, u.WalletBalance,
	).Scan(&u.ID, &u.CreatedAt)

	return r.handleUserError(err)
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.getOne(ctx, `SELECT id, email, nickname, password_hash, wallet_balance, created_at FROM users WHERE id = $1`, id)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT id, email, nickname, password_hash, wallet_balance, created_at FROM users WHERE email = $1`, email)
}

func (r *postgresUserRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.WalletBalance, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *postgresUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	query := `
		SELECT id, email, nickname, password_hash, wallet_balance, created_at
		FROM users
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if scanErr := rows.Scan(&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.WalletBalance, &u.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresUserRepository) GetWalletBalanceForUpdate(ctx context.Context, exec SQLExecutor, userID int) (int, error) {
	executor := r.getExecutor(exec)
	var balance int
	err := executor.QueryRowContext(ctx,
		`SELECT wallet_balance FROM users WHERE id = $1 FOR UPDATE`, userID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

func (r *postgresUserRepository) AdjustWalletBalance(ctx context.Context, exec SQLExecutor, userID int, delta int) (int, error) {
	executor := r.getExecutor(exec)
	var balance int
	err := executor.QueryRowContext(ctx,
		`UPDATE users SET wallet_balance = wallet_balance + $1 WHERE id = $2 RETURNING wallet_balance`,
		delta, userID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to adjust wallet balance for user %d: %w", userID, err)
	}
	return balance, nil
}

func (r *postgresUserRepository) handleUserError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "users_email_key":
			return ErrUserEmailConflict
		case "users_nickname_key":
			return ErrUserNicknameConflict
		}
	}
	return err
}
