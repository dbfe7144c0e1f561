package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gzcarena/arena/models"
	"github.com/lib/pq"
)

var (
	ErrRoleAlreadyGranted = errors.New("role is already granted to this user")
	ErrRoleNotGranted     = errors.New("role is not granted to this user")
)

type RoleRepository interface {
	ListByUser(ctx context.Context, userID int) ([]models.UserRole, error)
	HasRole(ctx context.Context, userID int, role models.UserRole) (bool, error)
	Grant(ctx context.Context, userID int, role models.UserRole) error
	Revoke(ctx context.Context, userID int, role models.UserRole) error
}

type postgresRoleRepository struct {
	db *sql.DB
}

func NewPostgresRoleRepository(db *sql.DB) RoleRepository {
	return &postgresRoleRepository{db: db}
}

func (r *postgresRoleRepository) ListByUser(ctx context.Context, userID int) ([]models.UserRole, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]models.UserRole, 0)
	for rows.Next() {
		var role models.UserRole
		if scanErr := rows.Scan(&role); scanErr != nil {
			return nil, scanErr
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *postgresRoleRepository) HasRole(ctx context.Context, userID int, role models.UserRole) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`,
		userID, role,
	).Scan(&exists)
	return exists, err
}

func (r *postgresRoleRepository) Grant(ctx context.Context, userID int, role models.UserRole) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, userID, role)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrRoleAlreadyGranted
			case "23503":
				return ErrUserNotFound
			}
		}
		return err
	}
	return nil
}

func (r *postgresRoleRepository) Revoke(ctx context.Context, userID int, role models.UserRole) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role = $2`, userID, role)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRoleNotGranted)
}
