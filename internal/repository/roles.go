package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/framekart/framekart-store-service/internal/apperrors"
	"github.com/framekart/framekart-store-service/internal/logging"
	"github.com/framekart/framekart-store-service/internal/models"
)

// PostgresRoleRepository implements RoleRepository using PostgreSQL. The
// user_roles table carries a unique constraint on user_id: one effective
// role per user.
type PostgresRoleRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresRoleRepository creates a new PostgreSQL role repository.
func NewPostgresRoleRepository(db *sql.DB, logger *logging.Logger) *PostgresRoleRepository {
	return &PostgresRoleRepository{
		db:     db,
		logger: logger,
	}
}

// GetRole retrieves the user's effective role, or ErrNotFound when no
// assignment exists.
func (r *PostgresRoleRepository) GetRole(ctx context.Context, userID string) (models.Role, error) {
	var role models.Role
	err := r.db.QueryRowContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = $1`, userID,
	).Scan(&role)
	if err == sql.ErrNoRows {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", err
	}

	return role, nil
}

// Upsert replaces the user's effective role in a single atomic write. A
// delete-then-insert would leave a window with zero roles for the user,
// which is exactly the race this upsert exists to close.
func (r *PostgresRoleRepository) Upsert(ctx context.Context, userID string, role models.Role) error {
	query := `
		INSERT INTO user_roles (id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role
	`

	_, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, role, time.Now())
	if err != nil {
		r.logger.Error("Failed to upsert role", logging.Fields{
			"user_id": userID,
			"role":    role,
			"error":   err.Error(),
		})
		return err
	}

	r.logger.Info("Role assigned", logging.Fields{
		"user_id": userID,
		"role":    role,
	})
	return nil
}
