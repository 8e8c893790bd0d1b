package service

import (
	"context"
	"errors"

	"github.com/framekart/framekart-store-service/internal/apperrors"
	"github.com/framekart/framekart-store-service/internal/logging"
	"github.com/framekart/framekart-store-service/internal/models"
	"github.com/framekart/framekart-store-service/internal/repository"
)

// AuthzService is the role authorization gate. Every staff-only mutation
// in the other services goes through RequireAdmin before touching state.
type AuthzService struct {
	roles  repository.RoleRepository
	logger *logging.Logger
}

// NewAuthzService creates the authorization gate.
func NewAuthzService(roles repository.RoleRepository) *AuthzService {
	return &AuthzService{
		roles:  roles,
		logger: logging.New("authz"),
	}
}

// HasRole reports whether the user holds the given role. A missing
// assignment defaults to customer and is never an error.
func (s *AuthzService) HasRole(ctx context.Context, userID string, role models.Role) (bool, error) {
	effective, err := s.roles.GetRole(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return role == models.RoleCustomer, nil
	}
	if err != nil {
		return false, err
	}
	return effective == role, nil
}

// RequireAdmin fails closed: any read error from the role store is
// reported as Forbidden, never as an open gate.
func (s *AuthzService) RequireAdmin(ctx context.Context, actorID string) error {
	if actorID == "" {
		return apperrors.ErrForbidden
	}

	isAdmin, err := s.HasRole(ctx, actorID, models.RoleAdmin)
	if err != nil {
		s.logger.Error("Role lookup failed, denying access", logging.Fields{
			"actor_id": actorID,
			"error":    err.Error(),
		})
		return apperrors.ErrForbidden
	}
	if !isAdmin {
		return apperrors.ErrForbidden
	}
	return nil
}

// GetRole returns the user's effective role, defaulting to customer.
func (s *AuthzService) GetRole(ctx context.Context, userID string) (models.Role, error) {
	role, err := s.roles.GetRole(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return models.RoleCustomer, nil
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// AssignRole sets the target user's effective role. Only admins may call
// it; the underlying write is an atomic upsert so the target never passes
// through a roleless state.
func (s *AuthzService) AssignRole(ctx context.Context, actorID, targetUserID string, role models.Role) error {
	if !models.ValidRole(role) {
		return apperrors.NewValidationError("role", "invalid role")
	}
	if targetUserID == "" {
		return apperrors.NewValidationError("user_id", "target user ID is required")
	}

	if err := s.RequireAdmin(ctx, actorID); err != nil {
		return err
	}

	if err := s.roles.Upsert(ctx, targetUserID, role); err != nil {
		return err
	}

	s.logger.Info("Role assignment applied", logging.Fields{
		"actor_id":  actorID,
		"target_id": targetUserID,
		"role":      role,
	})
	return nil
}
