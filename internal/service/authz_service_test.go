package service

import (
	"context"
	"errors"
	"testing"

	"github.com/framekart/framekart-store-service/internal/apperrors"
	"github.com/framekart/framekart-store-service/internal/models"
)

func TestAuthzService_RequireAdmin(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(repo *fakeRoleRepo)
		actorID string
		wantErr error
	}{
		{
			name: "admin passes",
			setup: func(repo *fakeRoleRepo) {
				repo.roles["admin_1"] = models.RoleAdmin
			},
			actorID: "admin_1",
			wantErr: nil,
		},
		{
			name: "customer denied",
			setup: func(repo *fakeRoleRepo) {
				repo.roles["cust_1"] = models.RoleCustomer
			},
			actorID: "cust_1",
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "unknown user denied",
			setup:   func(repo *fakeRoleRepo) {},
			actorID: "nobody",
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "empty actor denied",
			setup:   func(repo *fakeRoleRepo) {},
			actorID: "",
			wantErr: apperrors.ErrForbidden,
		},
		{
			name: "role store failure denies, never allows",
			setup: func(repo *fakeRoleRepo) {
				repo.err = errors.New("connection refused")
			},
			actorID: "admin_1",
			wantErr: apperrors.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRoleRepo()
			tt.setup(repo)
			svc := NewAuthzService(repo)

			err := svc.RequireAdmin(ctx, tt.actorID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RequireAdmin() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthzService_GetRole_DefaultsToCustomer(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthzService(newFakeRoleRepo())

	role, err := svc.GetRole(ctx, "never_assigned")
	if err != nil {
		t.Fatalf("GetRole() error = %v", err)
	}
	if role != models.RoleCustomer {
		t.Errorf("GetRole() = %v, want customer", role)
	}
}

func TestAuthzService_AssignRole(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRoleRepo()
	repo.roles["admin_1"] = models.RoleAdmin
	svc := NewAuthzService(repo)

	t.Run("admin can promote", func(t *testing.T) {
		if err := svc.AssignRole(ctx, "admin_1", "cust_1", models.RoleAdmin); err != nil {
			t.Fatalf("AssignRole() error = %v", err)
		}
		if repo.roles["cust_1"] != models.RoleAdmin {
			t.Errorf("role = %v, want admin", repo.roles["cust_1"])
		}
	})

	t.Run("admin can demote", func(t *testing.T) {
		if err := svc.AssignRole(ctx, "admin_1", "cust_1", models.RoleCustomer); err != nil {
			t.Fatalf("AssignRole() error = %v", err)
		}
		if repo.roles["cust_1"] != models.RoleCustomer {
			t.Errorf("role = %v, want customer", repo.roles["cust_1"])
		}
	})

	t.Run("non-admin denied and target unchanged", func(t *testing.T) {
		err := svc.AssignRole(ctx, "cust_1", "cust_2", models.RoleAdmin)
		if !errors.Is(err, apperrors.ErrForbidden) {
			t.Fatalf("AssignRole() = %v, want forbidden", err)
		}
		if _, ok := repo.roles["cust_2"]; ok {
			t.Error("target role changed by a denied request")
		}
	})

	t.Run("invalid role rejected before the gate", func(t *testing.T) {
		err := svc.AssignRole(ctx, "admin_1", "cust_2", models.Role("superuser"))
		if !apperrors.IsValidation(err) {
			t.Fatalf("AssignRole() = %v, want validation error", err)
		}
	})

	t.Run("empty target rejected", func(t *testing.T) {
		err := svc.AssignRole(ctx, "admin_1", "", models.RoleAdmin)
		if !apperrors.IsValidation(err) {
			t.Fatalf("AssignRole() = %v, want validation error", err)
		}
	})
}

func TestAuthzService_HasRole(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRoleRepo()
	repo.roles["admin_1"] = models.RoleAdmin
	svc := NewAuthzService(repo)

	isAdmin, err := svc.HasRole(ctx, "admin_1", models.RoleAdmin)
	if err != nil || !isAdmin {
		t.Errorf("HasRole(admin_1, admin) = %v, %v, want true", isAdmin, err)
	}

	// Missing assignment counts as customer, not as admin.
	isCustomer, err := svc.HasRole(ctx, "unknown", models.RoleCustomer)
	if err != nil || !isCustomer {
		t.Errorf("HasRole(unknown, customer) = %v, %v, want true", isCustomer, err)
	}

	isAdmin, err = svc.HasRole(ctx, "unknown", models.RoleAdmin)
	if err != nil || isAdmin {
		t.Errorf("HasRole(unknown, admin) = %v, %v, want false", isAdmin, err)
	}
}
