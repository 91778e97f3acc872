package service

import (
	"context"

	"github.com/barzda/barbershop-api/internal/domain"
	"github.com/barzda/barbershop-api/internal/repo/postgres"
)

// UserDirectory is the admin-facing read side of the user store.
type UserDirectory interface {
	ListUsers(ctx context.Context, limit, offset int) ([]domain.AdminUser, error)
}

type userDirectory struct {
	users postgres.UsersRepo
}

func NewUserDirectory(users postgres.UsersRepo) UserDirectory {
	return &userDirectory{users: users}
}

func (s *userDirectory) ListUsers(ctx context.Context, limit, offset int) ([]domain.AdminUser, error) {
	return s.users.ListWithAppointmentCounts(ctx, limit, offset)
}
