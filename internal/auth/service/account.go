package service

import (
	"context"
	"fmt"

	"github.com/metrically/metrically-backend/internal/auth/repository"
)

// UserDataDeleter removes a user's rows from one feature's store.
type UserDataDeleter interface {
	DeleteByUser(ctx context.Context, userID string) error
}

// AccountService handles account deletion. Deletion is a separate,
// unguarded operation: it removes the user's feature data and then the
// account row, with no undo.
type AccountService struct {
	userRepo *repository.UserRepository
	deleters []UserDataDeleter
}

func NewAccountService(userRepo *repository.UserRepository, deleters ...UserDataDeleter) *AccountService {
	return &AccountService{userRepo: userRepo, deleters: deleters}
}

// Delete removes everything stored for the user.
func (s *AccountService) Delete(ctx context.Context, userID string) error {
	for _, d := range s.deleters {
		if err := d.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete user data: %w", err)
		}
	}
	return s.userRepo.Delete(ctx, userID)
}
