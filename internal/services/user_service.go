package services

import (
	"context"
	"errors"
	"fmt"

	"wtch/internal/models"
	"wtch/internal/repositories"
)

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Email    string
	FullName string
	Phone    string
}

// UserService reads and edits the requester's own profile.
type UserService struct {
	repo repositories.UserRepository
}

func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

// UpdateProfile applies the update. An email held by another account is rejected.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Email != "" && upd.Email != user.Email {
		other, err := s.repo.GetByEmail(ctx, upd.Email)
		if err == nil && other.ID != user.ID {
			return nil, fmt.Errorf("email '%s': %w", upd.Email, ErrEmailTaken)
		}
		if err != nil && !errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = upd.Email
	}
	user.FullName = upd.FullName
	user.Phone = upd.Phone

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}
