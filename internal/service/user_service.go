package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
)

type IUserService interface {
	Register(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
}

type UserService struct {
	userRepo db.IUserRepository
}

var _ IUserService = (*UserService)(nil)

func NewUserService(userRepo db.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Register(ctx context.Context, user *model.User) error {
	if user.UserName == "" || user.UserEmail == "" {
		return fmt.Errorf("%w: user name and email are required", ErrValidation)
	}
	return s.userRepo.CreateUser(ctx, user)
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return nil, ErrUserNotExist
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, user *model.User) error {
	return s.userRepo.UpdateUser(ctx, user)
}
