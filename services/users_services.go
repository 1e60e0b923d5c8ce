package services

import (
	"context"
	"errors"

	"arena-api/database"
	"arena-api/models"
)

// CreateUserInput holds the profile of a new user
type CreateUserInput struct {
	Username string `validate:"required,max=100"`
	Email    string `validate:"required,email"`
	Judge    bool
}

// UserService provisions the users that create, submit and rate
type UserService struct {
	store Store
}

func NewUserService(store Store) *UserService {
	return &UserService{store: store}
}

// Get returns a user by id
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, readError(err, KindNotFound, "user not found")
	}
	return user, nil
}

// Create inserts a user. Emails are unique
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Judge:    input.Judge,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, newError(KindValidation, "email already in use", err)
		}
		return nil, newError(KindInternal, "failed to create user", err)
	}
	return user, nil
}
