package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"orderservice/pkg/common/domain"
	"orderservice/pkg/order/domain/model"
)

const (
	minPasswordLength = 6
	maxNameLength     = 100
)

type UserInput struct {
	Name     string
	Email    string
	Password string
}

type UserService interface {
	RegisterUser(ctx context.Context, input UserInput) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, input UserInput) (*model.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

func NewUserService(repo model.UserRepository, passManager model.PasswordManager, dispatcher domain.EventDispatcher) UserService {
	return &userService{
		repo:        repo,
		passManager: passManager,
		dispatcher:  dispatcher,
	}
}

type userService struct {
	repo        model.UserRepository
	passManager model.PasswordManager
	dispatcher  domain.EventDispatcher
}

func (s *userService) RegisterUser(ctx context.Context, input UserInput) (*model.User, error) {
	if err := validateUserInput(input, false).Err(); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, input.Email, uuid.Nil); err != nil {
		return nil, err
	}

	hashedPassword, err := s.passManager.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	userID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:             userID,
		Name:           input.Name,
		Email:          input.Email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	dispatchEvents(s.dispatcher, model.UserRegistered{UserID: userID, Email: user.Email})
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// UpdateUser applies the non-empty fields of input.
func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, input UserInput) (*model.User, error) {
	if err := validateUserInput(input, true).Err(); err != nil {
		return nil, err
	}

	user, err := s.repo.Find(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" && input.Email != user.Email {
		if err := s.ensureEmailFree(ctx, input.Email, user.ID); err != nil {
			return nil, err
		}
		user.Email = input.Email
	}
	if input.Password != "" {
		hashedPassword, err := s.passManager.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = hashedPassword
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	dispatchEvents(s.dispatcher, model.UserRemoved{UserID: userID})
	return nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email string, owner uuid.UUID) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != owner:
		return model.ErrEmailTaken
	}
	return nil
}

func validateUserInput(input UserInput, partial bool) model.ValidationErrors {
	var errs model.ValidationErrors
	if !partial || input.Name != "" {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			errs.Add("name", "must not be empty")
		} else if len(name) > maxNameLength {
			errs.Add("name", "must not exceed 100 characters")
		}
	}
	if !partial || input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			errs.Add("email", "must be a valid email address")
		}
	}
	if !partial || input.Password != "" {
		if len(input.Password) < minPasswordLength {
			errs.Add("password", "must have at least 6 characters")
		}
	}
	return errs
}
