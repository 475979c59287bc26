// userservice.go
package userservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/connectpro/internal/datastore/constants"
	"github.com/haguru/connectpro/internal/interfaces"
	"github.com/haguru/connectpro/internal/models"
	"github.com/haguru/connectpro/pkg/helper"
)

// ErrInvalidCredentials is returned for an unknown email and for a wrong
// password alike, so callers cannot distinguish the two.
var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService struct {
	Store  interfaces.Store
	Logger interfaces.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(store interfaces.Store, logger interfaces.Logger) *UserService {
	return &UserService{
		Store:  store,
		Logger: logger,
	}
}

// Register creates the user in the active backend. A taken email surfaces as
// interfaces.ErrEmailExists for the handler to map to a conflict.
func (s *UserService) Register(ctx context.Context, input models.NewUser) (*models.User, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "email", input.Email)

	user, err := s.Store.CreateUser(ctx, input)
	if err != nil {
		if errors.Is(err, interfaces.ErrEmailExists) {
			s.Logger.Info("Registration rejected, email taken", "func", funcName, "email", input.Email)
			return nil, err
		}
		s.Logger.Error(ErrFailedToRegisterUser, "func", funcName, "email", input.Email, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToRegisterUser, err)
	}

	s.Logger.Info("User registered successfully", "func", funcName, "ID", user.ID)
	return user, nil
}

// Authenticate verifies a user's credentials and returns the sanitized user,
// or ErrInvalidCredentials without revealing whether the email exists.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "email", email)

	user, err := s.Store.FindUserByEmail(ctx, email)
	if err != nil {
		s.Logger.Error(ErrRetrievingUser, "func", funcName, "email", email, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}
	if user == nil {
		s.Logger.Info("Login failed, unknown email", "func", funcName, "email", email)
		return nil, ErrInvalidCredentials
	}

	ok, err := s.Store.ComparePassword(user, password)
	if err != nil {
		s.Logger.Error("Stored password digest is malformed", "func", funcName, "ID", user.ID, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}
	if !ok {
		s.Logger.Info("Login failed, wrong password", "func", funcName, "ID", user.ID)
		return nil, ErrInvalidCredentials
	}

	s.Logger.Info("User authenticated successfully", "func", funcName, "ID", user.ID)
	return user.Sanitized(), nil
}

// GetUser returns the user for id, or nil when absent.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Store.FindUserByID(ctx, id)
	if err != nil {
		s.Logger.Error(ErrRetrievingUser, "func", helper.GetFuncName(), "ID", id, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}
	return user, nil
}

// ListUsers returns the most recently joined users.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.Store.ListUsers(ctx, constants.DefaultFeedLimit)
	if err != nil {
		s.Logger.Error(ErrListingUsers, "func", helper.GetFuncName(), "error", err)
		return nil, fmt.Errorf("%s: %w", ErrListingUsers, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
